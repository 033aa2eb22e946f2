/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package config loads precache configuration files and turns them into build
// options. Files are YAML, TOML or JSON; scalar keys can be overridden from the
// environment (PRECACHE_*) and from command-line flags.
package config

import (
	"fmt"
	"regexp"

	"github.com/fulmenhq/precache/pkg/precache"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatJS    = "js"
	FormatTable = "table"
)

// Config holds all configuration for precache. Keys mirror the build options.
type Config struct {
	GlobDirectory string                         `json:"globDirectory,omitempty"`
	GlobPatterns  []string                       `json:"globPatterns,omitempty"`
	GlobIgnores   []string                       `json:"globIgnores,omitempty"`
	TemplatedURLs map[string]precache.Dependency `json:"templatedUrls,omitempty"`
	SwDest        string                         `json:"swDest,omitempty"`

	// MaximumFileSizeToCacheInBytes is a pointer so an explicit 0 (no ceiling)
	// can be told apart from an unset key.
	MaximumFileSizeToCacheInBytes *int64            `json:"maximumFileSizeToCacheInBytes,omitempty"`
	ModifyURLPrefix               map[string]string `json:"modifyUrlPrefix,omitempty"`
	DontCacheBustURLsMatching     string            `json:"dontCacheBustUrlsMatching,omitempty"`
	DontCacheBustGlobs            []string          `json:"dontCacheBustGlobs,omitempty"`
	ManifestPolicy                string            `json:"manifestPolicy,omitempty"`

	RespectIgnoreFiles  bool   `json:"respectIgnoreFiles,omitempty"`
	HashWorkers         int    `json:"hashWorkers,omitempty"`
	StrictTemplatedURLs bool   `json:"strictTemplatedUrls,omitempty"`
	Format              string `json:"format,omitempty"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `json:"-"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.GlobPatterns == nil {
		cfg.GlobPatterns = append([]string(nil), precache.DefaultGlobPatterns...)
	}
	if cfg.GlobIgnores == nil {
		cfg.GlobIgnores = append([]string(nil), precache.DefaultGlobIgnores...)
	}
	if cfg.MaximumFileSizeToCacheInBytes == nil {
		max := precache.DefaultMaximumFileSizeToCacheInBytes
		cfg.MaximumFileSizeToCacheInBytes = &max
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
}

// MaximumFileSize returns the size ceiling, 0 meaning none.
func (c *Config) MaximumFileSize() int64 {
	if c.MaximumFileSizeToCacheInBytes == nil {
		return 0
	}
	return *c.MaximumFileSizeToCacheInBytes
}

// Validate checks the values the schema cannot express.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatJS, FormatTable:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.MaximumFileSize() < 0 {
		return fmt.Errorf("%w: maximumFileSizeToCacheInBytes cannot be negative", ErrInvalidConfig)
	}
	if c.HashWorkers < 0 {
		return fmt.Errorf("%w: hashWorkers cannot be negative", ErrInvalidConfig)
	}
	for url, dep := range c.TemplatedURLs {
		if dep.Kind == precache.DependencyLiteral && dep.Literal == "" {
			return fmt.Errorf("%w: templatedUrls[%q] has an empty revision", ErrInvalidConfig, url)
		}
	}
	if c.DontCacheBustURLsMatching != "" {
		if _, err := regexp.Compile(c.DontCacheBustURLsMatching); err != nil {
			return fmt.Errorf("%w: dontCacheBustUrlsMatching: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
