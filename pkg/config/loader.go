/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/precache/pkg/precache"
	"github.com/fulmenhq/precache/pkg/safeio"
)

// Loader loads and validates config files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a config file from the given path
func (l *Loader) Load(path string) (*Config, error) {
	clean, err := safeio.CleanUserPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(clean) // #nosec G304 -- path cleaned above
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := l.LoadFromBytes(data, filepath.Ext(clean))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = clean
	return cfg, nil
}

// LoadFromBytes parses configuration from raw bytes. ext selects the decoder.
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Config, error) {
	doc, err := decode(data, strings.ToLower(ext))
	if err != nil {
		return nil, err
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	// Re-encode so the document decodes into Config the same way for every format
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var cfg Config
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	classifyDependencies(&cfg, doc)

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func decode(data []byte, ext string) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if len(strings.TrimSpace(string(data))) == 0 {
			return doc, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}

// classifyDependencies reclassifies templatedUrls from the decoded values.
// YAML and TOML dates would otherwise reach Config as strings and become
// literals with a revision the user never wrote.
func classifyDependencies(cfg *Config, doc map[string]interface{}) {
	raw, ok := doc["templatedUrls"].(map[string]interface{})
	if !ok {
		return
	}
	for url, v := range raw {
		cfg.TemplatedURLs[url] = precache.ParseDependency(v)
	}
}
