/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fulmenhq/precache/pkg/pathfinder"
	"github.com/fulmenhq/precache/pkg/pattern"
	"github.com/fulmenhq/precache/pkg/precache"
	"github.com/fulmenhq/precache/pkg/transform"
)

// BuildOptions converts the config into build options. The manifest policy,
// if any, is compiled here; a relative policy path is resolved against the
// directory of the config file.
func (c *Config) BuildOptions(ctx context.Context) (precache.Options, error) {
	opts := precache.Options{
		GlobDirectory:                 c.GlobDirectory,
		GlobPatterns:                  append([]string(nil), c.GlobPatterns...),
		GlobIgnores:                   append([]string(nil), c.GlobIgnores...),
		SwDest:                        c.SwDest,
		MaximumFileSizeToCacheInBytes: c.MaximumFileSize(),
		ModifyURLPrefix:               c.ModifyURLPrefix,
	}

	if len(c.TemplatedURLs) > 0 {
		opts.TemplatedURLs = make(map[string]precache.Dependency, len(c.TemplatedURLs))
		for url, dep := range c.TemplatedURLs {
			opts.TemplatedURLs[url] = dep
		}
	}

	re, err := c.cacheBustRegexp()
	if err != nil {
		return precache.Options{}, err
	}
	opts.DontCacheBustURLsMatching = re

	if c.ManifestPolicy != "" {
		policy, err := c.loadPolicy(ctx)
		if err != nil {
			return precache.Options{}, err
		}
		opts.ManifestTransforms = append(opts.ManifestTransforms, policy)
	}

	if c.StrictTemplatedURLs {
		opts.UnsupportedDependencies = precache.UnsupportedFail
	}

	return opts, nil
}

// DiscovererOptions returns the pathfinder options the config implies.
func (c *Config) DiscovererOptions() []pathfinder.Option {
	return []pathfinder.Option{
		pathfinder.WithIgnoreFiles(c.RespectIgnoreFiles),
		pathfinder.WithHashWorkers(c.HashWorkers),
	}
}

// cacheBustRegexp joins dontCacheBustUrlsMatching and dontCacheBustGlobs into
// one expression. Nil when neither is set.
func (c *Config) cacheBustRegexp() (*regexp.Regexp, error) {
	var parts []string
	if c.DontCacheBustURLsMatching != "" {
		parts = append(parts, c.DontCacheBustURLsMatching)
	}
	if len(c.DontCacheBustGlobs) > 0 {
		globs, err := pattern.GlobsToRegexp(c.DontCacheBustGlobs)
		if err != nil {
			return nil, fmt.Errorf("%w: dontCacheBustGlobs: %v", ErrInvalidConfig, err)
		}
		parts = append(parts, globs.String())
	}

	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return regexp.Compile(parts[0])
	}

	re, err := regexp.Compile("(?:" + strings.Join(parts, ")|(?:") + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return re, nil
}

// loadPolicy keeps a relative policy path inside the config file's directory.
func (c *Config) loadPolicy(ctx context.Context) (transform.ManifestTransform, error) {
	if filepath.IsAbs(c.ManifestPolicy) || c.Path == "" {
		return transform.LoadPolicyTransform(ctx, c.ManifestPolicy)
	}
	return transform.LoadPolicyTransformIn(ctx, filepath.Dir(c.Path), c.ManifestPolicy)
}
