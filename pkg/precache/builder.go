/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"context"
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"github.com/fulmenhq/precache/pkg/logger"
	"github.com/fulmenhq/precache/pkg/manifest"
	"github.com/fulmenhq/precache/pkg/transform"
)

// Defaults used when a config file leaves the corresponding key unset.
var (
	DefaultGlobPatterns = []string{"**/*.{js,css,html}"}
	DefaultGlobIgnores  = []string{"node_modules/**/*"}
)

// DefaultMaximumFileSizeToCacheInBytes is 2 MiB.
const DefaultMaximumFileSizeToCacheInBytes int64 = 2097152

// Options is the input to Build. GlobIgnores is never modified.
type Options struct {
	// GlobDirectory is the root for every glob. Empty skips discovery.
	GlobDirectory string
	GlobPatterns  []string
	GlobIgnores   []string
	TemplatedURLs map[string]Dependency
	// SwDest is where the manifest will be written; its basename is never precached.
	SwDest string

	// MaximumFileSizeToCacheInBytes of 0 disables the size ceiling.
	MaximumFileSizeToCacheInBytes int64
	ModifyURLPrefix               map[string]string
	DontCacheBustURLsMatching     *regexp.Regexp
	ManifestTransforms            []transform.ManifestTransform

	UnsupportedDependencies UnsupportedPolicy
}

// Builder assembles precache manifests.
type Builder struct {
	discoverer Discoverer
	progress   func(step string)
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithProgress registers a callback invoked after each glob pattern and each
// templated URL is processed.
func WithProgress(fn func(step string)) BuilderOption {
	return func(b *Builder) {
		b.progress = fn
	}
}

// NewBuilder creates a Builder backed by d.
func NewBuilder(d Discoverer, opts ...BuilderOption) *Builder {
	b := &Builder{discoverer: d}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Steps is the number of progress callbacks Build makes for opts.
func Steps(opts Options) int {
	n := len(opts.TemplatedURLs)
	if opts.GlobDirectory != "" {
		n += len(opts.GlobPatterns)
	}
	return n
}

// Build discovers files, resolves templated URLs and runs the transform pipeline.
// Fatal errors abort the build and no partial manifest is returned.
func (b *Builder) Build(ctx context.Context, opts Options) (*transform.Result, error) {
	ignores := DeriveIgnores(opts.GlobDirectory, opts.GlobIgnores, opts.SwDest)
	set := newDedupSet()
	var warnings []string

	if opts.GlobDirectory != "" {
		for _, pattern := range opts.GlobPatterns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			files, err := b.discoverer.Discover(ctx, manifest.GlobQuery{
				Directory: opts.GlobDirectory,
				Pattern:   pattern,
				Ignores:   ignores,
			})
			if err != nil {
				return nil, &Error{
					Code:    CodeUnableToGlobFiles,
					Message: "unable to glob files",
					Pattern: pattern,
					Cause:   err,
				}
			}

			if len(files) == 0 {
				warnings = append(warnings, uselessPatternWarning(opts.GlobDirectory, pattern, ignores))
			}

			added := set.add(files)
			logger.Debug("Discovered files",
				logger.String("pattern", pattern),
				logger.Int("matched", len(files)),
				logger.Int("added", added))
			b.step(pattern)
		}
	}

	templated, templatedWarnings, err := b.resolveTemplated(ctx, opts, set, ignores)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, templatedWarnings...)

	details := make([]manifest.FileDetails, 0, len(set.entries)+len(templated))
	details = append(details, set.entries...)
	details = append(details, templated...)

	res, err := transform.Filter(ctx, details, transform.Options{
		MaximumFileSizeToCacheInBytes: opts.MaximumFileSizeToCacheInBytes,
		ModifyURLPrefix:               opts.ModifyURLPrefix,
		DontCacheBustURLsMatching:     opts.DontCacheBustURLsMatching,
		ManifestTransforms:            opts.ManifestTransforms,
	})
	if err != nil {
		return nil, err
	}

	res.Warnings = append(warnings, res.Warnings...)
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res, nil
}

func (b *Builder) step(s string) {
	if b.progress != nil {
		b.progress(s)
	}
}

// DeriveIgnores returns ignores plus a pattern for the basename of swDest. The
// extra pattern is only added when discovery runs, and ignores is never modified.
func DeriveIgnores(globDirectory string, ignores []string, swDest string) []string {
	out := make([]string, 0, len(ignores)+1)
	out = append(out, ignores...)
	if globDirectory == "" || swDest == "" {
		return out
	}
	base := path.Base(strings.ReplaceAll(swDest, `\`, "/"))
	if base == "." || base == "/" {
		return out
	}
	return append(out, "**/"+base)
}

func uselessPatternWarning(dir, pattern string, ignores []string) string {
	detail, _ := json.Marshal(struct {
		GlobDirectory string   `json:"globDirectory"`
		GlobPattern   string   `json:"globPattern"`
		GlobIgnores   []string `json:"globIgnores"`
	}{dir, pattern, ignores})
	return "One of the glob patterns doesn't match any files. Please remove or fix the following: " + string(detail)
}

// templatedPatternWarning is uselessPatternWarning for a templated URL
// dependency. Without a match the URL's revision never changes.
func templatedPatternWarning(dir, url, pattern string, ignores []string) string {
	detail, _ := json.Marshal(struct {
		TemplatedURL  string   `json:"templatedUrl"`
		GlobDirectory string   `json:"globDirectory"`
		GlobPattern   string   `json:"globPattern"`
		GlobIgnores   []string `json:"globIgnores"`
	}{url, dir, pattern, ignores})
	return "One of the glob patterns doesn't match any files. Please remove or fix the following: " + string(detail)
}
