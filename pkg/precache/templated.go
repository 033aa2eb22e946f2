/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"context"
	"sort"

	"github.com/fulmenhq/precache/pkg/logger"
	"github.com/fulmenhq/precache/pkg/manifest"
)

// resolveTemplated produces one entry per templated URL, in lexical URL order.
// Dependency patterns that match nothing are reported as warnings.
func (b *Builder) resolveTemplated(ctx context.Context, opts Options, set *dedupSet, ignores []string) ([]manifest.FileDetails, []string, error) {
	urls := make([]string, 0, len(opts.TemplatedURLs))
	for url := range opts.TemplatedURLs {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	var out []manifest.FileDetails
	var warnings []string
	for _, url := range urls {
		if set.contains(url) {
			return nil, nil, &Error{
				Code:    CodeTemplatedURLMatchesGlob,
				Message: "one of the templatedUrls keys is also a file matched by globPatterns",
				URL:     url,
			}
		}

		dep := opts.TemplatedURLs[url]
		switch dep.Kind {
		case DependencyGlobList:
			deps, warns, err := b.resolveGlobList(ctx, opts.GlobDirectory, url, dep, ignores)
			if err != nil {
				return nil, nil, err
			}
			warnings = append(warnings, warns...)
			out = append(out, NewCompositeDetails(url, deps))
		case DependencyLiteral:
			out = append(out, NewStringDetails(url, dep.Literal))
		default:
			if opts.UnsupportedDependencies == UnsupportedFail {
				return nil, nil, &Error{
					Code:         CodeUnsupportedDependency,
					Message:      "templatedUrls values must be a list of glob patterns or a string",
					URL:          url,
					Dependencies: dep,
				}
			}
			logger.Debug("Skipping templated URL with unsupported dependency",
				logger.String("url", url),
				logger.String("dependency", dep.String()))
		}
		b.step(url)
	}
	return out, warnings, nil
}

// resolveGlobList discovers each pattern on its own; matches are not checked
// against the dedup set since dependencies may overlap with precached files.
func (b *Builder) resolveGlobList(ctx context.Context, dir, url string, dep Dependency, ignores []string) ([]manifest.FileDetails, []string, error) {
	var deps []manifest.FileDetails
	var warnings []string
	for _, pattern := range dep.Patterns {
		files, err := b.discoverer.Discover(ctx, manifest.GlobQuery{
			Directory: dir,
			Pattern:   pattern,
			Ignores:   ignores,
		})
		if err != nil {
			return nil, nil, &Error{
				Code:         CodeBadTemplateURLsAsset,
				Message:      "there was an issue using one of the provided templatedUrls",
				URL:          url,
				Pattern:      pattern,
				Dependencies: dep,
				Cause:        err,
			}
		}
		if len(files) == 0 {
			warnings = append(warnings, templatedPatternWarning(dir, url, pattern, ignores))
		}
		deps = append(deps, files...)
	}
	return deps, warnings, nil
}
