/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package transform

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fulmenhq/precache/pkg/manifest"
)

// ErrBadPrefixes is returned for an unusable modifyUrlPrefix mapping.
var ErrBadPrefixes = errors.New("modify-url-prefix-bad-prefixes: modifyUrlPrefix must map string prefixes to string replacements")

// MaximumSize drops entries larger than max bytes, with one warning per entry.
func MaximumSize(max int64) ManifestTransform {
	return func(_ context.Context, entries []manifest.ManifestEntry) (*TransformResult, error) {
		kept := make([]manifest.ManifestEntry, 0, len(entries))
		var warnings []string
		for _, e := range entries {
			if e.Size <= max {
				kept = append(kept, e)
				continue
			}
			warnings = append(warnings, fmt.Sprintf(
				"%s is %s, and won't be precached. Configure maximumFileSizeToCacheInBytes to change this limit.",
				e.URL, FormatBytes(e.Size)))
		}
		return &TransformResult{Manifest: kept, Warnings: warnings}, nil
	}
}

// ModifyURLPrefix rewrites the leading prefix of each URL. When several prefixes
// match, the longest wins.
func ModifyURLPrefix(prefixes map[string]string) (ManifestTransform, error) {
	if prefixes == nil {
		return nil, ErrBadPrefixes
	}

	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return func(_ context.Context, entries []manifest.ManifestEntry) (*TransformResult, error) {
		out := make([]manifest.ManifestEntry, 0, len(entries))
		for _, e := range entries {
			for _, k := range keys {
				if strings.HasPrefix(e.URL, k) {
					e.URL = prefixes[k] + strings.TrimPrefix(e.URL, k)
					break
				}
			}
			out = append(out, e)
		}
		return &TransformResult{Manifest: out}, nil
	}, nil
}

// NoRevisionForURLsMatching clears the revision of entries whose URL matches re.
// Those URLs are expected to carry their own versioning (for example a content
// hash in the file name).
func NoRevisionForURLsMatching(re *regexp.Regexp) ManifestTransform {
	return func(_ context.Context, entries []manifest.ManifestEntry) (*TransformResult, error) {
		out := make([]manifest.ManifestEntry, 0, len(entries))
		for _, e := range entries {
			if re.MatchString(e.URL) {
				e.Revision = ""
			}
			out = append(out, e)
		}
		return &TransformResult{Manifest: out}, nil
	}
}

// FormatBytes renders n with decimal units, e.g. "2.1 MB".
func FormatBytes(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGTPE"[exp])
}
