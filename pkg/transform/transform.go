/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package transform turns the raw file details assembled by the precache builder
// into the final manifest: entries are normalized, filtered by size, rewritten by
// URL prefix, exempted from cache busting, and finally handed to any caller-supplied
// transforms in order.
package transform

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fulmenhq/precache/pkg/manifest"
)

// ErrBadTransformResult is returned when a ManifestTransform returns neither a
// result nor an error.
var ErrBadTransformResult = errors.New("bad-manifest-transforms-return-value: a manifest transform must return a result with a manifest")

// TransformResult is what a single transform produces.
type TransformResult struct {
	Manifest []manifest.ManifestEntry
	Warnings []string
}

// ManifestTransform rewrites a manifest. Implementations must not mutate the input
// slice in place; they return a new manifest in the result.
type ManifestTransform func(ctx context.Context, entries []manifest.ManifestEntry) (*TransformResult, error)

// Options configures the pipeline. Zero values disable the corresponding stage.
type Options struct {
	MaximumFileSizeToCacheInBytes int64
	ModifyURLPrefix               map[string]string
	DontCacheBustURLsMatching     *regexp.Regexp
	ManifestTransforms            []ManifestTransform
}

// Result is the final output of the pipeline.
type Result struct {
	ManifestEntries []manifest.ManifestEntry `json:"manifestEntries"`
	Warnings        []string                 `json:"warnings"`
	// Size is the total number of bytes of the included entries.
	Size  int64 `json:"size"`
	Count int   `json:"count"`
}

// Filter runs the pipeline over the raw details.
func Filter(ctx context.Context, details []manifest.FileDetails, opts Options) (*Result, error) {
	entries := normalize(details)

	transforms, err := builtins(opts)
	if err != nil {
		return nil, err
	}
	transforms = append(transforms, opts.ManifestTransforms...)

	warnings := []string{}
	for i, t := range transforms {
		res, err := t(ctx, entries)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("transform %d: %w", i, ErrBadTransformResult)
		}
		entries = res.Manifest
		warnings = append(warnings, res.Warnings...)
	}

	if entries == nil {
		entries = []manifest.ManifestEntry{}
	}

	var size int64
	for _, e := range entries {
		size += e.Size
	}

	return &Result{
		ManifestEntries: entries,
		Warnings:        warnings,
		Size:            size,
		Count:           len(entries),
	}, nil
}

func normalize(details []manifest.FileDetails) []manifest.ManifestEntry {
	entries := make([]manifest.ManifestEntry, 0, len(details))
	for _, d := range details {
		entries = append(entries, manifest.ManifestEntry{
			URL:      strings.ReplaceAll(d.File, `\`, "/"),
			Revision: d.Hash,
			Size:     d.Size,
			Kind:     d.Kind,
		})
	}
	return entries
}

func builtins(opts Options) ([]ManifestTransform, error) {
	var transforms []ManifestTransform
	if opts.MaximumFileSizeToCacheInBytes > 0 {
		transforms = append(transforms, MaximumSize(opts.MaximumFileSizeToCacheInBytes))
	}
	if len(opts.ModifyURLPrefix) > 0 {
		t, err := ModifyURLPrefix(opts.ModifyURLPrefix)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	if opts.DontCacheBustURLsMatching != nil {
		transforms = append(transforms, NoRevisionForURLsMatching(opts.DontCacheBustURLsMatching))
	}
	return transforms, nil
}
