/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"context"

	"github.com/fulmenhq/precache/pkg/manifest"
)

//go:generate mockgen -destination=../../internal/mocks/mock_discoverer.go -package=mocks github.com/fulmenhq/precache/pkg/precache Discoverer

// Discoverer finds and fingerprints the files matching one glob pattern.
// Implementations return an error for an empty directory, an invalid pattern
// or an I/O failure.
type Discoverer interface {
	Discover(ctx context.Context, query manifest.GlobQuery) ([]manifest.FileDetails, error)
}

// DiscovererFunc adapts a function to the Discoverer interface.
type DiscovererFunc func(ctx context.Context, query manifest.GlobQuery) ([]manifest.FileDetails, error)

// Discover calls f.
func (f DiscovererFunc) Discover(ctx context.Context, query manifest.GlobQuery) ([]manifest.FileDetails, error) {
	return f(ctx, query)
}
