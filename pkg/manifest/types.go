/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package manifest defines the value types shared by discovery, the templated URL
// resolver and the transform pipeline.
package manifest

// Kind records where a FileDetails value came from.
type Kind int

const (
	// KindFile is a physical file matched by a glob pattern.
	KindFile Kind = iota
	// KindComposite is a templated URL backed by several physical files.
	KindComposite
	// KindLiteral is a templated URL whose revision is a caller-supplied string.
	KindLiteral
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindComposite:
		return "composite"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// FileDetails is one raw manifest contributor: a discovered file, a composite
// templated URL or a literal templated URL.
type FileDetails struct {
	// File is the path relative to the glob directory, or the templated URL.
	File string `json:"file"`
	// Hash is the content revision (or the literal string for KindLiteral).
	Hash string `json:"hash"`
	// Size in bytes. Zero for literals.
	Size int64 `json:"size"`
	Kind Kind  `json:"-"`
}

// ManifestEntry is the output unit of the pipeline.
type ManifestEntry struct {
	URL string `json:"url"`
	// Revision is empty when the URL is exempt from cache busting.
	Revision string `json:"revision,omitempty"`
	// Size is carried through the transforms for size accounting only.
	Size int64 `json:"-"`
	Kind Kind  `json:"-"`
}

// GlobQuery is a single request to a discoverer.
type GlobQuery struct {
	Directory string
	Pattern   string
	Ignores   []string
}
