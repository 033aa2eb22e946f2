/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DependencyKind tags the variant held by a Dependency.
type DependencyKind int

const (
	DependencyNone DependencyKind = iota
	// DependencyGlobList derives the revision from the files matched by the patterns.
	DependencyGlobList
	// DependencyLiteral uses a caller-supplied string as the revision.
	DependencyLiteral
	// DependencyUnsupported holds a value of any other shape.
	DependencyUnsupported
)

// String returns the string representation of the kind
func (k DependencyKind) String() string {
	switch k {
	case DependencyGlobList:
		return "glob-list"
	case DependencyLiteral:
		return "literal"
	case DependencyUnsupported:
		return "unsupported"
	default:
		return "none"
	}
}

// Dependency describes how a templated URL gets its revision.
type Dependency struct {
	Kind     DependencyKind
	Patterns []string
	Literal  string
	// Raw is the original value of an unsupported dependency.
	Raw any
}

// GlobList builds a dependency on the files matched by patterns, in order.
func GlobList(patterns ...string) Dependency {
	return Dependency{Kind: DependencyGlobList, Patterns: patterns}
}

// Literal builds a dependency whose revision is s. An empty s produces an entry
// without a revision, which is treated like a cache-bust-exempt URL.
func Literal(s string) Dependency {
	return Dependency{Kind: DependencyLiteral, Literal: s}
}

// Unsupported wraps a value that is neither a pattern list nor a string.
func Unsupported(raw any) Dependency {
	return Dependency{Kind: DependencyUnsupported, Raw: raw}
}

// ParseDependency classifies a decoded config value. Lists whose items are all
// strings are glob lists; strings are literals; anything else is unsupported.
func ParseDependency(v any) Dependency {
	switch t := v.(type) {
	case string:
		return Literal(t)
	case []string:
		return GlobList(append([]string(nil), t...)...)
	case []any:
		patterns := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return Unsupported(v)
			}
			patterns = append(patterns, s)
		}
		return GlobList(patterns...)
	default:
		return Unsupported(v)
	}
}

// UnmarshalJSON accepts a JSON string or array, and keeps any other value as
// an unsupported dependency.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode templated URL dependency: %w", err)
	}
	*d = ParseDependency(v)
	return nil
}

// MarshalJSON writes the dependency back in its config form.
func (d Dependency) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DependencyGlobList:
		return json.Marshal(d.Patterns)
	case DependencyLiteral:
		return json.Marshal(d.Literal)
	default:
		return json.Marshal(d.Raw)
	}
}

// String renders the dependency for error messages and logs.
func (d Dependency) String() string {
	switch d.Kind {
	case DependencyGlobList:
		return "[" + strings.Join(d.Patterns, ", ") + "]"
	case DependencyLiteral:
		return fmt.Sprintf("%q", d.Literal)
	case DependencyUnsupported:
		return fmt.Sprintf("%v", d.Raw)
	default:
		return "<none>"
	}
}

// UnsupportedPolicy decides what happens to unsupported dependencies.
type UnsupportedPolicy int

const (
	// UnsupportedSkip drops the templated URL and logs it at debug level.
	UnsupportedSkip UnsupportedPolicy = iota
	// UnsupportedFail aborts the build with CodeUnsupportedDependency.
	UnsupportedFail
)
