/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package pathfinder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrInvalidPattern is returned for a pattern doublestar cannot parse.
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrPatternEscapes is returned for a pattern that reaches outside the glob directory.
	ErrPatternEscapes = errors.New("glob pattern escapes the glob directory")
)

// SafetyValidator normalizes glob patterns and keeps them inside the glob directory.
type SafetyValidator struct {
	allowAbsolute bool
}

// NewSafetyValidator creates a new safety validator with default settings
func NewSafetyValidator() *SafetyValidator {
	return &SafetyValidator{}
}

// SetAllowAbsolute lets patterns start with "/", which is then stripped so the
// pattern is still anchored at the glob directory.
func (s *SafetyValidator) SetAllowAbsolute(allow bool) {
	s.allowAbsolute = allow
}

// ValidateQuery normalizes and checks a pattern and its ignore list.
func (s *SafetyValidator) ValidateQuery(pattern string, ignores []string) (string, []string, error) {
	p, err := s.ValidatePattern(pattern)
	if err != nil {
		return "", nil, err
	}

	out := make([]string, 0, len(ignores))
	for _, ig := range ignores {
		n, err := s.ValidatePattern(ig)
		if err != nil {
			return "", nil, fmt.Errorf("ignore pattern: %w", err)
		}
		out = append(out, n)
	}
	return p, out, nil
}

// ValidatePattern returns the normalized form of pattern: forward slashes, no
// leading "./".
func (s *SafetyValidator) ValidatePattern(pattern string) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", fmt.Errorf("%w: pattern cannot be empty", ErrInvalidPattern)
	}

	// Level 1: separators and redundant prefixes
	normalized := strings.ReplaceAll(pattern, `\`, "/")
	for strings.HasPrefix(normalized, "./") {
		normalized = strings.TrimPrefix(normalized, "./")
	}

	// Level 2: containment
	if strings.HasPrefix(normalized, "/") {
		if !s.allowAbsolute {
			return "", fmt.Errorf("%w: %q is absolute", ErrPatternEscapes, pattern)
		}
		normalized = strings.TrimLeft(normalized, "/")
	}
	if err := detectTraversal(normalized); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrPatternEscapes, pattern, err)
	}

	// Level 3: syntax
	if !doublestar.ValidatePattern(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	return normalized, nil
}

// detectTraversal rejects ".." path segments
func detectTraversal(pattern string) error {
	for _, seg := range strings.Split(pattern, "/") {
		if seg == ".." {
			return errors.New("pattern contains traversal sequences (..)")
		}
	}
	return nil
}
