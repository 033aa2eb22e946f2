/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the precache-specific ignore file read from the glob directory root.
const FileName = ".precacheignore"

// Matcher provides gitignore-based file filtering
type Matcher struct {
	matcher  gitignore.Matcher
	patterns int
}

// NewMatcher creates a matcher with layered ignore files, all relative to the root
// of fs:
// 1. .git is always ignored
// 2. .gitignore files (any depth) and .git/info/exclude
// 3. .precacheignore at the root (overrides)
func NewMatcher(fs billy.Filesystem) (*Matcher, error) {
	allPatterns := []gitignore.Pattern{gitignore.ParsePattern(".git/", nil)}

	// ReadPatterns with nil path reads .gitignore recursively and .git/info/exclude
	gitPatterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore patterns: %w", err)
	}
	allPatterns = append(allPatterns, gitPatterns...)

	lines, err := readIgnoreFile(fs, FileName)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		allPatterns = append(allPatterns, gitignore.ParsePattern(line, nil))
	}

	return &Matcher{
		matcher:  gitignore.NewMatcher(allPatterns),
		patterns: len(allPatterns),
	}, nil
}

// readIgnoreFile returns the patterns of a gitignore-style file; a missing file
// yields no patterns.
func readIgnoreFile(fs billy.Filesystem, name string) ([]string, error) {
	f, err := fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return patterns, nil
}

// Patterns is the number of loaded patterns, including the built-in .git rule.
func (m *Matcher) Patterns() int {
	return m.patterns
}

// IsIgnored checks if a slash-separated path relative to the root should be ignored
func (m *Matcher) IsIgnored(relPath string, isDir bool) bool {
	parts := splitPath(relPath)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return []string{}
	}

	path = strings.TrimPrefix(path, "/")

	parts := strings.Split(path, "/")

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}

	return result
}
