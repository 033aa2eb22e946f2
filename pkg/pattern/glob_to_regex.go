/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package pattern converts glob patterns into regular expressions for places that
// take a regexp, such as the cache-busting exemption.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmptyPattern         = errorString("empty pattern")
	ErrNegationNotSupported = errorString("negation patterns not supported")
	ErrUnbalancedBraces     = errorString("unbalanced braces")
	ErrUnbalancedBrackets   = errorString("unbalanced brackets")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// GlobToRegexp translates a glob into an unanchored regular expression body.
// Supported: "*", "**", "?", "[abc]" classes and "{a,b}" alternation.
// Everything else is literal.
func GlobToRegexp(glob string) (string, error) {
	if glob == "" {
		return "", ErrEmptyPattern
	}

	if strings.HasPrefix(glob, "!") {
		return "", ErrNegationNotSupported
	}

	var result strings.Builder
	depth := 0

	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				if i+2 < len(glob) && glob[i+2] == '/' {
					result.WriteString("(.*/)?")
					i += 2
				} else {
					result.WriteString(".*")
					i++
				}
			} else {
				result.WriteString("[^/]*")
			}
		case '?':
			result.WriteString("[^/]")
		case '[':
			end := strings.IndexByte(glob[i+1:], ']')
			if end < 1 {
				return "", fmt.Errorf("%w: %q", ErrUnbalancedBrackets, glob)
			}
			class := glob[i+1 : i+1+end]
			if class[0] == '!' {
				class = "^" + class[1:]
			}
			result.WriteString("[" + strings.ReplaceAll(class, `\`, `\\`) + "]")
			i += end + 1
		case '{':
			depth++
			result.WriteString("(?:")
		case '}':
			if depth == 0 {
				return "", fmt.Errorf("%w: %q", ErrUnbalancedBraces, glob)
			}
			depth--
			result.WriteString(")")
		case ',':
			if depth > 0 {
				result.WriteString("|")
			} else {
				result.WriteByte(',')
			}
		default:
			result.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if depth != 0 {
		return "", fmt.Errorf("%w: %q", ErrUnbalancedBraces, glob)
	}

	return result.String(), nil
}

// GlobsToRegexp compiles globs into one regexp matching a whole URL that
// matches any of them. A leading "/" in the URL is optional.
func GlobsToRegexp(globs []string) (*regexp.Regexp, error) {
	if len(globs) == 0 {
		return nil, ErrEmptyPattern
	}

	parts := make([]string, 0, len(globs))
	seen := make(map[string]bool, len(globs))
	for _, g := range globs {
		body, err := GlobToRegexp(strings.TrimPrefix(strings.TrimSpace(g), "/"))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", g, err)
		}
		if seen[body] {
			continue
		}
		seen[body] = true
		parts = append(parts, body)
	}

	return regexp.Compile("^/?(?:" + strings.Join(parts, "|") + ")$")
}
