/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code. Values match the error identifiers used
// in build logs so they can be searched for.
type Code string

const (
	// CodeTemplatedURLMatchesGlob: a templated URL is also a discovered file path.
	CodeTemplatedURLMatchesGlob Code = "templated-url-matches-glob"
	// CodeBadTemplateURLsAsset: a glob inside a templated URL dependency failed.
	CodeBadTemplateURLsAsset Code = "bad-template-urls-asset"
	// CodeUnableToGlobFiles: a top-level glob pattern failed.
	CodeUnableToGlobFiles Code = "unable-to-glob-files"
	// CodeUnsupportedDependency: a dependency is neither a glob list nor a string.
	CodeUnsupportedDependency Code = "unsupported-template-urls-dependency"
)

// Error is a structured build error. URL and Dependencies are set for templated
// URL failures, Pattern for glob failures.
type Error struct {
	Code         Code
	Message      string
	URL          string
	Pattern      string
	Dependencies Dependency
	Cause        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.URL != "" {
		fmt.Fprintf(&b, " (url %q", e.URL)
		if e.Pattern != "" {
			fmt.Fprintf(&b, ", pattern %q", e.Pattern)
		}
		if e.Dependencies.Kind != DependencyNone {
			fmt.Fprintf(&b, ", dependencies %s", e.Dependencies)
		}
		b.WriteString(")")
	} else if e.Pattern != "" {
		fmt.Fprintf(&b, " (pattern %q)", e.Pattern)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code, so a bare &Error{Code: c} works as a target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsCode reports whether err has the given error code anywhere in its chain.
func IsCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
