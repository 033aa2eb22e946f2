/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind DependencyKind
	}{
		{"string", "v1", DependencyLiteral},
		{"empty string", "", DependencyLiteral},
		{"string slice", []string{"a.html", "b/*.html"}, DependencyGlobList},
		{"any slice", []any{"a.html"}, DependencyGlobList},
		{"empty list", []any{}, DependencyGlobList},
		{"mixed list", []any{"a.html", 1.0}, DependencyUnsupported},
		{"number", 42.0, DependencyUnsupported},
		{"bool", true, DependencyUnsupported},
		{"object", map[string]any{"a": "b"}, DependencyUnsupported},
		{"nil", nil, DependencyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ParseDependency(tt.in).Kind)
		})
	}
}

func TestParseDependencyCopiesSlice(t *testing.T) {
	in := []string{"a.html"}
	dep := ParseDependency(in)
	in[0] = "changed"
	assert.Equal(t, []string{"a.html"}, dep.Patterns)
}

func TestDependencyJSON(t *testing.T) {
	var m map[string]Dependency
	err := json.Unmarshal([]byte(`{
		"/shell": ["shell.html", "partials/*.html"],
		"/offline": "v3",
		"/weird": {"nested": true}
	}`), &m)
	require.NoError(t, err)

	assert.Equal(t, GlobList("shell.html", "partials/*.html"), m["/shell"])
	assert.Equal(t, Literal("v3"), m["/offline"])
	assert.Equal(t, DependencyUnsupported, m["/weird"].Kind)

	out, err := json.Marshal(m["/shell"])
	require.NoError(t, err)
	assert.JSONEq(t, `["shell.html","partials/*.html"]`, string(out))

	out, err = json.Marshal(m["/offline"])
	require.NoError(t, err)
	assert.JSONEq(t, `"v3"`, string(out))
}

func TestDependencyString(t *testing.T) {
	assert.Equal(t, "[a, b]", GlobList("a", "b").String())
	assert.Equal(t, `"v1"`, Literal("v1").String())
	assert.Equal(t, "42", Unsupported(42).String())
	assert.Equal(t, "<none>", Dependency{}.String())
	assert.Equal(t, "glob-list", DependencyGlobList.String())
}
