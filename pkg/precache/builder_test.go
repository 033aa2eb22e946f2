/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fulmenhq/precache/internal/mocks"
	"github.com/fulmenhq/precache/pkg/manifest"
	"github.com/fulmenhq/precache/pkg/pathfinder"
	"github.com/fulmenhq/precache/pkg/precache"
	"github.com/fulmenhq/precache/pkg/transform"
)

func site(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range map[string]string{
		"dist/index.html":           "<html>home</html>",
		"dist/shell.html":           "<html>shell</html>",
		"dist/partials/header.html": "<header/>",
		"dist/js/app.js":            "app()",
		"dist/sw.js":                "self.addEventListener()",
		"dist/css/site.css":         "body{}",
	} {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func builder(t *testing.T) *precache.Builder {
	t.Helper()
	return precache.NewBuilder(pathfinder.NewDiscoverer(pathfinder.WithFilesystem(site(t))))
}

func urls(res *transform.Result) []string {
	out := make([]string, 0, len(res.ManifestEntries))
	for _, e := range res.ManifestEntries {
		out = append(out, e.URL)
	}
	return out
}

func revisionOf(t *testing.T, res *transform.Result, url string) string {
	t.Helper()
	for _, e := range res.ManifestEntries {
		if e.URL == url {
			return e.Revision
		}
	}
	t.Fatalf("no entry for %s in %v", url, urls(res))
	return ""
}

func TestBuildDeduplicatesAcrossPatterns(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDiscoverer(ctrl)

	index := manifest.FileDetails{File: "index.html", Hash: "h1", Size: 10}
	app := manifest.FileDetails{File: "js/app.js", Hash: "h2", Size: 20}

	gomock.InOrder(
		d.EXPECT().Discover(gomock.Any(), gomock.Cond(func(x any) bool {
			return x.(manifest.GlobQuery).Pattern == "*.html"
		})).Return([]manifest.FileDetails{index}, nil),
		d.EXPECT().Discover(gomock.Any(), gomock.Cond(func(x any) bool {
			return x.(manifest.GlobQuery).Pattern == "**/*"
		})).Return([]manifest.FileDetails{app, index}, nil),
	)

	res, err := precache.NewBuilder(d).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"*.html", "**/*"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"index.html", "js/app.js"}, urls(res))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, int64(30), res.Size)
}

func TestBuildIgnoresSwDestWithoutMutatingCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDiscoverer(ctrl)

	callerIgnores := make([]string, 1, 4)
	callerIgnores[0] = "node_modules/**/*"

	d.EXPECT().Discover(gomock.Any(), manifest.GlobQuery{
		Directory: "dist",
		Pattern:   "**/*.js",
		Ignores:   []string{"node_modules/**/*", "**/sw.js"},
	}).Return(nil, nil)

	_, err := precache.NewBuilder(d).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"**/*.js"},
		GlobIgnores:   callerIgnores,
		SwDest:        "dist/sw.js",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"node_modules/**/*"}, callerIgnores)
	assert.Empty(t, callerIgnores[1:2][0], "backing array untouched")
}

func TestBuildNeverPrecachesSwDest(t *testing.T) {
	res, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"**/*.js"},
		SwDest:        "build/out/sw.js",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"js/app.js"}, urls(res))
}

func TestBuildWithoutGlobDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDiscoverer(ctrl)

	res, err := precache.NewBuilder(d).Build(context.Background(), precache.Options{
		GlobPatterns:  []string{"**/*"},
		SwDest:        "sw.js",
		TemplatedURLs: map[string]precache.Dependency{"/shell.html": precache.Literal("v1")},
	})
	require.NoError(t, err)

	require.Len(t, res.ManifestEntries, 1)
	assert.Equal(t, "/shell.html", res.ManifestEntries[0].URL)
	assert.Equal(t, "v1", res.ManifestEntries[0].Revision)
	assert.Empty(t, res.Warnings)
}

func TestBuildTemplatedURLCollision(t *testing.T) {
	res, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"*.html"},
		TemplatedURLs: map[string]precache.Dependency{"index.html": precache.Literal("v1")},
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, precache.IsCode(err, precache.CodeTemplatedURLMatchesGlob))

	var perr *precache.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "index.html", perr.URL)
}

func TestBuildCompositeRevision(t *testing.T) {
	b := builder(t)
	build := func(deps ...string) string {
		res, err := b.Build(context.Background(), precache.Options{
			GlobDirectory: "dist",
			GlobPatterns:  []string{"*.html"},
			TemplatedURLs: map[string]precache.Dependency{"/app-shell": precache.GlobList(deps...)},
		})
		require.NoError(t, err)
		return revisionOf(t, res, "/app-shell")
	}

	forward := build("shell.html", "partials/*.html")
	again := build("shell.html", "partials/*.html")
	reversed := build("partials/*.html", "shell.html")

	assert.Len(t, forward, 32)
	assert.Equal(t, forward, again)
	assert.NotEqual(t, forward, reversed)
}

func TestBuildCompositeMayOverlapGlobbedFiles(t *testing.T) {
	res, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"*.html"},
		TemplatedURLs: map[string]precache.Dependency{"/": precache.GlobList("index.html")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"index.html", "shell.html", "/"}, urls(res))
	assert.NotEqual(t, revisionOf(t, res, "index.html"), revisionOf(t, res, "/"))
}

func TestBuildTemplatedURLOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDiscoverer(ctrl)

	res, err := precache.NewBuilder(d).Build(context.Background(), precache.Options{
		TemplatedURLs: map[string]precache.Dependency{
			"/c": precache.Literal("3"),
			"/a": precache.Literal("1"),
			"/b": precache.Literal("2"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/c"}, urls(res))
}

func TestBuildTemplatedGlobFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDiscoverer(ctrl)
	cause := errors.New("permission denied")

	dep := precache.GlobList("shell.html", "broken/**")
	d.EXPECT().Discover(gomock.Any(), gomock.Any()).Return([]manifest.FileDetails{{File: "shell.html", Hash: "h"}}, nil)
	d.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(nil, cause)

	res, err := precache.NewBuilder(d).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		TemplatedURLs: map[string]precache.Dependency{"/app-shell": dep},
	})
	require.Error(t, err)
	assert.Nil(t, res)

	var perr *precache.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, precache.CodeBadTemplateURLsAsset, perr.Code)
	assert.Equal(t, "/app-shell", perr.URL)
	assert.Equal(t, "broken/**", perr.Pattern)
	assert.Equal(t, dep, perr.Dependencies)
	assert.ErrorIs(t, err, cause)
}

func TestBuildTemplatedGlobWithoutDirectory(t *testing.T) {
	_, err := builder(t).Build(context.Background(), precache.Options{
		TemplatedURLs: map[string]precache.Dependency{"/app-shell": precache.GlobList("shell.html")},
	})
	assert.True(t, precache.IsCode(err, precache.CodeBadTemplateURLsAsset))
	assert.ErrorIs(t, err, pathfinder.ErrEmptyDirectory)
}

func TestBuildTopLevelGlobFailure(t *testing.T) {
	_, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"*.html", "[broken"},
	})
	require.Error(t, err)
	assert.True(t, precache.IsCode(err, precache.CodeUnableToGlobFiles))
	assert.ErrorIs(t, err, pathfinder.ErrInvalidPattern)
	assert.Contains(t, err.Error(), "[broken")
}

func TestBuildUselessPatternWarning(t *testing.T) {
	res, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"**/*.js", "**/*.wasm"},
	})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "One of the glob patterns doesn't match any files")
	assert.Contains(t, res.Warnings[0], `"globPattern":"**/*.wasm"`)
}

func TestBuildTemplatedPatternWithoutMatchesWarns(t *testing.T) {
	res, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		TemplatedURLs: map[string]precache.Dependency{
			"/app-shell": precache.GlobList("shell.html", "nomatch/*.html"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/app-shell"}, urls(res))
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "One of the glob patterns doesn't match any files")
	assert.Contains(t, res.Warnings[0], `"templatedUrl":"/app-shell"`)
	assert.Contains(t, res.Warnings[0], `"globPattern":"nomatch/*.html"`)
}

func TestBuildUnsupportedDependency(t *testing.T) {
	opts := precache.Options{
		TemplatedURLs: map[string]precache.Dependency{
			"/ok":    precache.Literal("v1"),
			"/weird": precache.ParseDependency(42.0),
		},
	}

	res, err := builder(t).Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"/ok"}, urls(res))

	opts.UnsupportedDependencies = precache.UnsupportedFail
	_, err = builder(t).Build(context.Background(), opts)
	assert.True(t, precache.IsCode(err, precache.CodeUnsupportedDependency))
}

func TestBuildAppliesTransforms(t *testing.T) {
	res, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory:                 "dist",
		GlobPatterns:                  []string{"**/*.{html,js,css}", "**/*.wasm"},
		MaximumFileSizeToCacheInBytes: 10,
		ModifyURLPrefix:               map[string]string{"js/": "/static/js/"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"css/site.css", "/static/js/app.js", "partials/header.html"}, urls(res))
	// discovery warnings come before transform warnings
	require.Len(t, res.Warnings, 4)
	assert.Contains(t, res.Warnings[0], "**/*.wasm")
	assert.Contains(t, res.Warnings[1], "won't be precached")
}

func TestBuildTransformErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := builder(t).Build(context.Background(), precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"*.html"},
		ManifestTransforms: []transform.ManifestTransform{
			func(context.Context, []manifest.ManifestEntry) (*transform.TransformResult, error) {
				return nil, boom
			},
		},
	})
	assert.Same(t, boom, err)
}

func TestBuildProgress(t *testing.T) {
	var steps []string
	b := precache.NewBuilder(
		pathfinder.NewDiscoverer(pathfinder.WithFilesystem(site(t))),
		precache.WithProgress(func(s string) { steps = append(steps, s) }),
	)
	opts := precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"*.html", "**/*.js"},
		TemplatedURLs: map[string]precache.Dependency{"/v": precache.Literal("1")},
	}

	_, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.html", "**/*.js", "/v"}, steps)
	assert.Equal(t, 3, precache.Steps(opts))
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder(t).Build(ctx, precache.Options{
		GlobDirectory: "dist",
		GlobPatterns:  []string{"**/*"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeriveIgnores(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		ignores []string
		swDest  string
		want    []string
	}{
		{"no swDest", "dist", []string{"a"}, "", []string{"a"}},
		{"swDest", "dist", []string{"a"}, "dist/sw.js", []string{"a", "**/sw.js"}},
		{"windows swDest", "dist", nil, `dist\service-worker.js`, []string{"**/service-worker.js"}},
		{"no directory", "", []string{"a"}, "dist/sw.js", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, precache.DeriveIgnores(tt.dir, tt.ignores, tt.swDest))
		})
	}
}
