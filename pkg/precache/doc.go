/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package precache assembles the list of assets a service worker should precache.
//
// A Builder asks its Discoverer for the files matching each glob pattern, keeps the
// first occurrence of every file, appends one entry per templated URL and hands the
// result to the transform pipeline:
//
//	b := precache.NewBuilder(pathfinder.NewDiscoverer())
//	res, err := b.Build(ctx, precache.Options{
//	    GlobDirectory: "dist",
//	    GlobPatterns:  []string{"**/*.{js,css,html}"},
//	    TemplatedURLs: map[string]precache.Dependency{
//	        "/app-shell": precache.GlobList("shell.html", "partials/*.html"),
//	        "/offline":   precache.Literal("v3"),
//	    },
//	})
//
// Revisions of templated URLs backed by glob lists depend on the order of the
// matched files; literal revisions are used verbatim.
package precache
