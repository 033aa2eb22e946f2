/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package pathfinder

import (
	"context"
	"crypto/md5" // #nosec G501 -- revision fingerprint, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/fulmenhq/precache/pkg/ignore"
	"github.com/fulmenhq/precache/pkg/logger"
	"github.com/fulmenhq/precache/pkg/manifest"
)

var (
	// ErrEmptyDirectory is returned for a query without a directory.
	ErrEmptyDirectory = errors.New("glob directory cannot be empty")
	// ErrNotDirectory is returned when the glob directory is missing or a file.
	ErrNotDirectory = errors.New("glob directory is not a directory")
)

// Discoverer walks a directory, selects files with doublestar patterns and
// fingerprints each match with md5. It implements precache.Discoverer.
type Discoverer struct {
	open          func(dir string) (billy.Filesystem, error)
	validator     *SafetyValidator
	workers       int
	ignoreFiles   bool
	includeHidden bool
	onFile        func(path string)
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithFilesystem resolves glob directories inside fs instead of the OS filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(d *Discoverer) {
		d.open = func(dir string) (billy.Filesystem, error) {
			return chrootDir(fs, dir)
		}
	}
}

// WithHashWorkers bounds the number of files hashed concurrently. Values below 1
// mean runtime.NumCPU().
func WithHashWorkers(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithIgnoreFiles makes discovery honor .gitignore and .precacheignore files found
// under the glob directory.
func WithIgnoreFiles(enabled bool) Option {
	return func(d *Discoverer) {
		d.ignoreFiles = enabled
	}
}

// WithHidden lets wildcards match dot files and dot directories.
func WithHidden(enabled bool) Option {
	return func(d *Discoverer) {
		d.includeHidden = enabled
	}
}

// WithFileCallback is called once per hashed file. It may be called from
// several goroutines at once.
func WithFileCallback(fn func(path string)) Option {
	return func(d *Discoverer) {
		d.onFile = fn
	}
}

// NewDiscoverer creates a Discoverer on the OS filesystem.
func NewDiscoverer(opts ...Option) *Discoverer {
	d := &Discoverer{
		open:      openOS,
		validator: NewSafetyValidator(),
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func openOS(dir string) (billy.Filesystem, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return osfs.New(dir), nil
}

func chrootDir(fs billy.Filesystem, dir string) (billy.Filesystem, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return fs.Chroot(dir)
}

// Discover returns the files under query.Directory matching query.Pattern and no
// ignore pattern, sorted by slash-separated relative path.
func (d *Discoverer) Discover(ctx context.Context, query manifest.GlobQuery) ([]manifest.FileDetails, error) {
	if query.Directory == "" {
		return nil, ErrEmptyDirectory
	}
	pattern, ignores, err := d.validator.ValidateQuery(query.Pattern, query.Ignores)
	if err != nil {
		return nil, err
	}

	fs, err := d.open(query.Directory)
	if err != nil {
		return nil, err
	}

	var matcher *ignore.Matcher
	if d.ignoreFiles {
		if matcher, err = ignore.NewMatcher(fs); err != nil {
			return nil, err
		}
	}

	paths, err := d.match(ctx, fs, pattern, ignores, matcher)
	if err != nil {
		return nil, err
	}

	logger.Trace("Matched files",
		logger.String("directory", query.Directory),
		logger.String("pattern", pattern),
		logger.Int("count", len(paths)))

	return d.hashAll(ctx, fs, paths)
}

type candidate struct {
	rel  string // NFC, slash-separated; reported path
	name string // path inside the filesystem
	size int64
}

func (d *Discoverer) match(ctx context.Context, fs billy.Filesystem, pattern string, ignores []string, matcher *ignore.Matcher) ([]candidate, error) {
	var out []candidate

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("discovery walk failed at %s: %w", path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := strings.TrimPrefix(filepath.ToSlash(path), "/")
		if rel == "" || rel == "." {
			return nil
		}
		rel = norm.NFC.String(rel)

		if info.IsDir() {
			if d.skipDir(rel, pattern, ignores, matcher) {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks are followed to files but never into directories
		if info.Mode()&os.ModeSymlink != 0 {
			target, statErr := fs.Stat(path)
			if statErr != nil || target.IsDir() {
				return nil
			}
			info = target
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if !d.includeHidden && isHidden(rel) && !patternTargetsHidden(pattern) {
			return nil
		}
		if matched, _ := doublestar.Match(pattern, rel); !matched {
			return nil
		}
		if matchesAny(ignores, rel) {
			return nil
		}
		if matcher != nil && matcher.IsIgnored(rel, false) {
			return nil
		}

		out = append(out, candidate{rel: rel, name: path, size: info.Size()})
		return nil
	}

	if err := util.Walk(fs, "/", walkFn); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].rel < out[j].rel })
	return out, nil
}

// skipDir prunes directories that cannot contain a match.
func (d *Discoverer) skipDir(rel, pattern string, ignores []string, matcher *ignore.Matcher) bool {
	if matcher != nil && matcher.IsIgnored(rel, true) {
		return true
	}
	if !d.includeHidden && strings.HasPrefix(filepath.Base(rel), ".") && !patternTargetsHidden(pattern) {
		return true
	}
	for _, ig := range ignores {
		prefix, ok := dirPrefix(ig)
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(prefix, rel); matched {
			return true
		}
	}
	return false
}

func (d *Discoverer) hashAll(ctx context.Context, fs billy.Filesystem, files []candidate) ([]manifest.FileDetails, error) {
	results := make([]manifest.FileDetails, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hash, err := hashFile(fs, f.name)
			if err != nil {
				return err
			}
			results[i] = manifest.FileDetails{
				File: f.rel,
				Hash: hash,
				Size: f.size,
				Kind: manifest.KindFile,
			}
			if d.onFile != nil {
				d.onFile(f.rel)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func hashFile(fs billy.Filesystem, name string) (string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	h := md5.New() // #nosec G401
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matched, _ := doublestar.Match(p, rel); matched {
			return true
		}
	}
	return false
}

// dirPrefix returns the directory part of an ignore pattern that excludes a
// whole subtree ("node_modules/**" or "node_modules/**/*").
func dirPrefix(pattern string) (string, bool) {
	for _, suffix := range []string{"/**/*", "/**"} {
		if prefix, ok := strings.CutSuffix(pattern, suffix); ok && prefix != "" {
			return prefix, true
		}
	}
	return "", false
}

// isHidden checks if any path segment starts with a dot
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && len(part) > 1 {
			return true
		}
	}
	return false
}

func patternTargetsHidden(pattern string) bool {
	return strings.HasPrefix(pattern, ".") || strings.Contains(pattern, "/.")
}
