// Package discover enumerates entry.json cache-metadata files under a root.
package discover

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// EntryFileName is the exact file name the cache layout uses for metadata.
const EntryFileName = "entry.json"

// 🎯 Entry is one discovered entry.json file
type Entry struct {
	AbsolutePath string // Full path as yielded by the walk
	RelativePath string // Slash-separated path relative to the scanned root
}

// ⏭️ SkippedPath records a subtree the walk could not list
type SkippedPath struct {
	Path string
	Err  error
}

// 📦 Result is a tagged partial result: entries from every listable subtree
// plus the subtrees that had to be skipped. A subtree failure never discards
// entries found elsewhere.
type Result struct {
	Entries []Entry
	Skipped []SkippedPath
}

// 🔍 Discoverer walks a cache root collecting entry files
type Discoverer struct {
	fs     afero.Fs
	ignore []string
}

// 🔧 Option configures a Discoverer
type Option func(*Discoverer)

// WithFs sets the filesystem implementation, e.g. an in-memory one for tests.
func WithFs(fs afero.Fs) Option {
	return func(d *Discoverer) {
		d.fs = fs
	}
}

// WithIgnorePatterns sets doublestar glob patterns matched against the
// slash-separated relative path of every file and directory.
func WithIgnorePatterns(patterns []string) Option {
	return func(d *Discoverer) {
		d.ignore = patterns
	}
}

// 🏭 New creates a new discoverer, defaulting to the OS filesystem
func New(opts ...Option) *Discoverer {
	d := &Discoverer{
		fs: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// 🔍 Discover walks root and returns every regular file named entry.json.
// Enumeration order is whatever the underlying walk yields, stable for the
// duration of one call. Listing failures inside the tree degrade to skipped
// subtrees; only the walk machinery itself failing returns a non-nil error.
func (d *Discoverer) Discover(ctx context.Context, root string) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("root", root).Msg("discovering entry files")

	result := &Result{}
	walkErr := afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("skipping unreadable subtree")
			result.Skipped = append(result.Skipped, SkippedPath{Path: path, Err: err})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return errors.Errorf("relativizing %s: %w", path, relErr)
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && d.shouldIgnore(rel) {
				logger.Debug().Str("dir", rel).Msg("directory ignored by pattern")
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || info.Name() != EntryFileName {
			return nil
		}
		if d.shouldIgnore(rel) {
			logger.Debug().Str("file", rel).Msg("file ignored by pattern")
			return nil
		}

		result.Entries = append(result.Entries, Entry{
			AbsolutePath: path,
			RelativePath: rel,
		})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Errorf("walking %s: %w", root, walkErr)
	}

	logger.Debug().
		Int("entries", len(result.Entries)).
		Int("skipped", len(result.Skipped)).
		Msg("discovery complete")
	return result, nil
}

// 🔍 shouldIgnore checks if a relative path matches an ignore pattern
func (d *Discoverer) shouldIgnore(rel string) bool {
	for _, pattern := range d.ignore {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
