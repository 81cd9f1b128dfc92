package pipeline

import (
	"context"
	"path"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/hxzhao/bilicache/pkg/discover"
)

// 📄 FileContext is a read-only snapshot of one entry file, created
// immediately before its stages run and released once its outcome is
// recorded. At most one is alive per worker.
type FileContext struct {
	Entry       discover.Entry
	Content     []byte
	Size        int64
	ModTime     time.Time
	RelativeDir string // Slash-separated directory of the entry, relative to the input root
	Checksum    uint64 // xxhash of Content
}

// 📥 Reader loads file contexts from the filesystem
type Reader struct {
	fs afero.Fs
}

// 🏭 NewReader creates a reader over the given filesystem
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// 📥 Read loads the content and stat metadata for one discovered entry.
// Any I/O failure is local to the entry and carries the offending path.
func (r *Reader) Read(ctx context.Context, entry discover.Entry) (*FileContext, error) {
	info, err := r.fs.Stat(entry.AbsolutePath)
	if err != nil {
		return nil, errors.Errorf("stating %s: %w", entry.AbsolutePath, err)
	}

	content, err := afero.ReadFile(r.fs, entry.AbsolutePath)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", entry.AbsolutePath, err)
	}

	return &FileContext{
		Entry:       entry,
		Content:     content,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		RelativeDir: path.Dir(entry.RelativePath),
		Checksum:    xxhash.Sum64(content),
	}, nil
}
