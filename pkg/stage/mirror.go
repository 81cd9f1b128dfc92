package stage

import (
	"context"
	"os"
	"path"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/hxzhao/bilicache/pkg/discover"
	"github.com/hxzhao/bilicache/pkg/pipeline"
	"github.com/hxzhao/bilicache/pkg/status"
)

// 🪞 Mirror copies the raw entry file into the output root, preserving the
// relative layout of the cache tree. Existing output files are classified as
// unchanged or modified by content hash; unchanged files are not rewritten.
type Mirror struct {
	out *status.Manager
}

// 🏭 NewMirror creates a mirror stage writing through the given manager
func NewMirror(out *status.Manager) *Mirror {
	return &Mirror{out: out}
}

// Name implements pipeline.Stage
func (m *Mirror) Name() string {
	return "mirror"
}

// Run implements pipeline.Stage
func (m *Mirror) Run(ctx context.Context, fc *pipeline.FileContext, opts pipeline.Options) error {
	logger := zerolog.Ctx(ctx)
	dest := path.Join(fc.RelativeDir, discover.EntryFileName)

	fileStatus := status.StatusNew
	existing, err := m.out.ReadFile(ctx, dest)
	switch {
	case err == nil && xxhash.Sum64(existing) == fc.Checksum:
		logger.Debug().Str("dest", dest).Msg("output file unchanged")
		m.out.TrackFile(ctx, dest, status.FileInfo{
			Path:     dest,
			Status:   status.StatusUnchanged,
			Size:     fc.Size,
			Checksum: fc.Checksum,
		})
		return nil
	case err == nil:
		fileStatus = status.StatusModified
	case !errors.Is(err, os.ErrNotExist):
		// Missing is the normal first-run case; anything else is a real failure.
		return errors.Errorf("checking existing output for %s: %w", dest, err)
	}

	if err := m.out.WriteFile(ctx, dest, fc.Content); err != nil {
		m.out.TrackFile(ctx, dest, status.FileInfo{
			Path:   dest,
			Status: status.StatusFailed,
			Err:    err,
		})
		return errors.Errorf("writing %s: %w", dest, err)
	}

	m.out.TrackFile(ctx, dest, status.FileInfo{
		Path:     dest,
		Status:   fileStatus,
		Size:     fc.Size,
		Checksum: fc.Checksum,
	})
	return nil
}
