// Package stage holds the transformation stages entry files run through.
// The real cache decoding plugs in here as another pipeline.Stage.
package stage

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/hxzhao/bilicache/pkg/pipeline"
)

// ✅ Validate rejects entry files with no content. It stands in for the
// cache decoding stage until that is implemented.
type Validate struct{}

// Name implements pipeline.Stage
func (Validate) Name() string {
	return "validate"
}

// Run implements pipeline.Stage
func (Validate) Run(ctx context.Context, fc *pipeline.FileContext, opts pipeline.Options) error {
	if len(fc.Content) == 0 {
		return errors.Errorf("%s: entry file is empty", fc.Entry.RelativePath)
	}
	return nil
}
