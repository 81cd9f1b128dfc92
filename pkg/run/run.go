// Package run ties discovery and the processing pipeline together.
// Discovery is fully materialized before any entry is processed.
package run

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/hxzhao/bilicache/pkg/config"
	"github.com/hxzhao/bilicache/pkg/discover"
	"github.com/hxzhao/bilicache/pkg/pipeline"
)

// 🔧 Deps contains the collaborators of one run
type Deps struct {
	Fs         afero.Fs
	Discoverer *discover.Discoverer
	Pipeline   *pipeline.Pipeline
	Reporter   pipeline.Reporter
}

// 🏃 Run validates the input root, discovers entry files and drives the
// pipeline. Per-entry failures are reflected in the summary, not in the
// returned error; only a missing input root or a discovery-machinery failure
// makes Run fail.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (pipeline.Summary, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("input", cfg.Input).Str("output", cfg.Output).Msg("starting run")

	info, err := deps.Fs.Stat(cfg.Input)
	if err != nil {
		return pipeline.Summary{}, errors.Errorf("input root %s: %w", cfg.Input, err)
	}
	if !info.IsDir() {
		return pipeline.Summary{}, errors.Errorf("input root %s is not a directory", cfg.Input)
	}

	result, err := deps.Discoverer.Discover(ctx, cfg.Input)
	if err != nil {
		return pipeline.Summary{}, errors.Errorf("discovering entry files: %w", err)
	}
	for _, skipped := range result.Skipped {
		deps.Reporter.SubtreeSkipped(skipped.Path, skipped.Err)
	}

	if len(result.Entries) == 0 {
		deps.Reporter.NothingFound()
		return pipeline.Summary{}, nil
	}

	opts := pipeline.Options{
		InputRoot:  cfg.Input,
		OutputRoot: cfg.Output,
	}
	_, summary := deps.Pipeline.Process(ctx, opts, result.Entries)
	return summary, nil
}
