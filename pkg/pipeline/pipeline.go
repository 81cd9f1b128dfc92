// Package pipeline feeds discovered entry files through processing stages,
// isolating per-entry failures and preserving discovery order.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hxzhao/bilicache/pkg/discover"
)

// 🔧 Options carries the validated roots of one run
type Options struct {
	InputRoot  string
	OutputRoot string
}

// 🧩 Stage is one transformation applied to an entry file. Stages must not
// touch the input root; the output root is theirs to write into.
type Stage interface {
	// Name identifies the stage in failure messages
	Name() string
	// Run transforms one entry file
	Run(ctx context.Context, fc *FileContext, opts Options) error
}

// 📋 Outcome records the result of one processed entry
type Outcome struct {
	Entry     discover.Entry
	Succeeded bool
	Err       error
}

// 📊 Summary aggregates the outcomes of a run
type Summary struct {
	Discovered int
	Succeeded  int
	Failed     int
}

// 🏃 Pipeline processes entries one at a time in discovery order, or with a
// bounded worker group when jobs > 1
type Pipeline struct {
	reader   *Reader
	stages   []Stage
	reporter Reporter
	jobs     int
}

// 🔧 Option configures a Pipeline
type Option func(*Pipeline)

// WithJobs sets the worker count. The default of 1 keeps processing strictly
// sequential; higher values preserve outcome order via indexed recording.
func WithJobs(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.jobs = n
		}
	}
}

// 🏭 New creates a pipeline over the given reader and stages
func New(reader *Reader, stages []Stage, reporter Reporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		reader:   reader,
		stages:   stages,
		reporter: reporter,
		jobs:     1,
	}
	if p.reporter == nil {
		p.reporter = NopReporter{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// 🏃 Process attempts every entry exactly once and returns one outcome per
// entry, index-aligned with the input. Per-entry failures are recorded, never
// propagated; no entry is retried.
func (p *Pipeline) Process(ctx context.Context, opts Options, entries []discover.Entry) ([]Outcome, Summary) {
	total := len(entries)
	p.reporter.RunStarted(total)

	outcomes := make([]Outcome, total)
	if p.jobs > 1 {
		p.processParallel(ctx, opts, entries, outcomes)
	} else {
		for i, entry := range entries {
			p.reporter.EntryStarted(i, total, entry)
			outcomes[i] = p.processOne(ctx, opts, entry)
			p.reporter.EntryFinished(i, outcomes[i])
		}
	}

	summary := Summarize(outcomes)
	p.reporter.RunFinished(summary)
	return outcomes, summary
}

// ⚡ processParallel records outcomes into their discovery-order slots and
// replays the per-entry events in that order once the group drains, so the
// "i of N" numbering stays aligned with the outcome list.
func (p *Pipeline) processParallel(ctx context.Context, opts Options, entries []discover.Entry, outcomes []Outcome) {
	var g errgroup.Group
	g.SetLimit(p.jobs)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			outcomes[i] = p.processOne(ctx, opts, entry)
			return nil
		})
	}

	// Workers never return errors; failures live in the outcome slots.
	_ = g.Wait()

	for i, entry := range entries {
		p.reporter.EntryStarted(i, len(entries), entry)
		p.reporter.EntryFinished(i, outcomes[i])
	}
}

// 📄 processOne reads one entry and runs it through every stage
func (p *Pipeline) processOne(ctx context.Context, opts Options, entry discover.Entry) Outcome {
	logger := zerolog.Ctx(ctx)

	fc, err := p.reader.Read(ctx, entry)
	if err != nil {
		logger.Debug().Str("entry", entry.RelativePath).Err(err).Msg("read failed")
		return Outcome{Entry: entry, Err: err}
	}

	for _, stage := range p.stages {
		if err := stage.Run(ctx, fc, opts); err != nil {
			logger.Debug().
				Str("entry", entry.RelativePath).
				Str("stage", stage.Name()).
				Err(err).
				Msg("stage failed")
			return Outcome{Entry: entry, Err: errors.Errorf("stage %s: %w", stage.Name(), err)}
		}
	}

	return Outcome{Entry: entry, Succeeded: true}
}

// 📊 Summarize derives a run summary from an ordered outcome list
func Summarize(outcomes []Outcome) Summary {
	summary := Summary{Discovered: len(outcomes)}
	for _, outcome := range outcomes {
		if outcome.Succeeded {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}
