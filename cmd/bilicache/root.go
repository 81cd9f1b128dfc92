package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/hxzhao/bilicache/pkg/config"
	"github.com/hxzhao/bilicache/pkg/discover"
	"github.com/hxzhao/bilicache/pkg/log"
	"github.com/hxzhao/bilicache/pkg/pipeline"
	"github.com/hxzhao/bilicache/pkg/run"
	"github.com/hxzhao/bilicache/pkg/stage"
	"github.com/hxzhao/bilicache/pkg/status"
)

var (
	// Flags
	inputRoot  string
	outputRoot string
	configFile string
	jobs       int
	mirror     bool
	debug      bool
)

// newRootCmd creates the bilicache root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bilicache",
		Short: "Export entry metadata from a Bilibili cache directory",
		Long: `bilicache scans a Bilibili cache directory for entry.json metadata
files and runs each one through a processing pipeline, reporting
per-file results and a final summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Set up logging
			logLevel := zerolog.InfoLevel
			if debug {
				logLevel = zerolog.DebugLevel
			}
			zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(logLevel).
				With().Timestamp().Logger()
			ctx := zlog.WithContext(cmd.Context())

			cfg, err := loadConfig(ctx, cmd)
			if err != nil {
				return err
			}

			// Resolve roots before anything touches the filesystem
			if cfg.Input, err = filepath.Abs(cfg.Input); err != nil {
				return errors.Errorf("resolving input path: %w", err)
			}
			if cfg.Output, err = filepath.Abs(cfg.Output); err != nil {
				return errors.Errorf("resolving output path: %w", err)
			}

			fs := afero.NewOsFs()
			console := log.New(os.Stdout, logLevel)

			stages := []pipeline.Stage{stage.Validate{}}
			var outMgr *status.Manager
			if cfg.Mirror {
				outMgr = status.NewManager(fs, cfg.Output)
				stages = append(stages, stage.NewMirror(outMgr))
			}

			deps := run.Deps{
				Fs: fs,
				Discoverer: discover.New(
					discover.WithFs(fs),
					discover.WithIgnorePatterns(cfg.IgnorePatterns()),
				),
				Pipeline: pipeline.New(
					pipeline.NewReader(fs),
					stages,
					console,
					pipeline.WithJobs(cfg.Jobs),
				),
				Reporter: console,
			}

			// Per-entry failures are reported in the summary and do not
			// change the process exit code.
			if _, err := run.Run(ctx, cfg, deps); err != nil {
				return err
			}

			if outMgr != nil {
				console.OutputListing(outMgr.ListFiles(ctx))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputRoot, "input", "i", "", "cache root directory to scan")
	cmd.Flags().StringVarP(&outputRoot, "output", "o", "", "output root directory")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (.yaml or .hcl)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of entries processed at once (default 1)")
	cmd.Flags().BoolVar(&mirror, "mirror", false, "copy raw entry files into the output tree")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	return cmd
}

// loadConfig builds the run configuration from the config file, if any, with
// explicitly set flags taking precedence
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(ctx, configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	if cmd.Flags().Changed("input") {
		cfg.Input = inputRoot
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputRoot
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = jobs
	}
	if cmd.Flags().Changed("mirror") {
		cfg.Mirror = mirror
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
