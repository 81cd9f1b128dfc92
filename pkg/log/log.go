// Copyright 2025 hxzhao
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log renders run events on the console while mirroring them to
// structured zerolog output. It is the default pipeline.Reporter.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/hxzhao/bilicache/pkg/discover"
	"github.com/hxzhao/bilicache/pkg/pipeline"
	"github.com/hxzhao/bilicache/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent entry lines
	indexWidth  = 9  // width for the [i/N] counter
	nameWidth   = 45 // base width for the entry path
	statusWidth = 10 // width for status text
)

// Logger is the presenter wired into the pipeline by default.
var _ pipeline.Reporter = (*Logger)(nil)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex

	nothing pterm.PrefixPrinter
	done    pterm.PrefixPrinter
	partial pterm.PrefixPrinter
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		nothing: *pterm.Warning.WithWriter(console),
		done:    *pterm.Success.WithWriter(console),
		partial: *pterm.Warning.WithWriter(console),
	}
}

// 📝 formatEntryResult formats one processed entry for display
func (l *Logger) formatEntryResult(index int, outcome pipeline.Outcome) string {
	var symbol rune
	var symbolColor color.Attribute
	statusText := "ok"
	if outcome.Succeeded {
		symbol = '✓'
		symbolColor = color.FgGreen
	} else {
		symbol = '✗'
		symbolColor = color.FgRed
		statusText = outcome.Err.Error()
	}

	counter := fmt.Sprintf("[%d]", index+1)

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", indexWidth, counter),
		fmt.Sprintf("%-*s", nameWidth, outcome.Entry.RelativePath),
		fmt.Sprintf("%-*s", statusWidth, statusText))
}

// Reporter implementation

// 📝 RunStarted prints the run header
func (l *Logger) RunStarted(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := color.New(color.Bold, color.FgCyan).Sprint("bilicache")
	detail := color.New(color.Faint).Sprintf("• processing %d entry files", total)
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, detail)

	l.zlog.Info().Int("total", total).Msg("run started")
}

// 📝 EntryStarted prints the "i of N" progress line for one entry
func (l *Logger) EntryStarted(index, total int, entry discover.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s%s %s\n",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(color.Faint).Sprintf("⏳ [%d/%d]", index+1, total),
		entry.RelativePath)

	l.zlog.Debug().
		Int("index", index+1).
		Int("total", total).
		Str("entry", entry.RelativePath).
		Msg("processing entry")
}

// 📝 EntryFinished prints the result line for one entry
func (l *Logger) EntryFinished(index int, outcome pipeline.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatEntryResult(index, outcome))

	event := l.zlog.Info()
	if !outcome.Succeeded {
		event = l.zlog.Error().Err(outcome.Err)
	}
	event.
		Str("entry", outcome.Entry.RelativePath).
		Bool("succeeded", outcome.Succeeded).
		Msg("entry processed")
}

// 📝 SubtreeSkipped warns about a subtree discovery could not list
func (l *Logger) SubtreeSkipped(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "⚠️  %s\n",
		color.New(color.FgYellow).Sprintf("skipping %s: %v", path, err))
	l.zlog.Warn().Str("path", path).Err(err).Msg("subtree skipped")
}

// 📝 NothingFound reports an empty discovery result
func (l *Logger) NothingFound() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nothing.Println("no entry.json files found under the input root")
	l.zlog.Info().Msg("nothing found")
}

// 📝 RunFinished prints the final summary
func (l *Logger) RunFinished(summary pipeline.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("processed %d entry files: %d succeeded, %d failed",
		summary.Discovered, summary.Succeeded, summary.Failed)
	if summary.Failed > 0 {
		l.partial.Println(msg)
	} else {
		l.done.Println(msg)
	}

	l.zlog.Info().
		Int("discovered", summary.Discovered).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("run finished")
}

// 📝 formatOutputFile formats one tracked output file for display
func (l *Logger) formatOutputFile(info status.FileInfo) string {
	var symbol rune
	var symbolColor color.Attribute
	switch info.Status {
	case status.StatusNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.StatusModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case status.StatusUnchanged:
		symbol = '•'
		symbolColor = color.FgCyan
	case status.StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, info.Path),
		fmt.Sprintf("%-*s", statusWidth, info.Status.String()))
}

// 📝 OutputListing prints the output files a run wrote or left untouched
func (l *Logger) OutputListing(files []status.FileInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(files) == 0 {
		return
	}

	fmt.Fprintf(l.console, "\n%s\n", color.New(color.Faint).Sprint("output files:"))
	for _, info := range files {
		fmt.Fprintln(l.console, l.formatOutputFile(info))

		l.zlog.Info().
			Str("file", info.Path).
			Str("status", info.Status.String()).
			Int64("size", info.Size).
			Msg("output file")
	}
}

// Message helpers

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
