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

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"

	"github.com/hxzhao/bilicache/pkg/discover"
	"github.com/hxzhao/bilicache/pkg/pipeline"
	"github.com/hxzhao/bilicache/pkg/status"
)

func TestEntryResultFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		index   int
		outcome pipeline.Outcome
		want    string
	}{
		{
			name:  "succeeded_entry",
			index: 0,
			outcome: pipeline.Outcome{
				Entry:     discover.Entry{RelativePath: "a/entry.json"},
				Succeeded: true,
			},
			// indent, symbol, counter padded to 9, path padded to 45, status
			want: "    ✓ [1]" + strings.Repeat(" ", 7) + "a/entry.json" + strings.Repeat(" ", 34) + "ok",
		},
		{
			name:  "failed_entry",
			index: 1,
			outcome: pipeline.Outcome{
				Entry: discover.Entry{RelativePath: "b/c/entry.json"},
				Err:   errors.New("boom"),
			},
			want: "    ✗ [2]" + strings.Repeat(" ", 7) + "b/c/entry.json" + strings.Repeat(" ", 32) + "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			logger.EntryFinished(tt.index, tt.outcome)

			output := strings.TrimRight(buf.String(), " \n")
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}

func TestRunEvents(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel)

	logger.RunStarted(2)
	logger.EntryStarted(0, 2, discover.Entry{RelativePath: "a/entry.json"})
	logger.EntryFinished(0, pipeline.Outcome{Entry: discover.Entry{RelativePath: "a/entry.json"}, Succeeded: true})
	logger.SubtreeSkipped("/cache/locked", errors.New("permission denied"))
	logger.RunFinished(pipeline.Summary{Discovered: 2, Succeeded: 2})

	output := buf.String()
	assert.Contains(t, output, "bilicache", "header should name the tool")
	assert.Contains(t, output, "processing 2 entry files", "header should carry the total")
	assert.Contains(t, output, "[1/2] a/entry.json", "progress line should carry i of N")
	assert.Contains(t, output, "skipping /cache/locked", "skipped subtree should be reported")
	assert.Contains(t, output, "2 succeeded, 0 failed", "summary should be printed")
}

func TestNothingFound(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel)

	logger.NothingFound()

	assert.Contains(t, buf.String(), "no entry.json files found", "empty discovery should be reported")
}

func TestRunFinishedWithFailures(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel)

	logger.RunFinished(pipeline.Summary{Discovered: 3, Succeeded: 1, Failed: 2})

	assert.Contains(t, buf.String(), "1 succeeded, 2 failed", "summary should count failures")
}

func TestMessages(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel)

	logger.Info("info message")
	logger.Warning("warning message")
	logger.Error("error message")
	logger.Infof("info %s", "formatted")

	output := buf.String()
	assert.Contains(t, output, "ℹ️  info message", "info message should be printed")
	assert.Contains(t, output, "⚠️  warning message", "warning message should be printed")
	assert.Contains(t, output, "❌ error message", "error message should be printed")
	assert.Contains(t, output, "info formatted", "formatted message should be printed")
}

func TestOutputListing(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel)

	logger.OutputListing([]status.FileInfo{
		{Path: "av1/c2/entry.json", Status: status.StatusNew, Size: 7},
		{Path: "av3/entry.json", Status: status.StatusModified, Size: 9},
		{Path: "av4/entry.json", Status: status.StatusUnchanged, Size: 3},
		{Path: "av5/entry.json", Status: status.StatusFailed},
	})

	output := buf.String()
	assert.Contains(t, output, "output files:", "listing should carry a header")
	assert.Contains(t, output, "✓ av1/c2/entry.json", "new file should carry a check mark")
	assert.Contains(t, output, "new", "new status should be printed")
	assert.Contains(t, output, "⟳ av3/entry.json", "modified file should carry a refresh mark")
	assert.Contains(t, output, "• av4/entry.json", "unchanged file should carry a dot")
	assert.Contains(t, output, "✗ av5/entry.json", "failed file should carry a cross")
}

func TestOutputListingEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel)

	logger.OutputListing(nil)

	assert.Empty(t, buf.String(), "an empty listing should print nothing")
}
