package pipeline

import "github.com/hxzhao/bilicache/pkg/discover"

// 📢 Reporter receives structured run events. The pipeline's correctness is
// asserted against these events; rendering is the presenter's concern.
type Reporter interface {
	// RunStarted is emitted once, before the first entry is processed
	RunStarted(total int)
	// EntryStarted is emitted before an entry is processed ("i of N")
	EntryStarted(index, total int, entry discover.Entry)
	// EntryFinished is emitted after an entry's outcome is recorded
	EntryFinished(index int, outcome Outcome)
	// SubtreeSkipped is emitted for every subtree discovery could not list
	SubtreeSkipped(path string, err error)
	// NothingFound is emitted when discovery yields no entries
	NothingFound()
	// RunFinished is emitted once, with the final summary
	RunFinished(summary Summary)
}

// 🔇 NopReporter discards all events
type NopReporter struct{}

func (NopReporter) RunStarted(total int)                                {}
func (NopReporter) EntryStarted(index, total int, entry discover.Entry) {}
func (NopReporter) EntryFinished(index int, outcome Outcome)            {}
func (NopReporter) SubtreeSkipped(path string, err error)               {}
func (NopReporter) NothingFound()                                       {}
func (NopReporter) RunFinished(summary Summary)                         {}
