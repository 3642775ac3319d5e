package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/gosuri/uiprogress"
)

// ProgressTracker renders a progress bar over the fan-out stage: one tick
// per completed work item. It is safe for concurrent use by workers and
// does nothing when disabled.
type ProgressTracker struct {
	enabled  bool
	progress *uiprogress.Progress
	bar      *uiprogress.Bar
	failures int64
}

// NewProgressTracker creates a tracker for the given number of work items
func NewProgressTracker(enabled bool, totalItems int) *ProgressTracker {
	if !enabled || totalItems <= 0 {
		return &ProgressTracker{enabled: false}
	}

	p := uiprogress.New()
	p.Out = os.Stderr // keep stdout clean for the report

	bar := p.AddBar(totalItems)
	bar.AppendCompleted()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("items %d/%d", b.Current(), totalItems)
	})

	return &ProgressTracker{
		enabled:  true,
		progress: p,
		bar:      bar,
	}
}

// Start begins rendering the progress bar
func (pt *ProgressTracker) Start() {
	if !pt.enabled {
		return
	}
	pt.progress.Start()
}

// ItemDone records one completed work item
func (pt *ProgressTracker) ItemDone(failed bool) {
	if failed {
		atomic.AddInt64(&pt.failures, 1)
	}
	if !pt.enabled {
		return
	}
	pt.bar.Incr()
}

// Stop terminates the progress display
func (pt *ProgressTracker) Stop() {
	if !pt.enabled {
		return
	}
	pt.progress.Stop()
}

// FailureCount returns the number of items recorded as failed
func (pt *ProgressTracker) FailureCount() int64 {
	return atomic.LoadInt64(&pt.failures)
}
