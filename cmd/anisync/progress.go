package main

import (
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"anisync/internal/syncer"
)

// newProgressTracker attaches a live progress bar to a long pass. It
// returns the callback to hand to the syncer and a stop function that
// finishes rendering; stop is safe to call more than once.
func newProgressTracker(out io.Writer, message string) (syncer.ProgressFunc, func()) {
	if !isTerminal(out) {
		return nil, func() {}
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetTrackerLength(25)
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.Time = false

	tracker := &progress.Tracker{Message: message}
	pw.AppendTracker(tracker)
	go pw.Render()

	callback := func(done, total int, label string) {
		if total > 0 {
			tracker.UpdateTotal(int64(total))
		}
		tracker.SetValue(int64(done))
		if label != "" {
			tracker.UpdateMessage(message + ": " + label)
		}
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			tracker.MarkAsDone()
			pw.Stop()
			for pw.IsRenderInProgress() {
				time.Sleep(10 * time.Millisecond)
			}
		})
	}
	return callback, stop
}
