package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// renderTimer logs how long writing a frame's files took, from creation to
// done. It is meant for sequential use by a single goroutine.
type renderTimer struct {
	logger *log.Logger
	start  time.Time
}

func newRenderTimer(l *log.Logger) *renderTimer {
	return &renderTimer{logger: l, start: time.Now()}
}

// done logs the root, tick and file count with the elapsed time rounded to
// the millisecond, e.g. "rendered C at tick 38: 3 files (12ms)".
func (r *renderTimer) done(root string, tick uint, files int) {
	r.logger.Infof("rendered %s at tick %d: %d files (%s)", root, tick, files, time.Since(r.start).Round(time.Millisecond))
}
