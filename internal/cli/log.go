// Package cli implements the livelayout command-line interface.
//
// Commands load a graph from a node-link JSON file and drive it through
// the coordinate store and layout scheduler:
//   - place: one-shot placement with a strategy
//   - run: animate for a while and print the final positions
//   - watch: live terminal monitor of the simulation
//   - serve: HTTP and websocket API, optionally publishing to Redis
//
// All commands support --verbose (-v) for debug-level logging and
// --config for a livelayout.toml file.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Animation finished (2.001s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
