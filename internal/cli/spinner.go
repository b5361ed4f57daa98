package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/livelayout/pkg/scheduler"
)

const statusRefresh = 80 * time.Millisecond

var statusFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// animationStatus redraws one line on stderr while a graph animates: a
// spinner frame, a message and the scheduler's tick count, iterations and
// temperature. Positions printed to stdout stay clean.
type animationStatus struct {
	out     io.Writer
	message string
	stats   func() scheduler.Stats

	mu      sync.Mutex
	width   int // visible width of the last line drawn
	started bool
	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
}

func newAnimationStatus(message string, stats func() scheduler.Stats) *animationStatus {
	return &animationStatus{
		out:     os.Stderr,
		message: message,
		stats:   stats,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start redraws the line until Stop is called or ctx is done.
func (a *animationStatus) Start(ctx context.Context) {
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()

	go func() {
		defer close(a.stopped)
		ticker := time.NewTicker(statusRefresh)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-a.done:
				return
			case <-ticker.C:
				a.draw(a.line(statusFrames[i%len(statusFrames)], a.stats()))
			}
		}
	}()
}

// line renders one status line for st.
func (a *animationStatus) line(frame string, st scheduler.Stats) string {
	parts := []string{
		styleIconSpinner.Render(frame) + " " + StyleDim.Render(a.message),
		StyleNumber.Render(strconv.Itoa(st.Ticks) + " ticks"),
		StyleNumber.Render(strconv.Itoa(st.Iterations) + " iterations"),
	}
	if st.Temperature > 0 {
		parts = append(parts, StyleDim.Render("T "+formatFloat(st.Temperature)))
	}
	if st.Converged {
		parts = append(parts, StyleSuccess.Render("converged"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (a *animationStatus) draw(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w := lipgloss.Width(line)
	pad := ""
	if a.width > w {
		pad = strings.Repeat(" ", a.width-w)
	}
	fmt.Fprintf(a.out, "\r%s%s", line, pad)
	a.width = w
}

// Stop ends the redraw loop and clears the line. It may be called more than
// once, and before Start.
func (a *animationStatus) Stop() {
	a.once.Do(func() { close(a.done) })
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if started {
		<-a.stopped
	}
	a.clear()
}

func (a *animationStatus) clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.width == 0 {
		return
	}
	fmt.Fprintf(a.out, "\r%s\r", strings.Repeat(" ", a.width))
	a.width = 0
}

// StopWithError stops and prints message as an error.
func (a *animationStatus) StopWithError(message string) {
	a.Stop()
	printError("%s", message)
}
