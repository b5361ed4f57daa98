package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/livelayout/pkg/layout"
	"github.com/matzehuels/livelayout/pkg/scheduler"
)

// refreshInterval is how often the monitor samples the scheduler.
const refreshInterval = 100 * time.Millisecond

// watchCommand creates the watch command for the live monitor.
func (c *CLI) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Monitor the simulation of a graph in the terminal",
		Long: `Animate a graph and show the simulation state live.

Keys:
  space  start or stop the animation
  r      re-apply the initial placement strategy
  q      quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0])
		},
	}
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string) error {
	// Log lines would tear the full-screen view.
	quiet := log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	s, err := c.openSession(input, quiet)
	if err != nil {
		return err
	}
	defer s.Close()

	s.sched.SetAnimating(true)
	m := newMonitorModel(input, s.sched, s.cfg.Placement.Params(), c.counters)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// MonitorModel - Live simulation monitor
// =============================================================================

// tickMsg triggers a refresh of the sampled statistics.
type tickMsg time.Time

// monitorModel is the bubbletea model of the watch command.
type monitorModel struct {
	title    string
	sched    *scheduler.Scheduler
	params   layout.Params
	counters *counters

	stats scheduler.Stats
	err   error
}

func newMonitorModel(title string, sched *scheduler.Scheduler, params layout.Params, c *counters) monitorModel {
	return monitorModel{
		title:    title,
		sched:    sched,
		params:   params,
		counters: c,
		stats:    sched.Stats(),
	}
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m monitorModel) Init() tea.Cmd {
	return refresh()
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.sched.SetAnimating(!m.sched.IsAnimating())
		case "r":
			m.err = m.sched.ApplyLayout(nil, m.params)
		}
		m.stats = m.sched.Stats()
	case tickMsg:
		m.stats = m.sched.Stats()
		return m, refresh()
	}
	return m, nil
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("livelayout") + " " + StyleDim.Render(m.title))
	b.WriteString("\n\n")

	state := m.stats.State.String()
	if m.stats.State == scheduler.StateAnimating {
		state = StyleSuccess.Render(state)
	} else {
		state = StyleWarning.Render(state)
	}

	rows := [][]string{
		{"state", state},
		{"nodes", strconv.Itoa(m.stats.Nodes)},
		{"active", strconv.Itoa(m.stats.Active)},
		{"cached", strconv.Itoa(m.stats.Inactive)},
		{"ticks", strconv.Itoa(m.stats.Ticks)},
		{"iterations", strconv.Itoa(m.stats.Iterations)},
		{"skipped", strconv.Itoa(m.stats.SkippedTicks)},
		{"torn reads", strconv.FormatInt(m.counters.tornReads.Load(), 10)},
		{"temperature", formatFloat(m.stats.Temperature)},
		{"converged", strconv.FormatBool(m.stats.Converged)},
		{"mean tick", m.counters.meanTick().String()},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("space %s  r re-place  q quit", toggleVerb(m.stats.State))))
	b.WriteString("\n")

	return b.String()
}

func toggleVerb(s scheduler.State) string {
	if s == scheduler.StateAnimating {
		return "stop"
	}
	return "start"
}
