package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/livelayout/pkg/layout"
)

const (
	defaultRunDuration = 2 * time.Second
	runPollInterval    = 50 * time.Millisecond
)

// runCommand creates the run command, which animates a graph for a while
// and prints where the nodes ended up.
func (c *CLI) runCommand() *cobra.Command {
	var (
		duration time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "run [graph.json]",
		Short: "Animate a graph and print the final positions",
		Long: `Animate a graph with the spring simulation and print the final positions.

The graph is placed with the configured initial strategy, then animated
for --duration or until the simulation converges when
animation.stop_when_converged is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd.Context(), cmd.OutOrStdout(), args[0], duration, asJSON)
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", defaultRunDuration, "how long to animate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print positions as JSON")

	return cmd
}

// runRun animates the graph at input for duration and writes the final
// positions to out.
func (c *CLI) runRun(ctx context.Context, out io.Writer, input string, duration time.Duration, asJSON bool) error {
	s, err := c.openSession(input, c.Logger)
	if err != nil {
		return err
	}
	defer s.Close()

	prog := newProgress(c.Logger)
	status := newAnimationStatus(fmt.Sprintf("Animating %d nodes", s.graph.NodeCount()), s.sched.Stats)
	status.Start(ctx)

	s.sched.SetAnimating(true)
	waitAnimation(ctx, s, duration)
	s.sched.SetAnimating(false)

	if ctx.Err() != nil {
		status.StopWithError("Animation interrupted")
		return ctx.Err()
	}
	status.Stop()
	prog.done("Animation finished")

	if err := writePositions(out, layout.Positions(s.store.ActiveCopy()), asJSON); err != nil {
		return err
	}
	if !asJSON {
		c.printSummary(s)
	}
	return nil
}

// waitAnimation returns after d, when ctx is done, or when the animation
// stopped by itself.
func waitAnimation(ctx context.Context, s *session, d time.Duration) {
	deadline := time.NewTimer(d)
	defer deadline.Stop()
	poll := time.NewTicker(runPollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-poll.C:
			if !s.sched.IsAnimating() {
				return
			}
		}
	}
}

func (c *CLI) printSummary(s *session) {
	st := s.sched.Stats()
	printSuccess("Simulated %s", StyleNumber.Render(strconv.Itoa(st.Iterations)+" iterations"))
	printKeyValue("ticks", strconv.Itoa(st.Ticks))
	printKeyValue("skipped", strconv.Itoa(st.SkippedTicks))
	printKeyValue("temperature", formatFloat(st.Temperature))
	printKeyValue("converged", strconv.FormatBool(st.Converged))
	printKeyValue("mean tick", c.counters.meanTick().String())
	if n := c.counters.evicted.Load(); n > 0 {
		printKeyValue("evicted", strconv.FormatInt(n, 10))
	}
}
