package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/livelayout/pkg/buildinfo"
	"github.com/matzehuels/livelayout/pkg/config"
	"github.com/matzehuels/livelayout/pkg/graph"
	"github.com/matzehuels/livelayout/pkg/layout"
	"github.com/matzehuels/livelayout/pkg/observability"
	"github.com/matzehuels/livelayout/pkg/scheduler"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "livelayout"

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty selects config.DefaultFile
	// when present.
	ConfigPath string
	// Verbose is the --verbose flag; it lowers the log level to debug.
	Verbose bool

	counters *counters
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		counters: &counters{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Livelayout keeps graph node positions in place while graphs change",
		Long: `Livelayout places graph nodes, animates them with a force-directed
simulation and keeps coordinates stable while nodes come and go.

Graphs are read from node-link JSON files:

  {"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"from": "a", "to": "b"}]}`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetLayoutHooks(c.counters)
			observability.SetStoreHooks(c.counters)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default: ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session
// =============================================================================

// session is a graph attached to a scheduler with a spring engine bound.
type session struct {
	cfg    config.Config
	graph  *graph.Network
	store  *scheduler.Store
	sched  *scheduler.Scheduler
	engine *layout.SpringEngine
}

// openSession loads the configuration and the graph at path, attaches the
// graph and binds a spring engine. The scheduler logs to logger.
func (c *CLI) openSession(path string, logger *log.Logger) (*session, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}

	store, err := cfg.NewStore()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SchedulerOptions(logger)
	if err != nil {
		return nil, err
	}
	sched, err := scheduler.New(store, opts)
	if err != nil {
		return nil, err
	}
	spring, err := cfg.Engine.Spring()
	if err != nil {
		return nil, err
	}
	engine, err := layout.NewSpringEngine(spring)
	if err != nil {
		return nil, err
	}

	if err := sched.SetGraph(g); err != nil {
		_ = sched.Close()
		return nil, fmt.Errorf("place graph: %w", err)
	}
	sched.SetLayoutEngine(engine)

	c.Logger.Debug("session opened", "graph", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return &session{cfg: cfg, graph: g, store: store, sched: sched, engine: engine}, nil
}

// Close stops the animation.
func (s *session) Close() error {
	return s.sched.Close()
}
