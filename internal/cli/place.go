package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/livelayout/pkg/config"
	"github.com/matzehuels/livelayout/pkg/graph"
	"github.com/matzehuels/livelayout/pkg/layout"
)

// placementFlags overrides the [placement] section of the configuration.
// Only flags set on the command line replace configured values.
type placementFlags struct {
	strategy string
	radius   float64
	spacing  float64
	columns  int
	width    float64
	height   float64
	seed     int64
}

func (f *placementFlags) register(cmd *cobra.Command) {
	d := config.Default().Placement
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", d.Initial, fmt.Sprintf("placement strategy: %v", layout.StrategyNames()))
	cmd.Flags().Float64Var(&f.radius, "radius", d.Radius, "circle radius")
	cmd.Flags().Float64Var(&f.spacing, "spacing", d.Spacing, "grid cell size")
	cmd.Flags().IntVar(&f.columns, "columns", d.Columns, "grid columns (0: square grid)")
	cmd.Flags().Float64Var(&f.width, "width", d.Width, "random placement area width")
	cmd.Flags().Float64Var(&f.height, "height", d.Height, "random placement area height")
	cmd.Flags().Int64Var(&f.seed, "seed", d.Seed, "random placement seed")
}

// apply returns the strategy name and parameters for cmd.
func (f *placementFlags) apply(cmd *cobra.Command, cfg config.PlacementConfig) (string, layout.Params) {
	changed := cmd.Flags().Changed
	if changed("strategy") {
		cfg.Initial = f.strategy
	}
	if changed("radius") {
		cfg.Radius = f.radius
	}
	if changed("spacing") {
		cfg.Spacing = f.spacing
	}
	if changed("columns") {
		cfg.Columns = f.columns
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	return cfg.Initial, cfg.Params()
}

// placeCommand creates the place command for one-shot placement.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		flags  placementFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "place [graph.json]",
		Short: "Place the nodes of a graph with a placement strategy",
		Long: `Place the nodes of a graph with a placement strategy and print the
coordinates.

Strategies:
  circle   evenly on a circle of --radius
  origin   every node at the centre
  grid     row-major on a grid of --spacing with --columns columns
  random   uniformly inside --width x --height, seeded by --seed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			name, params := flags.apply(cmd, cfg.Placement)
			return c.runPlace(cmd.OutOrStdout(), args[0], name, params, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print positions as JSON")

	return cmd
}

// runPlace loads the graph, places it and writes the positions to out.
func (c *CLI) runPlace(out io.Writer, input, name string, params layout.Params, asJSON bool) error {
	strategy, err := layout.LookupStrategy(name)
	if err != nil {
		return err
	}
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	pos, err := strategy(g, params)
	if err != nil {
		return fmt.Errorf("place %s: %w", input, err)
	}
	c.Logger.Debug("placed graph", "strategy", name, "nodes", len(pos))

	return writePositions(out, pos, asJSON)
}
