package layout

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

// Strategy computes a position for every node of g. Strategies are pure:
// they read g once and never retain it. Parameters are validated before any
// position is computed.
type Strategy func(g graph.Graph, p Params) (Positions, error)

// Strategy names accepted by [LookupStrategy].
const (
	StrategyCircle = "circle"
	StrategyOrigin = "origin"
	StrategyGrid   = "grid"
	StrategyRandom = "random"
)

var strategies = map[string]Strategy{
	StrategyCircle: Circle,
	StrategyOrigin: Origin,
	StrategyGrid:   Grid,
	StrategyRandom: Random,
}

// StrategyNames returns the registered strategy names in sorted order.
func StrategyNames() []string {
	return slices.Sorted(maps.Keys(strategies))
}

// LookupStrategy returns the strategy registered under name.
// Unknown names are rejected with errors.ErrCodeInvalidStrategy.
func LookupStrategy(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q (available: %v)", name, StrategyNames())
	}
	return s, nil
}

// Circle places nodes evenly on a circle of p.Radius around p.Center,
// starting at angle zero in g.Nodes() order.
func Circle(g graph.Graph, p Params) (Positions, error) {
	if err := p.validateCircle(); err != nil {
		return nil, err
	}
	ids := g.Nodes()
	out := make(Positions, len(ids))
	step := 2 * math.Pi / float64(max(len(ids), 1))
	for i, id := range ids {
		angle := step * float64(i)
		out[id] = r2.Add(p.Center, r2.Vec{X: p.Radius * math.Cos(angle), Y: p.Radius * math.Sin(angle)})
	}
	return out, nil
}

// Origin places every node at p.Center.
func Origin(g graph.Graph, p Params) (Positions, error) {
	ids := g.Nodes()
	out := make(Positions, len(ids))
	for _, id := range ids {
		out[id] = p.Center
	}
	return out, nil
}

// Grid places nodes row-major on a grid with cell size p.Spacing, centred
// on p.Center. p.Columns of zero picks a square-ish grid.
func Grid(g graph.Graph, p Params) (Positions, error) {
	if err := p.validateGrid(); err != nil {
		return nil, err
	}
	ids := g.Nodes()
	out := make(Positions, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cols := p.Columns
	if cols == 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(ids)))))
	}
	cols = min(cols, len(ids))
	rows := (len(ids) + cols - 1) / cols

	origin := r2.Vec{
		X: p.Center.X - float64(cols-1)*p.Spacing/2,
		Y: p.Center.Y - float64(rows-1)*p.Spacing/2,
	}
	for i, id := range ids {
		out[id] = r2.Add(origin, r2.Vec{
			X: float64(i%cols) * p.Spacing,
			Y: float64(i/cols) * p.Spacing,
		})
	}
	return out, nil
}

// Random places nodes uniformly in a p.Width × p.Height box around
// p.Center. The same seed and node order give the same positions.
func Random(g graph.Graph, p Params) (Positions, error) {
	if err := p.validateRandom(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(uint64(p.Seed), 0x9e3779b97f4a7c15))
	ids := g.Nodes()
	out := make(Positions, len(ids))
	for _, id := range ids {
		out[id] = r2.Vec{
			X: p.Center.X + (rng.Float64()-0.5)*p.Width,
			Y: p.Center.Y + (rng.Float64()-0.5)*p.Height,
		}
	}
	return out, nil
}
