package layout

import (
	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/graph"
)

// ErrConcurrentModification matches errors returned by [Engine.Iterate] when
// the graph changed while the step was being computed. The caller should
// retry on a later step.
var ErrConcurrentModification = errors.Sentinel(errors.ErrCodeConcurrentModification)

// Engine is an iterative layout simulation.
//
// Engines are not safe for concurrent use; callers serialize every call.
type Engine interface {
	// RequestPositions overrides the working positions of the given nodes.
	// resetEnergy restarts the cooling schedule.
	RequestPositions(pos Positions, resetEnergy bool)

	// Iterate advances the simulation by one step over g and returns the
	// new positions of every node of g. Nodes of g the engine has not seen
	// get a default placement first; nodes missing from g are dropped.
	// A graph modified during the step yields an error matching
	// [ErrConcurrentModification] and leaves the engine unchanged.
	Iterate(g graph.Graph) (Positions, error)
}

// Monitor is implemented by engines that report their progress.
type Monitor interface {
	Temperature() float64
	Converged() bool
	Iterations() int
}

var (
	_ Engine  = (*SpringEngine)(nil)
	_ Monitor = (*SpringEngine)(nil)
)
