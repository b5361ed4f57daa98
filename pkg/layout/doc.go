// Package layout computes node positions for graphs.
//
// Two families of algorithm are provided, both mapping a [graph.Graph] to
// [Positions]:
//
//   - Placement strategies ([Circle], [Origin], [Grid], [Random]) are
//     stateless one-shot functions. They are deterministic for a given node
//     order, except [Random], which is deterministic for a given seed.
//   - Engines ([Engine], implemented by [SpringEngine]) keep working
//     positions between calls and move them a little on every
//     [Engine.Iterate].
//
// # Strategies
//
// Strategies are looked up by name for configuration and CLI use:
//
//	place, err := layout.LookupStrategy("grid")
//	pos, err := place(g, layout.Params{Spacing: 40})
//
// Invalid parameters are rejected before any position is computed, with
// errors.ErrCodeInvalidParameter.
//
// # Spring Engine
//
// [SpringEngine] implements Fruchterman-Reingold. Displacement per step is
// capped by a temperature that cools geometrically and is reset by
// RequestPositions(pos, true):
//
//	e, _ := layout.NewSpringEngine(layout.DefaultSpringConfig())
//	e.RequestPositions(current, true)
//	for !e.Converged() {
//	    pos, err := e.Iterate(g)
//	    if errors.Is(err, errors.ErrCodeConcurrentModification) {
//	        continue // graph changed mid-step, state untouched
//	    }
//	    ...
//	}
//
// Nodes added to the graph between steps are placed near their neighbours;
// removed nodes are dropped. Only a graph modified during a single step is
// an error.
package layout
