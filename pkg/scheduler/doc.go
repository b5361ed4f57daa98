// Package scheduler drives a coordinate store from a graph and a layout
// engine.
//
// A [Scheduler] moves through three states:
//
//	Idle ──SetLayoutEngine(e)──▶ Static ──SetAnimating(true)──▶ Animating
//	  ▲                           │  ▲                            │
//	  └───SetLayoutEngine(nil)────┘  └────SetAnimating(false)─────┘
//
// While animating, a single goroutine ticks at Options.Interval; each tick
// runs Options.IterationsPerTick engine steps over the attached graph and
// replaces the store's active coordinates with the result.
//
// # Reconciliation
//
// [Scheduler.SetGraph] and [Scheduler.GraphUpdated] merge a graph's node
// set into the store. Known coordinates (active or cached) are kept, nodes
// without one are placed by a strategy, and nodes that left the graph are
// deactivated, not forgotten, so switching back to an earlier graph
// restores its layout.
//
// # Concurrency
//
// All scheduler state lives inside the store's exclusion domain
// (coords.Store.Atomically). An animation tick, a user drag via
// [Scheduler.RequestLocations] and a graph swap therefore never interleave,
// and SetAnimating(false) is synchronous: once it returns no engine step
// runs. Store listeners are called after the mutex is released, on the
// goroutine that made the change; for animation ticks that is the driver
// goroutine.
package scheduler
