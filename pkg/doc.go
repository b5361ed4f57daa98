// Package pkg provides the core libraries for livelayout.
//
// # Overview
//
// Livelayout keeps the on-screen positions of graph nodes consistent while a
// background simulation moves them and callers edit the graph. The pkg
// directory is organized into these areas:
//
//  1. [coords] - Thread-safe key→coordinate store with an inactive cache
//  2. [graph] - Graph contract, a mutable Network and its JSON form
//  3. [layout] - Placement strategies and the spring simulation engine
//  4. [scheduler] - Ties store, graph and engine together and drives animation
//  5. [stream] - HTTP API, websocket fan-out and Redis publishing
//  6. [config] - TOML configuration
//
// # Architecture
//
// The typical data flow through livelayout:
//
//	graph.Network (nodes + edges)
//	         ↓
//	    [scheduler] SetGraph (reuse, cache or place coordinates)
//	         ↓
//	    [layout] Engine.Iterate on every animation tick
//	         ↓
//	    [coords] Store (active + cached coordinates)
//	         ↓
//	    listeners: [stream] Hub, RedisPublisher, your renderer
//
// # Quick Start
//
//	store, _ := coords.New[string, r2.Vec]()
//	sched, _ := scheduler.New(store, scheduler.Options{})
//	defer sched.Close()
//
//	g := graph.NewNetwork()
//	g.AddNode("a")
//	g.AddNode("b")
//	g.AddEdge(graph.Edge{From: "a", To: "b"})
//	sched.SetGraph(g)
//
//	engine, _ := layout.NewSpringEngine(layout.DefaultSpringConfig())
//	sched.SetLayoutEngine(engine)
//	sched.SetAnimating(true)
//
// # Error Handling
//
// Errors carry a [errors.Code]; use [errors.Is] to classify them:
//
//	if errors.Is(err, errors.ErrCodeInvalidStrategy) { ... }
//
// [coords]: github.com/matzehuels/livelayout/pkg/coords
// [graph]: github.com/matzehuels/livelayout/pkg/graph
// [layout]: github.com/matzehuels/livelayout/pkg/layout
// [scheduler]: github.com/matzehuels/livelayout/pkg/scheduler
// [stream]: github.com/matzehuels/livelayout/pkg/stream
// [config]: github.com/matzehuels/livelayout/pkg/config
// [errors.Code]: github.com/matzehuels/livelayout/pkg/errors#Code
// [errors.Is]: github.com/matzehuels/livelayout/pkg/errors#Is
package pkg
