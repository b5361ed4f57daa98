// Package graph provides the graph model consumed by layout code.
//
// # Core Types
//
//   - [Graph]: read-only capability (nodes, neighbours, edges, version)
//   - [Network]: mutable graph safe for concurrent use
//   - [Subset]: view of a graph restricted to some nodes
//   - [Data]: node-link serialization format
//
// # Modification Counter
//
// Every mutation of a [Network] increments [Network.Version]. Readers that
// need a consistent view across several calls sample the version before
// and after reading; a change means the graph was modified concurrently
// and the reads may be torn:
//
//	before := g.Version()
//	nodes, edges := g.Nodes(), g.Edges()
//	if g.Version() != before {
//	    // discard and retry later
//	}
//
// # Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "app"}, {"id": "lib-a"}],
//	  "edges": [{"from": "app", "to": "lib-a"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("deps.json")  // File → Network
//	graph.WriteGraphFile(g, "output.json")    // Graph → File
//	data, _ := graph.MarshalGraph(g)          // Graph → []byte
//
// # Concurrency
//
// [Network] methods are safe for concurrent use. Each call observes a
// consistent state; sequences of calls are not atomic.
package graph
