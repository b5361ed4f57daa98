package graph

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

var (
	// ErrInvalidNodeID is returned by [Network.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Network.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Network.RemoveNode] when the node does
	// not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Network.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Network.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// =============================================================================
// Graph - Read-Only Capability
// =============================================================================

// Graph is the read-only view of a graph consumed by layout code.
//
// Implementations may be mutated concurrently by other goroutines. Callers
// that need a consistent picture across several calls sample [Graph.Version]
// before and after reading and retry (or give up) when it changed.
type Graph interface {
	// Nodes returns the node IDs in a stable order.
	Nodes() []string
	// Neighbors returns the IDs adjacent to id, ignoring edge direction.
	// Unknown IDs have no neighbours.
	Neighbors(id string) []string
	// Edges returns a copy of all edges.
	Edges() []Edge
	NodeCount() int
	EdgeCount() int
	// Version increases with every structural modification.
	Version() uint64
}

// Edge is a directed connection between two nodes. Layout treats edges as
// undirected springs.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// =============================================================================
// Network - Mutable Graph
// =============================================================================

// Network is a mutable graph safe for concurrent use. Every mutation
// increments the modification counter returned by [Network.Version].
//
// The zero value is not usable - use [NewNetwork] to create a Network.
type Network struct {
	mu       sync.RWMutex
	order    []string
	nodes    map[string]struct{}
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	version  atomic.Uint64
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{
		nodes:    make(map[string]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID if the node already exists.
func (n *Network) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	n.nodes[id] = struct{}{}
	n.order = append(n.order, id)
	n.version.Add(1)
	return nil
}

// RemoveNode removes a node together with its incident edges.
func (n *Network) RemoveNode(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.nodes[id]; !ok {
		return ErrUnknownNode
	}
	delete(n.nodes, id)
	n.order = slices.DeleteFunc(n.order, func(s string) bool { return s == id })
	n.edges = slices.DeleteFunc(n.edges, func(e Edge) bool { return e.From == id || e.To == id })
	for _, child := range n.outgoing[id] {
		n.incoming[child] = slices.DeleteFunc(n.incoming[child], func(s string) bool { return s == id })
	}
	for _, parent := range n.incoming[id] {
		n.outgoing[parent] = slices.DeleteFunc(n.outgoing[parent], func(s string) bool { return s == id })
	}
	delete(n.outgoing, id)
	delete(n.incoming, id)
	n.version.Add(1)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Multiple edges
// between the same nodes are allowed.
func (n *Network) AddEdge(e Edge) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := n.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	n.edges = append(n.edges, e)
	n.outgoing[e.From] = append(n.outgoing[e.From], e.To)
	n.incoming[e.To] = append(n.incoming[e.To], e.From)
	n.version.Add(1)
	return nil
}

// RemoveEdge removes the first edge from→to if it exists and reports
// whether one was removed.
func (n *Network) RemoveEdge(from, to string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := slices.Index(n.edges, Edge{From: from, To: to})
	if i < 0 {
		return false
	}
	n.edges = slices.Delete(n.edges, i, i+1)
	if j := slices.Index(n.outgoing[from], to); j >= 0 {
		n.outgoing[from] = slices.Delete(n.outgoing[from], j, j+1)
	}
	if j := slices.Index(n.incoming[to], from); j >= 0 {
		n.incoming[to] = slices.Delete(n.incoming[to], j, j+1)
	}
	n.version.Add(1)
	return true
}

// HasNode reports whether the node exists.
func (n *Network) HasNode(id string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.nodes[id]
	return ok
}

// Nodes returns the node IDs in insertion order.
func (n *Network) Nodes() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.order)
}

// Neighbors returns the distinct nodes connected to id by an edge in either
// direction, children first.
func (n *Network) Neighbors(id string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var out []string
	seen := make(map[string]struct{})
	for _, list := range [][]string{n.outgoing[id], n.incoming[id]} {
		for _, other := range list {
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			out = append(out, other)
		}
	}
	return out
}

// Children returns the targets of edges leaving id.
func (n *Network) Children(id string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.outgoing[id])
}

// Parents returns the sources of edges entering id.
func (n *Network) Parents(id string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.incoming[id])
}

// Edges returns a copy of all edges in insertion order.
func (n *Network) Edges() []Edge {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.edges)
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.nodes)
}

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.edges)
}

// Version returns the modification counter.
func (n *Network) Version() uint64 { return n.version.Load() }
