package graph

import "slices"

// Subset returns a view of g restricted to the given node IDs. IDs not in g
// are ignored. Edges and neighbours are filtered to the subset; the version
// is that of g.
//
// The view reads through to g on every call, so it reflects later changes
// to g.
func Subset(g Graph, ids []string) Graph {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	return &subset{g: g, keep: keep}
}

type subset struct {
	g    Graph
	keep map[string]struct{}
}

func (s *subset) has(id string) bool {
	_, ok := s.keep[id]
	return ok
}

func (s *subset) Nodes() []string {
	return slices.DeleteFunc(s.g.Nodes(), func(id string) bool { return !s.has(id) })
}

func (s *subset) Neighbors(id string) []string {
	if !s.has(id) {
		return nil
	}
	return slices.DeleteFunc(s.g.Neighbors(id), func(other string) bool { return !s.has(other) })
}

func (s *subset) Edges() []Edge {
	return slices.DeleteFunc(s.g.Edges(), func(e Edge) bool { return !s.has(e.From) || !s.has(e.To) })
}

func (s *subset) NodeCount() int { return len(s.Nodes()) }

func (s *subset) EdgeCount() int { return len(s.Edges()) }

func (s *subset) Version() uint64 { return s.g.Version() }
