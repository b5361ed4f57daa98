package graph

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/livelayout/pkg/errors"
)

func diamond(t *testing.T) *Network {
	t.Helper()
	n := NewNetwork()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := n.AddNode(id); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range []Edge{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := n.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return n
}

func TestNetworkAddNode(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"Valid", "x", nil},
		{"Empty", "", ErrInvalidNodeID},
		{"Duplicate", "a", ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNetwork()
			_ = n.AddNode("a")
			before := n.Version()

			err := n.AddNode(tt.id)
			if err != tt.wantErr {
				t.Fatalf("AddNode(%q) = %v, want %v", tt.id, err, tt.wantErr)
			}
			changed := n.Version() != before
			if changed != (tt.wantErr == nil) {
				t.Errorf("version changed = %v, want %v", changed, tt.wantErr == nil)
			}
		})
	}
}

func TestNetworkAddEdge(t *testing.T) {
	n := NewNetwork()
	_ = n.AddNode("a")
	_ = n.AddNode("b")

	if err := n.AddEdge(Edge{"x", "b"}); err != ErrUnknownSourceNode {
		t.Errorf("unknown source: got %v", err)
	}
	if err := n.AddEdge(Edge{"a", "x"}); err != ErrUnknownTargetNode {
		t.Errorf("unknown target: got %v", err)
	}
	if err := n.AddEdge(Edge{"a", "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if n.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", n.EdgeCount())
	}
}

func TestNetworkNeighbors(t *testing.T) {
	n := diamond(t)

	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"b", "c"}},
		{"b", []string{"d", "a"}},
		{"d", []string{"b", "c"}},
		{"missing", nil},
	}
	for _, tt := range tests {
		if got := n.Neighbors(tt.id); !slices.Equal(got, tt.want) {
			t.Errorf("Neighbors(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNetworkNeighborsDeduplicates(t *testing.T) {
	n := NewNetwork()
	_ = n.AddNode("a")
	_ = n.AddNode("b")
	_ = n.AddEdge(Edge{"a", "b"})
	_ = n.AddEdge(Edge{"b", "a"})

	if got := n.Neighbors("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Neighbors(a) = %v, want [b]", got)
	}
}

func TestNetworkRemoveNode(t *testing.T) {
	n := diamond(t)
	before := n.Version()

	if err := n.RemoveNode("b"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if n.Version() == before {
		t.Error("version unchanged after RemoveNode")
	}
	if got := n.Nodes(); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Errorf("Nodes() = %v", got)
	}
	if n.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", n.EdgeCount())
	}
	if got := n.Children("a"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Children(a) = %v, want [c]", got)
	}
	if got := n.Parents("d"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Parents(d) = %v, want [c]", got)
	}
	if err := n.RemoveNode("b"); err != ErrUnknownNode {
		t.Errorf("second RemoveNode = %v, want ErrUnknownNode", err)
	}
}

func TestNetworkRemoveEdge(t *testing.T) {
	n := diamond(t)
	if !n.RemoveEdge("a", "b") {
		t.Fatal("RemoveEdge(a, b) = false")
	}
	if n.RemoveEdge("a", "b") {
		t.Error("second RemoveEdge(a, b) = true")
	}
	if got := n.Neighbors("a"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Neighbors(a) = %v, want [c]", got)
	}
}

func TestNetworkConcurrentUse(t *testing.T) {
	n := NewNetwork()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := string(rune('a'+w)) + strings.Repeat("x", i)
				_ = n.AddNode(id)
				_ = n.Nodes()
				_ = n.Neighbors(id)
			}
		}(w)
	}
	wg.Wait()
	if n.NodeCount() != 200 {
		t.Errorf("NodeCount() = %d, want 200", n.NodeCount())
	}
	if n.Version() != 200 {
		t.Errorf("Version() = %d, want 200", n.Version())
	}
}

func TestSubset(t *testing.T) {
	n := diamond(t)
	s := Subset(n, []string{"d", "b", "missing"})

	if got := s.Nodes(); !slices.Equal(got, []string{"b", "d"}) {
		t.Errorf("Nodes() = %v, want [b d]", got)
	}
	if got := s.Edges(); !slices.Equal(got, []Edge{{"b", "d"}}) {
		t.Errorf("Edges() = %v", got)
	}
	if got := s.Neighbors("d"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Neighbors(d) = %v, want [b]", got)
	}
	if got := s.Neighbors("a"); got != nil {
		t.Errorf("Neighbors(a) outside subset = %v", got)
	}
	if s.NodeCount() != 2 || s.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", s.NodeCount(), s.EdgeCount())
	}
	if s.Version() != n.Version() {
		t.Error("subset version differs from parent")
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantCode  errors.Code
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [{"id": "A", "meta": {"version": "1.0"}}, {"id": "B"}],
				"edges": [{"from": "A", "to": "B"}]
			}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:     "InvalidJSON",
			input:    `{invalid}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "EmptyID",
			input:    `{"nodes": [{"id": ""}], "edges": []}`,
			wantCode: errors.ErrCodeInvalidNodeID,
		},
		{
			name:     "DuplicateNode",
			input:    `{"nodes": [{"id": "A"}, {"id": "A"}], "edges": []}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "DanglingEdge",
			input:    `{"nodes": [{"id": "A"}], "edges": [{"from": "A", "to": "Z"}]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if g.NodeCount() != tt.wantNodes || g.EdgeCount() != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges; want %d, %d",
					g.NodeCount(), g.EdgeCount(), tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	orig := diamond(t)

	if err := WriteGraphFile(orig, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if !slices.Equal(got.Nodes(), orig.Nodes()) {
		t.Errorf("nodes = %v, want %v", got.Nodes(), orig.Nodes())
	}
	if !slices.Equal(got.Edges(), orig.Edges()) {
		t.Errorf("edges = %v, want %v", got.Edges(), orig.Edges())
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestMarshalEmptyGraph(t *testing.T) {
	data, err := MarshalGraph(NewNetwork())
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	want := "{\n  \"nodes\": [],\n  \"edges\": []\n}\n"
	if !bytes.Equal(data, []byte(want)) {
		t.Errorf("MarshalGraph(empty) = %q, want %q", data, want)
	}
}
