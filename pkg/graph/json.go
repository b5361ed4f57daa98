package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/livelayout/pkg/errors"
)

// =============================================================================
// Data - Node-Link Serialization
// =============================================================================

// Data is the node-link JSON format for graphs:
//
//	{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"from": "a", "to": "b"}]}
type Data struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a serialized node. Unknown fields in input files (labels, rows,
// metadata) are ignored.
type Node struct {
	ID string `json:"id"`
}

// Export returns the serialization of g. Nodes keep the order of g.Nodes().
func Export(g Graph) Data {
	ids := g.Nodes()
	out := Data{
		Nodes: make([]Node, len(ids)),
		Edges: g.Edges(),
	}
	for i, id := range ids {
		out.Nodes[i] = Node{ID: id}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return out
}

// Import builds a Network from serialized data. Node IDs are validated and
// edges must reference declared nodes.
func Import(d Data) (*Network, error) {
	n := NewNetwork()
	for _, node := range d.Nodes {
		if err := errors.ValidateNodeID(node.ID); err != nil {
			return nil, err
		}
		if err := n.AddNode(node.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add node %s", node.ID)
		}
	}
	for _, e := range d.Edges {
		if err := n.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add edge %s→%s", e.From, e.To)
		}
	}
	return n, nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as indented JSON to w.
func WriteGraph(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(g)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*Network, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	return Import(d)
}

// ReadGraphFile reads a JSON graph file. A missing file is reported with
// errors.ErrCodeFileNotFound.
func ReadGraphFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f)
}
