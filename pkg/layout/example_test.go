package layout_test

import (
	"fmt"

	"github.com/matzehuels/livelayout/pkg/graph"
	"github.com/matzehuels/livelayout/pkg/layout"
)

func ExampleGrid() {
	g := graph.NewNetwork()
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = g.AddNode(id)
	}

	pos, err := layout.Grid(g, layout.Params{Spacing: 10})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, id := range pos.IDs() {
		fmt.Printf("%s (%.0f, %.0f)\n", id, pos[id].X, pos[id].Y)
	}
	// Output:
	// a (-5, -5)
	// b (5, -5)
	// c (-5, 5)
	// d (5, 5)
}

func ExampleLookupStrategy() {
	_, err := layout.LookupStrategy("spiral")
	fmt.Println(err)
	fmt.Println(layout.StrategyNames())
	// Output:
	// INVALID_STRATEGY: unknown strategy "spiral" (available: [circle grid origin random])
	// [circle grid origin random]
}

func ExampleSpringEngine() {
	g := graph.NewNetwork()
	_ = g.AddNode("a")
	_ = g.AddNode("b")
	_ = g.AddEdge(graph.Edge{From: "a", To: "b"})

	e, _ := layout.NewSpringEngine(layout.DefaultSpringConfig())
	e.RequestPositions(layout.Positions{"a": {X: -100}, "b": {X: 100}}, true)

	pos, _ := e.Iterate(g)
	fmt.Printf("a moved to %.0f, b moved to %.0f\n", pos["a"].X, pos["b"].X)
	// Output:
	// a moved to -90, b moved to 90
}
