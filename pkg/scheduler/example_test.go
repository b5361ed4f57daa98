package scheduler_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/livelayout/pkg/coords"
	"github.com/matzehuels/livelayout/pkg/graph"
	"github.com/matzehuels/livelayout/pkg/layout"
	"github.com/matzehuels/livelayout/pkg/scheduler"
)

func ExampleScheduler_SetGraph() {
	store, _ := coords.New[string, r2.Vec]()
	store.PutAll(map[string]r2.Vec{"a": {X: 0, Y: 0}, "b": {X: 1, Y: 1}})

	s, _ := scheduler.New(store, scheduler.Options{
		Adding: layout.Origin,
		Logger: log.New(io.Discard),
	})
	defer s.Close()

	g := graph.NewNetwork()
	_ = g.AddNode("a")
	_ = g.AddNode("c")
	if err := s.SetGraph(g); err != nil {
		fmt.Println("Error:", err)
		return
	}

	active := layout.Positions(store.ActiveCopy())
	for _, id := range active.IDs() {
		fmt.Println(id, active[id])
	}
	fmt.Println("b cached:", store.IsInactive("b"))
	// Output:
	// a {0 0}
	// c {0 0}
	// b cached: true
}
