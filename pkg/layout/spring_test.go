package layout

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

func newEngine(t *testing.T) *SpringEngine {
	t.Helper()
	e, err := NewSpringEngine(DefaultSpringConfig())
	if err != nil {
		t.Fatalf("NewSpringEngine: %v", err)
	}
	return e
}

func dist(p Positions, a, b string) float64 {
	return r2.Norm(r2.Sub(p[a], p[b]))
}

func TestSpringConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SpringConfig)
	}{
		{"ZeroIdealLength", func(c *SpringConfig) { c.IdealLength = 0 }},
		{"ZeroTemperature", func(c *SpringConfig) { c.InitialTemperature = 0 }},
		{"CoolingOne", func(c *SpringConfig) { c.Cooling = 1 }},
		{"CoolingZero", func(c *SpringConfig) { c.Cooling = 0 }},
		{"NegativeMinTemperature", func(c *SpringConfig) { c.MinTemperature = -1 }},
		{"MinAboveInitial", func(c *SpringConfig) { c.MinTemperature = 20 }},
		{"ZeroMinDistance", func(c *SpringConfig) { c.MinDistance = 0 }},
		{"NegativeThreshold", func(c *SpringConfig) { c.Threshold = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSpringConfig()
			tt.modify(&cfg)
			if _, err := NewSpringEngine(cfg); !errors.Is(err, errors.ErrCodeInvalidParameter) {
				t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidParameter)
			}
		})
	}

	if err := DefaultSpringConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSpringAttraction(t *testing.T) {
	g := chain(t, "a", "b")
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {X: -100}, "b": {X: 100}}, true)

	pos, err := e.Iterate(g)
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if d := dist(pos, "a", "b"); d >= 200 {
		t.Errorf("connected nodes did not approach: distance %v", d)
	}
	// Displacement is capped by the initial temperature.
	if d := dist(pos, "a", "b"); d < 200-2*DefaultSpringConfig().InitialTemperature-1e-9 {
		t.Errorf("moved further than the temperature allows: distance %v", d)
	}
}

func TestSpringRepulsion(t *testing.T) {
	g := graph.NewNetwork()
	_ = g.AddNode("a")
	_ = g.AddNode("b")
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {X: -0.5}, "b": {X: 0.5}}, true)

	pos, err := e.Iterate(g)
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if d := dist(pos, "a", "b"); d <= 1 {
		t.Errorf("unconnected nodes did not separate: distance %v", d)
	}
}

func TestSpringSeparatesCoincidentNodes(t *testing.T) {
	g := graph.NewNetwork()
	_ = g.AddNode("a")
	_ = g.AddNode("b")
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {}, "b": {}}, true)

	pos, err := e.Iterate(g)
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if d := dist(pos, "a", "b"); d == 0 || math.IsNaN(d) {
		t.Errorf("coincident nodes stuck: distance %v", d)
	}
}

func TestSpringPlacesMissingNodes(t *testing.T) {
	g := chain(t, "a", "b", "c")
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {X: 0}, "b": {X: 50}}, true)

	pos, err := e.Iterate(g)
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(pos) != 3 {
		t.Fatalf("got %d positions, want 3", len(pos))
	}
	for id, v := range pos {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) {
			t.Errorf("%s has NaN position", id)
		}
	}
}

func TestSpringDropsRemovedNodes(t *testing.T) {
	g := chain(t, "a", "b", "c")
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {X: 0}, "b": {X: 50}, "c": {X: 100}}, true)

	if err := g.RemoveNode("c"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	pos, err := e.Iterate(g)
	if err != nil {
		t.Fatalf("Iterate after removal: %v", err)
	}
	if _, ok := pos["c"]; ok {
		t.Error("removed node still positioned")
	}
	if _, ok := e.Working()["c"]; ok {
		t.Error("removed node still in working set")
	}
}

// tornGraph changes its version between the engine's first and last read.
type tornGraph struct {
	*graph.Network
	reads uint64
}

func (g *tornGraph) Version() uint64 {
	g.reads++
	return g.reads
}

func TestSpringTornRead(t *testing.T) {
	g := &tornGraph{Network: chain(t, "a", "b")}
	e := newEngine(t)
	start := Positions{"a": {X: -100}, "b": {X: 100}}
	e.RequestPositions(start, true)
	temp := e.Temperature()

	pos, err := e.Iterate(g)
	if !errors.Is(err, errors.ErrCodeConcurrentModification) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeConcurrentModification)
	}
	if pos != nil {
		t.Errorf("positions returned on torn read: %v", pos)
	}
	if e.Iterations() != 0 || e.Temperature() != temp {
		t.Errorf("engine state changed: iterations %d, temperature %v", e.Iterations(), e.Temperature())
	}
	for id, v := range e.Working() {
		if start[id] != v {
			t.Errorf("working position of %s changed to %v", id, v)
		}
	}

	// A stable graph works again.
	if _, err := e.Iterate(g.Network); err != nil {
		t.Errorf("Iterate on stable graph: %v", err)
	}
}

func TestSpringTornReadMatchesSentinel(t *testing.T) {
	g := &tornGraph{Network: chain(t, "a")}
	_, err := newEngine(t).Iterate(g)
	var target error = ErrConcurrentModification
	if !stderrors.Is(err, target) {
		t.Errorf("err = %v does not match ErrConcurrentModification", err)
	}
}

func TestSpringCoolingAndReset(t *testing.T) {
	g := chain(t, "a", "b")
	cfg := DefaultSpringConfig()
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {}, "b": {X: 50}}, true)

	for range 3 {
		if _, err := e.Iterate(g); err != nil {
			t.Fatalf("Iterate: %v", err)
		}
	}
	want := cfg.InitialTemperature * cfg.Cooling * cfg.Cooling * cfg.Cooling
	if math.Abs(e.Temperature()-want) > 1e-9 {
		t.Errorf("Temperature() = %v, want %v", e.Temperature(), want)
	}
	if e.Iterations() != 3 {
		t.Errorf("Iterations() = %d, want 3", e.Iterations())
	}

	e.RequestPositions(Positions{"a": {X: 1}}, false)
	if math.Abs(e.Temperature()-want) > 1e-9 {
		t.Error("non-resetting request changed the temperature")
	}
	if e.Working()["a"] != (r2.Vec{X: 1}) {
		t.Error("request did not override the working position")
	}

	e.RequestPositions(nil, true)
	if e.Temperature() != cfg.InitialTemperature {
		t.Errorf("Temperature() after reset = %v, want %v", e.Temperature(), cfg.InitialTemperature)
	}
	if e.Converged() {
		t.Error("Converged() right after reset")
	}
}

func TestSpringConverges(t *testing.T) {
	g := chain(t, "a", "b", "c", "d")
	e := newEngine(t)
	start, _ := Circle(g, DefaultParams())
	e.RequestPositions(start, true)

	for range 400 {
		if _, err := e.Iterate(g); err != nil {
			t.Fatalf("Iterate: %v", err)
		}
		if e.Converged() {
			return
		}
	}
	t.Errorf("not converged after 400 iterations, temperature %v", e.Temperature())
}

func TestSpringResultIsACopy(t *testing.T) {
	g := chain(t, "a", "b")
	e := newEngine(t)
	e.RequestPositions(Positions{"a": {}, "b": {X: 50}}, true)

	pos, _ := e.Iterate(g)
	pos["a"] = r2.Vec{X: 1e6}
	if e.Working()["a"].X == 1e6 {
		t.Error("caller mutation leaked into the working set")
	}
}
