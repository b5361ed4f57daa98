package layout

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

func chain(t *testing.T, ids ...string) *graph.Network {
	t.Helper()
	g := graph.NewNetwork()
	for i, id := range ids {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
		if i > 0 {
			if err := g.AddEdge(graph.Edge{From: ids[i-1], To: id}); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}
		}
	}
	return g
}

func near(a, b r2.Vec) bool {
	return r2.Norm(r2.Sub(a, b)) < 1e-9
}

func TestCircle(t *testing.T) {
	g := chain(t, "a", "b", "c", "d")
	p := Params{Radius: 10, Center: r2.Vec{X: 5, Y: 5}}

	pos, err := Circle(g, p)
	if err != nil {
		t.Fatalf("Circle: %v", err)
	}
	if len(pos) != 4 {
		t.Fatalf("got %d positions, want 4", len(pos))
	}
	for id, v := range pos {
		if d := r2.Norm(r2.Sub(v, p.Center)); math.Abs(d-10) > 1e-9 {
			t.Errorf("%s at distance %v from centre, want 10", id, d)
		}
	}
	if !near(pos["a"], r2.Vec{X: 15, Y: 5}) {
		t.Errorf("first node at %v, want {15 5}", pos["a"])
	}
	if !near(pos["c"], r2.Vec{X: -5, Y: 5}) {
		t.Errorf("third node at %v, want {-5 5}", pos["c"])
	}
}

func TestCircleDeterministic(t *testing.T) {
	g := chain(t, "a", "b", "c")
	p1, _ := Circle(g, DefaultParams())
	p2, _ := Circle(g, DefaultParams())
	for id := range p1 {
		if p1[id] != p2[id] {
			t.Errorf("%s differs between runs", id)
		}
	}
}

func TestOrigin(t *testing.T) {
	g := chain(t, "a", "b")
	center := r2.Vec{X: 3, Y: -1}
	pos, err := Origin(g, Params{Center: center})
	if err != nil {
		t.Fatalf("Origin: %v", err)
	}
	for id, v := range pos {
		if v != center {
			t.Errorf("%s at %v, want %v", id, v, center)
		}
	}
}

func TestGrid(t *testing.T) {
	g := chain(t, "a", "b", "c", "d")
	pos, err := Grid(g, Params{Spacing: 10})
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	want := Positions{
		"a": {X: -5, Y: -5},
		"b": {X: 5, Y: -5},
		"c": {X: -5, Y: 5},
		"d": {X: 5, Y: 5},
	}
	for id, w := range want {
		if !near(pos[id], w) {
			t.Errorf("%s at %v, want %v", id, pos[id], w)
		}
	}
}

func TestGridColumns(t *testing.T) {
	g := chain(t, "a", "b", "c")
	pos, err := Grid(g, Params{Spacing: 1, Columns: 1})
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if pos[id].X != 0 {
			t.Errorf("%s not in the single column: %v", id, pos[id])
		}
	}
	if !near(pos["a"], r2.Vec{Y: -1}) || !near(pos["c"], r2.Vec{Y: 1}) {
		t.Errorf("column not centred: %v", pos)
	}
}

func TestRandom(t *testing.T) {
	g := chain(t, "a", "b", "c", "d", "e")
	p := Params{Width: 20, Height: 10, Seed: 42, Center: r2.Vec{X: 100}}

	first, err := Random(g, p)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	second, _ := Random(g, p)
	for id, v := range first {
		if second[id] != v {
			t.Errorf("%s differs for the same seed", id)
		}
		if v.X < 90 || v.X > 110 || v.Y < -5 || v.Y > 5 {
			t.Errorf("%s at %v outside the box", id, v)
		}
	}

	p.Seed = 7
	other, _ := Random(g, p)
	if other["a"] == first["a"] {
		t.Error("different seeds produced the same position")
	}
}

func TestStrategyValidation(t *testing.T) {
	g := chain(t, "a")
	tests := []struct {
		name     string
		strategy Strategy
		params   Params
	}{
		{"CircleZeroRadius", Circle, Params{Radius: 0}},
		{"CircleNegativeRadius", Circle, Params{Radius: -1}},
		{"CircleNaN", Circle, Params{Radius: math.NaN()}},
		{"GridZeroSpacing", Grid, Params{Spacing: 0}},
		{"GridNegativeColumns", Grid, Params{Spacing: 1, Columns: -2}},
		{"RandomZeroWidth", Random, Params{Width: 0, Height: 1}},
		{"RandomZeroHeight", Random, Params{Width: 1, Height: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := tt.strategy(g, tt.params)
			if !errors.Is(err, errors.ErrCodeInvalidParameter) {
				t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidParameter)
			}
			if pos != nil {
				t.Errorf("positions returned alongside error: %v", pos)
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		wantCode errors.Code
	}{
		{"Defaults", DefaultParams(), ""},
		{"ZeroValue", Params{}, ""},
		{"NegativeRadius", Params{Radius: -1, Spacing: 50, Width: 200, Height: 200}, errors.ErrCodeInvalidParameter},
		{"NegativeSpacing", Params{Spacing: -5}, errors.ErrCodeInvalidParameter},
		{"InfiniteWidth", Params{Width: math.Inf(1)}, errors.ErrCodeInvalidParameter},
		{"NegativeColumns", Params{Columns: -1}, errors.ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestParamsValidateFor(t *testing.T) {
	p := Params{Spacing: 10}
	if err := p.ValidateFor(StrategyGrid); err != nil {
		t.Errorf("grid: %v", err)
	}
	if err := p.ValidateFor(StrategyOrigin); err != nil {
		t.Errorf("origin: %v", err)
	}
	if err := p.ValidateFor(StrategyCircle); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("circle without radius: err = %v", err)
	}
	if err := p.ValidateFor(StrategyRandom); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("random without size: err = %v", err)
	}
	if err := p.ValidateFor("spiral"); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("unknown strategy: err = %v", err)
	}
}

func TestStrategiesEmptyGraph(t *testing.T) {
	g := graph.NewNetwork()
	for _, name := range StrategyNames() {
		s, _ := LookupStrategy(name)
		pos, err := s(g, DefaultParams())
		if err != nil {
			t.Errorf("%s on empty graph: %v", name, err)
		}
		if len(pos) != 0 {
			t.Errorf("%s on empty graph returned %v", name, pos)
		}
	}
}

func TestLookupStrategy(t *testing.T) {
	if got := StrategyNames(); !slices.Equal(got, []string{"circle", "grid", "origin", "random"}) {
		t.Errorf("StrategyNames() = %v", got)
	}
	if _, err := LookupStrategy("circle"); err != nil {
		t.Errorf("LookupStrategy(circle): %v", err)
	}
	if _, err := LookupStrategy("spiral"); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("LookupStrategy(spiral) = %v, want %s", err, errors.ErrCodeInvalidStrategy)
	}
}

func TestPositionsHelpers(t *testing.T) {
	p := Positions{"b": {X: 2, Y: 0}, "a": {X: 0, Y: 4}}

	if got := p.IDs(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("IDs() = %v", got)
	}
	if got := p.Centroid(); got != (r2.Vec{X: 1, Y: 2}) {
		t.Errorf("Centroid() = %v", got)
	}
	lo, hi := p.Bounds()
	if lo != (r2.Vec{X: 0, Y: 0}) || hi != (r2.Vec{X: 2, Y: 4}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}

	c := p.Clone()
	c["a"] = r2.Vec{}
	if p["a"] == c["a"] {
		t.Error("Clone shares storage")
	}
	if got := Positions(nil).Clone(); got == nil {
		t.Error("Clone of nil is nil")
	}
}
