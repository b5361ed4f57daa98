package layout

import (
	"math"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/graph"
	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// Configuration
// =============================================================================

// SpringConfig holds the physical constants of a [SpringEngine].
type SpringConfig struct {
	IdealLength        float64 // Target edge length k
	InitialTemperature float64 // Displacement cap after a reset
	Cooling            float64 // Temperature multiplier per step, in (0, 1)
	MinTemperature     float64 // Temperature floor
	MinDistance        float64 // Distances are softened to at least this
	Threshold          float64 // Mean displacement below which the layout is converged
	Seed               int64   // Noise seed for jitter
}

// DefaultSpringConfig returns the constants used when none are configured.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		IdealLength:        50,
		InitialTemperature: 10,
		Cooling:            0.95,
		MinTemperature:     0.01,
		MinDistance:        0.1,
		Threshold:          0.05,
		Seed:               1,
	}
}

// Validate reports the first invalid constant with
// errors.ErrCodeInvalidParameter.
func (c SpringConfig) Validate() error {
	if err := errors.ValidatePositive("ideal length", c.IdealLength); err != nil {
		return err
	}
	if err := errors.ValidatePositive("initial temperature", c.InitialTemperature); err != nil {
		return err
	}
	if err := errors.ValidateFraction("cooling", c.Cooling); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("min temperature", c.MinTemperature); err != nil {
		return err
	}
	if c.MinTemperature > c.InitialTemperature {
		return errors.New(errors.ErrCodeInvalidParameter,
			"min temperature %v exceeds initial temperature %v", c.MinTemperature, c.InitialTemperature)
	}
	if err := errors.ValidatePositive("min distance", c.MinDistance); err != nil {
		return err
	}
	return errors.ValidateNonNegative("threshold", c.Threshold)
}

// =============================================================================
// SpringEngine - Fruchterman-Reingold Simulation
// =============================================================================

// SpringEngine is a Fruchterman-Reingold force-directed [Engine]. Every pair
// of nodes repels with force k²/d and every edge attracts its endpoints with
// force d²/k. Per-node displacement is capped by a temperature that cools
// geometrically with each step.
//
// SpringEngine is not safe for concurrent use.
type SpringEngine struct {
	cfg         SpringConfig
	working     Positions
	temperature float64
	iterations  int
	meanMove    float64
	noise       opensimplex.Noise
	jitterSeq   int
}

// NewSpringEngine creates an engine with the given constants.
func NewSpringEngine(cfg SpringConfig) (*SpringEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SpringEngine{
		cfg:         cfg,
		working:     make(Positions),
		temperature: cfg.InitialTemperature,
		meanMove:    math.Inf(1),
		noise:       opensimplex.New(cfg.Seed),
	}, nil
}

// Config returns the engine's constants.
func (e *SpringEngine) Config() SpringConfig { return e.cfg }

// RequestPositions overrides the working positions of the nodes in pos.
// Other working positions are kept.
func (e *SpringEngine) RequestPositions(pos Positions, resetEnergy bool) {
	for id, v := range pos {
		e.working[id] = v
	}
	if resetEnergy {
		e.temperature = e.cfg.InitialTemperature
		e.meanMove = math.Inf(1)
	}
}

// Iterate advances the simulation by one step. See [Engine.Iterate].
func (e *SpringEngine) Iterate(g graph.Graph) (Positions, error) {
	before := g.Version()
	ids := g.Nodes()
	edges := g.Edges()

	next := make(Positions, len(ids))
	var missing []string
	for _, id := range ids {
		if v, ok := e.working[id]; ok {
			next[id] = v
		} else {
			missing = append(missing, id)
		}
	}
	seq := e.jitterSeq
	for _, id := range missing {
		next[id] = e.place(g, id, next, &seq)
	}

	disp := e.forces(ids, edges, next)

	if after := g.Version(); after != before {
		return nil, errors.New(errors.ErrCodeConcurrentModification,
			"graph modified during iteration (version %d, now %d)", before, after)
	}

	var moved float64
	for _, id := range ids {
		d := disp[id]
		length := r2.Norm(d)
		if length == 0 {
			continue
		}
		step := math.Min(length, e.temperature)
		next[id] = r2.Add(next[id], r2.Scale(step/length, d))
		moved += step
	}

	e.working = next
	e.jitterSeq = seq
	e.iterations++
	if len(ids) > 0 {
		e.meanMove = moved / float64(len(ids))
	} else {
		e.meanMove = 0
	}
	e.temperature = math.Max(e.temperature*e.cfg.Cooling, e.cfg.MinTemperature)
	return next.Clone(), nil
}

// forces returns the summed displacement vector of every node.
func (e *SpringEngine) forces(ids []string, edges []graph.Edge, pos Positions) map[string]r2.Vec {
	k := e.cfg.IdealLength
	disp := make(map[string]r2.Vec, len(ids))

	for i, a := range ids {
		for j := i + 1; j < len(ids); j++ {
			b := ids[j]
			dir, dist := e.separation(pos[a], pos[b], i, j)
			f := r2.Scale(k*k/dist, dir)
			disp[a] = r2.Add(disp[a], f)
			disp[b] = r2.Sub(disp[b], f)
		}
	}

	for i, edge := range edges {
		if edge.From == edge.To {
			continue
		}
		pa, okA := pos[edge.From]
		pb, okB := pos[edge.To]
		if !okA || !okB {
			continue
		}
		dir, dist := e.separation(pa, pb, i, -1)
		f := r2.Scale(dist*dist/k, dir)
		disp[edge.From] = r2.Sub(disp[edge.From], f)
		disp[edge.To] = r2.Add(disp[edge.To], f)
	}
	return disp
}

// separation returns the unit vector from b to a and their distance,
// softened to MinDistance. Coincident points get a noise-derived direction
// so they can move apart.
func (e *SpringEngine) separation(a, b r2.Vec, i, j int) (r2.Vec, float64) {
	delta := r2.Sub(a, b)
	d := r2.Norm(delta)
	if d < 1e-9 {
		angle := math.Pi * e.noise.Eval2(float64(i)*0.71+0.3, float64(j)*0.53+0.7)
		return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}, e.cfg.MinDistance
	}
	return r2.Scale(1/d, delta), math.Max(d, e.cfg.MinDistance)
}

// place returns a default position for a node the engine has not seen: the
// centroid of its already placed neighbours, or the origin, plus jitter.
func (e *SpringEngine) place(g graph.Graph, id string, placed Positions, seq *int) r2.Vec {
	var centre r2.Vec
	n := 0
	for _, other := range g.Neighbors(id) {
		if v, ok := placed[other]; ok {
			centre = r2.Add(centre, v)
			n++
		}
	}
	if n > 0 {
		centre = r2.Scale(1/float64(n), centre)
	}

	*seq++
	t := float64(*seq)*0.618 + 0.5
	amp := e.cfg.IdealLength * 0.1
	jitter := r2.Vec{
		X: amp * e.noise.Eval2(t, 0.25),
		Y: amp * e.noise.Eval2(0.25, t),
	}
	return r2.Add(centre, jitter)
}

// =============================================================================
// Monitor
// =============================================================================

// Temperature returns the current displacement cap.
func (e *SpringEngine) Temperature() float64 { return e.temperature }

// Iterations returns the number of successful steps.
func (e *SpringEngine) Iterations() int { return e.iterations }

// Converged reports whether the mean displacement of the last step fell
// below the threshold.
func (e *SpringEngine) Converged() bool { return e.meanMove < e.cfg.Threshold }

// Working returns a copy of the working positions.
func (e *SpringEngine) Working() Positions { return e.working.Clone() }
