package scheduler

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/livelayout/pkg/coords"
	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/graph"
	"github.com/matzehuels/livelayout/pkg/layout"
	"github.com/matzehuels/livelayout/pkg/observability"
)

// Store is the coordinate store driven by a [Scheduler].
type Store = coords.Store[string, r2.Vec]

// Tx is a transaction on a [Store].
type Tx = coords.Tx[string, r2.Vec]

// Scheduler keeps a [Store] in step with a graph and an optional layout
// engine, and drives the engine periodically while animating.
//
// Every field below the store is read and written only inside
// Store.Atomically, so the store's mutex is the one exclusion domain for
// coordinates, graph reference, engine and animation state. Engine calls
// happen only there, so the engine never runs concurrently with itself.
type Scheduler struct {
	store  *Store
	opts   Options
	logger *log.Logger
	wg     sync.WaitGroup

	graph  graph.Graph
	engine layout.Engine
	anim   *animation
	stats  Stats
	closed bool
}

// animation is one run of the periodic driver. stopped is set under the
// store's mutex; a tick that observes it does nothing.
type animation struct {
	stop    chan struct{}
	stopped bool
	ticks   int
}

// New creates a scheduler in [StateIdle] driving store.
func New(store *Store, opts Options) (*Scheduler, error) {
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "store must not be nil")
	}
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	return &Scheduler{
		store:  store,
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

// Store returns the driven store.
func (s *Scheduler) Store() *Store { return s.store }

// =============================================================================
// Graph Reconciliation
// =============================================================================

// report collects what happened inside a transaction so hooks and logs run
// after the store's mutex is released.
type report struct {
	inconsistent    bool
	want, got       int
	started         *animation
	stoppedTicks    int
	stopped         bool
	converged       bool
	placed, retired int
}

func (s *Scheduler) flush(r report) {
	if r.inconsistent {
		observability.Layout().OnInconsistentState(r.want, r.got)
		s.logger.Error("coordinate count does not match graph", "nodes", r.want, "coordinates", r.got)
	}
	if r.placed > 0 || r.retired > 0 {
		s.logger.Debug("reconciled graph", "placed", r.placed, "deactivated", r.retired)
	}
	if r.started != nil {
		observability.Layout().OnAnimationStart(s.opts.Interval, s.opts.IterationsPerTick)
		s.logger.Debug("animation started", "interval", s.opts.Interval, "iterations", s.opts.IterationsPerTick)
	}
	if r.stopped {
		observability.Layout().OnAnimationStop(r.stoppedTicks)
		s.logger.Debug("animation stopped", "ticks", r.stoppedTicks, "converged", r.converged)
	}
}

// SetGraph attaches g and reconciles the store against its nodes:
//
//   - if every node already has a coordinate, active or cached, those are
//     reused unchanged;
//   - if the store holds no active coordinate and no node has a cached one,
//     the Initial strategy places the whole graph;
//   - otherwise nodes with a coordinate keep it and the rest are placed by
//     the Adding strategy around the centroid of the kept ones, or of the
//     previous layout when none is kept.
//
// Nodes of the previous graph that are not in g are deactivated, so
// attaching the previous graph again restores its layout. A bound engine is
// reseeded from the result with its energy reset.
//
// Strategy errors are returned before the store is modified. A nil g
// detaches the graph and deactivates every coordinate.
func (s *Scheduler) SetGraph(g graph.Graph) error {
	var (
		r   report
		err error
	)
	s.store.Atomically(func(tx *Tx) {
		if g == nil {
			r.retired = len(tx.ActiveKeys())
			tx.Deactivate(tx.ActiveKeys()...)
			s.graph = nil
			return
		}
		ids := g.Nodes()
		var placed layout.Positions
		switch {
		case tx.LocatesAll(ids...):
		case tx.Len() == 0 && len(tx.LocationCopy(ids...)) == 0:
			placed, err = s.opts.Initial(g, s.opts.Params)
		default:
			placed, err = s.placeMissing(tx, g, ids)
		}
		if err != nil {
			return
		}
		s.graph = g
		s.merge(tx, ids, placed, &r)
		if s.engine != nil {
			s.engine.RequestPositions(tx.ActiveCopy(), true)
		}
	})
	s.flush(r)
	return err
}

// GraphUpdated reconciles the store after the attached graph changed in
// place. Cached coordinates of current nodes are restored, nodes without
// any coordinate are placed by the Adding strategy, and removed nodes are
// deactivated. While animating, restored and new coordinates are passed to
// the engine without resetting its energy.
func (s *Scheduler) GraphUpdated() error {
	var (
		r   report
		err error
	)
	s.store.Atomically(func(tx *Tx) {
		if s.graph == nil {
			return
		}
		ids := s.graph.Nodes()
		var arrived []string
		for _, id := range ids {
			if !tx.IsActive(id) {
				arrived = append(arrived, id)
			}
		}
		var placed layout.Positions
		if !tx.LocatesAll(ids...) {
			if placed, err = s.placeMissing(tx, s.graph, ids); err != nil {
				return
			}
		}
		s.merge(tx, ids, placed, &r)
		if s.anim != nil && len(arrived) > 0 {
			s.engine.RequestPositions(layout.Positions(tx.LocationCopy(arrived...)), false)
		}
	})
	s.flush(r)
	return err
}

// placeMissing runs the Adding strategy over the nodes of ids that have no
// coordinate, centred on the centroid of those that do. With none known it
// centres on the active coordinates instead.
func (s *Scheduler) placeMissing(tx *Tx, g graph.Graph, ids []string) (layout.Positions, error) {
	known := layout.Positions(tx.LocationCopy(ids...))
	missing := slices.DeleteFunc(slices.Clone(ids), func(id string) bool {
		_, ok := known[id]
		return ok
	})
	center := known.Centroid()
	if len(known) == 0 {
		center = layout.Positions(tx.ActiveCopy()).Centroid()
	}
	return s.opts.Adding(graph.Subset(g, missing), s.opts.Params.WithCenter(center))
}

// merge makes exactly ids active: cached coordinates are restored, placed
// ones written and every other active key deactivated. Restoring first
// keeps the cache from evicting coordinates that are about to be used.
func (s *Scheduler) merge(tx *Tx, ids []string, placed layout.Positions, r *report) {
	tx.Reactivate(ids...)
	tx.PutAll(placed)

	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	var stale []string
	for _, k := range tx.ActiveKeys() {
		if _, ok := keep[k]; !ok {
			stale = append(stale, k)
		}
	}
	tx.Deactivate(stale...)

	r.placed, r.retired = len(placed), len(stale)
	if want, got := s.graph.NodeCount(), tx.Len(); want != got {
		r.inconsistent, r.want, r.got = true, want, got
	}
}

// =============================================================================
// Engine and Animation
// =============================================================================

// SetLayoutEngine stops any running animation, binds e and seeds it with
// the active coordinates, resetting its energy. A nil engine returns the
// scheduler to [StateIdle].
func (s *Scheduler) SetLayoutEngine(e layout.Engine) {
	var r report
	s.store.Atomically(func(tx *Tx) {
		s.stopLocked(&r)
		s.engine = e
		if e != nil {
			e.RequestPositions(tx.ActiveCopy(), true)
		}
	})
	s.flush(r)
}

// SetAnimating starts or stops the periodic animation.
//
// Starting without an engine, or while already animating, does nothing.
// Each tick runs IterationsPerTick engine steps over the attached graph and
// replaces the active coordinates with the result.
//
// Stopping is synchronous: once SetAnimating(false) returns, no further
// engine step runs. It does not wait for the driver goroutine to exit, so
// it may be called from a store listener.
func (s *Scheduler) SetAnimating(on bool) {
	var r report
	s.store.Atomically(func(tx *Tx) {
		if !on {
			s.stopLocked(&r)
			return
		}
		if s.engine == nil || s.anim != nil || s.closed {
			return
		}
		// Start from what is on screen, including positions written while
		// static.
		s.engine.RequestPositions(tx.ActiveCopy(), false)
		s.anim = &animation{stop: make(chan struct{})}
		r.started = s.anim
		s.wg.Add(1)
	})
	if r.started != nil {
		go s.animate(r.started)
	}
	s.flush(r)
}

func (s *Scheduler) stopLocked(r *report) {
	a := s.anim
	if a == nil {
		return
	}
	a.stopped = true
	close(a.stop)
	s.anim = nil
	r.stopped, r.stoppedTicks = true, a.ticks
}

func (s *Scheduler) animate(a *animation) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			if !s.tick(a) {
				return
			}
		}
	}
}

// tick runs one animation step and reports whether the driver should keep
// going.
func (s *Scheduler) tick(a *animation) bool {
	var (
		r       report
		halt    bool
		steps   int
		stepErr error
		elapsed time.Duration
	)
	s.store.Atomically(func(tx *Tx) {
		if a.stopped || s.anim != a {
			halt = true
			return
		}
		if s.graph == nil {
			return
		}
		start := time.Now()
		var pos layout.Positions
		for range s.opts.IterationsPerTick {
			p, err := s.engine.Iterate(s.graph)
			if err != nil {
				stepErr = err
				break
			}
			pos = p
			steps++
		}
		if pos != nil {
			tx.SetCoordinateMap(pos)
		}
		elapsed = time.Since(start)

		a.ticks++
		s.stats.Ticks++
		s.stats.Iterations += steps
		if stepErr != nil {
			s.stats.SkippedTicks++
		}
		if m, ok := s.engine.(layout.Monitor); ok && s.opts.StopWhenConverged && m.Converged() {
			s.stopLocked(&r)
			r.converged = true
			halt = true
		}
	})

	switch {
	case stepErr == nil:
	case errors.Is(stepErr, errors.ErrCodeConcurrentModification):
		observability.Layout().OnTornRead(stepErr)
		s.logger.Debug("skipped tick", "reason", stepErr)
	default:
		s.logger.Warn("engine step failed", "error", stepErr)
	}
	if steps > 0 {
		observability.Layout().OnTick(steps, elapsed)
	}
	s.flush(r)
	return !halt
}

// =============================================================================
// Position Requests
// =============================================================================

// RequestLocations moves nodes to pos. While animating the positions are
// passed to the engine without resetting its energy, so the simulation
// continues from them; otherwise they are written to the store directly.
func (s *Scheduler) RequestLocations(pos layout.Positions) {
	s.store.Atomically(func(tx *Tx) {
		if s.anim != nil {
			s.engine.RequestPositions(pos.Clone(), false)
			return
		}
		tx.PutAll(pos)
	})
}

// ApplyLayout recomputes every node position of the attached graph with
// strategy (the Initial strategy when nil). While animating the result is
// passed to the engine without resetting its energy; otherwise it is
// written to the store. Strategy errors are returned before any change.
// Without an attached graph ApplyLayout does nothing.
func (s *Scheduler) ApplyLayout(strategy layout.Strategy, p layout.Params) error {
	if strategy == nil {
		strategy = s.opts.Initial
	}
	var err error
	s.store.Atomically(func(tx *Tx) {
		if s.graph == nil {
			return
		}
		var pos layout.Positions
		if pos, err = strategy(s.graph, p); err != nil {
			return
		}
		if s.anim != nil {
			s.engine.RequestPositions(pos, false)
			return
		}
		tx.PutAll(pos)
	})
	return err
}

// =============================================================================
// Introspection
// =============================================================================

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	var st State
	s.store.Atomically(func(*Tx) { st = s.stateLocked() })
	return st
}

func (s *Scheduler) stateLocked() State {
	switch {
	case s.engine == nil:
		return StateIdle
	case s.anim != nil:
		return StateAnimating
	default:
		return StateStatic
	}
}

// IsAnimating reports whether the animation is running.
func (s *Scheduler) IsAnimating() bool { return s.State() == StateAnimating }

// Graph returns the attached graph, or nil.
func (s *Scheduler) Graph() graph.Graph {
	var g graph.Graph
	s.store.Atomically(func(*Tx) { g = s.graph })
	return g
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	var st Stats
	s.store.Atomically(func(tx *Tx) {
		st = s.stats
		st.State = s.stateLocked()
		st.Active = tx.Len()
		st.Inactive = tx.InactiveLen()
		if s.graph != nil {
			st.Nodes = s.graph.NodeCount()
		}
		if m, ok := s.engine.(layout.Monitor); ok {
			st.Temperature = m.Temperature()
			st.Converged = m.Converged()
		}
	})
	return st
}

// Close stops the animation and waits for its goroutine to exit. The
// animation cannot be restarted afterwards. Close must not be called from
// a store listener running on the animation goroutine.
func (s *Scheduler) Close() error {
	var r report
	s.store.Atomically(func(*Tx) {
		s.stopLocked(&r)
		s.closed = true
	})
	s.flush(r)
	s.wg.Wait()
	return nil
}
