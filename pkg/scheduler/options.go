package scheduler

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/layout"
)

// Defaults applied to zero-valued [Options] fields.
const (
	DefaultInterval          = 10 * time.Millisecond
	DefaultIterationsPerTick = 2
)

// Options configures a [Scheduler]. Zero values select the defaults.
type Options struct {
	// Interval between animation ticks.
	Interval time.Duration
	// IterationsPerTick is the number of engine steps per tick.
	IterationsPerTick int
	// Initial places a graph attached to an empty store, none of whose
	// nodes has a cached coordinate. Defaults to layout.Circle.
	Initial layout.Strategy
	// Adding places every other node without a coordinate, centred on the
	// nodes that kept theirs or else on the previous layout. Defaults to
	// layout.Random.
	Adding layout.Strategy
	// Params are passed to Initial and Adding. The zero value selects
	// layout.DefaultParams. New rejects negative sizes, and the fields read
	// by the default strategies when Initial or Adding is nil.
	Params layout.Params
	// StopWhenConverged ends the animation once a layout.Monitor engine
	// reports convergence.
	StopWhenConverged bool
	// Logger receives lifecycle and diagnostic messages. Nil uses
	// log.Default().
	Logger *log.Logger
}

func (o *Options) setDefaults() error {
	if o.Interval < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "interval must not be negative, got %v", o.Interval)
	}
	if o.IterationsPerTick < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "iterations per tick must not be negative, got %d", o.IterationsPerTick)
	}
	if o.Interval == 0 {
		o.Interval = DefaultInterval
	}
	if o.IterationsPerTick == 0 {
		o.IterationsPerTick = DefaultIterationsPerTick
	}
	if o.Params == (layout.Params{}) {
		o.Params = layout.DefaultParams()
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Initial == nil {
		if err := o.Params.ValidateFor(layout.StrategyCircle); err != nil {
			return err
		}
		o.Initial = layout.Circle
	}
	if o.Adding == nil {
		if err := o.Params.ValidateFor(layout.StrategyRandom); err != nil {
			return err
		}
		o.Adding = layout.Random
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}
