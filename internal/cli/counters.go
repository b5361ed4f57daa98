package cli

import (
	"sync/atomic"
	"time"

	"github.com/matzehuels/livelayout/pkg/observability"
)

// counters implements the observability hooks with atomic counters read by
// the run summary and the watch monitor. Lifecycle events are already
// logged by the scheduler.
type counters struct {
	ticks        atomic.Int64
	tickNanos    atomic.Int64
	tornReads    atomic.Int64
	inconsistent atomic.Int64
	evicted      atomic.Int64
}

var (
	_ observability.LayoutHooks = (*counters)(nil)
	_ observability.StoreHooks  = (*counters)(nil)
)

func (c *counters) OnAnimationStart(time.Duration, int) {}
func (c *counters) OnAnimationStop(int)                 {}

func (c *counters) OnTick(_ int, d time.Duration) {
	c.ticks.Add(1)
	c.tickNanos.Add(int64(d))
}

func (c *counters) OnTornRead(error) { c.tornReads.Add(1) }

func (c *counters) OnInconsistentState(int, int) { c.inconsistent.Add(1) }

func (c *counters) OnEvict(count int) { c.evicted.Add(int64(count)) }

// meanTick returns the average tick duration, or zero before the first tick.
func (c *counters) meanTick() time.Duration {
	n := c.ticks.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.tickNanos.Load() / n)
}
