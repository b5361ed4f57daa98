// Package coords provides a concurrent store mapping node keys to coordinates.
//
// # Overview
//
// A [Store] keeps every key in one of three partitions:
//
//   - active: keys currently laid out and displayed
//   - inactive: keys whose coordinate is remembered but not displayed
//   - absent: keys with no coordinate at all
//
// A key is never both active and inactive, and the store holds a coordinate
// for a key exactly when the key is active or inactive. Inactive keys form a
// bounded cache: once more than MaxCacheSize keys are inactive, the least
// recently deactivated ones are evicted together with their coordinates.
// Callers should treat eviction order as an implementation detail.
//
// # Basic Usage
//
//	s, _ := coords.New[string, r2.Vec]()
//	s.PutAll(map[string]r2.Vec{"a": {X: 0, Y: 0}, "b": {X: 1, Y: 1}})
//	s.Deactivate("b")          // b is cached, not displayed
//	s.Reactivate("b")          // b is back at (1, 1)
//	snapshot := s.ActiveCopy() // point-in-time copy, safe to keep
//
// Unknown keys are never an error: reads skip them and writes drop them from
// the set of keys reported as moved.
//
// # Change Notification
//
// Listeners registered with [Store.AddListener] receive an [Event] after
// every mutation that changed something. Events are delivered on the
// goroutine that performed the mutation, after the store's mutex has been
// released, so a listener may call back into the store. Another mutation may
// have happened between the event being built and the listener running;
// listeners that need current state should take a fresh snapshot.
//
// # Transactions
//
// [Store.Atomically] runs several operations under one acquisition of the
// store's mutex. This is the exclusion domain the layout scheduler uses to
// make "iterate, then apply the result" a single atomic step. Events produced
// inside a transaction are delivered in order once it finishes.
//
// # Concurrency
//
// All methods are safe for concurrent use. Snapshot maps returned by the
// Copy methods are owned by the caller.
package coords
