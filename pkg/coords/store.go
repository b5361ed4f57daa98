package coords

import (
	"sync"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/observability"
)

// DefaultMaxCacheSize is the inactive cache bound used when no option is given.
const DefaultMaxCacheSize = 256

// Option configures a [Store].
type Option func(*options)

type options struct {
	maxCacheSize int
}

// WithMaxCacheSize bounds the number of inactive coordinates kept.
// Zero disables caching: deactivated keys are forgotten immediately.
func WithMaxCacheSize(n int) Option {
	return func(o *options) { o.maxCacheSize = n }
}

// Store is a concurrent map from keys to coordinates with an active set and
// a bounded cache of inactive coordinates.
//
// The zero value is not usable - use [New] to create a Store.
type Store[K comparable, C any] struct {
	mu        sync.Mutex
	st        state[K, C]
	listeners []listenerEntry[K]
	nextID    ListenerID
}

// New creates an empty store. A negative cache size is rejected with
// errors.ErrCodeInvalidParameter.
func New[K comparable, C any](opts ...Option) (*Store[K, C], error) {
	o := options{maxCacheSize: DefaultMaxCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxCacheSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "max cache size must not be negative, got %d", o.maxCacheSize)
	}
	st, err := newState[K, C](o.maxCacheSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create inactive cache")
	}
	return &Store[K, C]{st: st}, nil
}

// MaxCacheSize returns the inactive cache bound.
func (s *Store[K, C]) MaxCacheSize() int { return s.st.maxCache }

// =============================================================================
// Transactions
// =============================================================================

// Atomically runs fn with the store's mutex held. Events produced by fn are
// delivered in order after the mutex is released, on the calling goroutine.
//
// fn must not call methods on s other than through tx; doing so deadlocks.
func (s *Store[K, C]) Atomically(fn func(tx *Tx[K, C])) {
	tx := &Tx[K, C]{st: &s.st}
	listeners := s.run(tx, fn)
	s.deliver(tx, listeners)
}

func (s *Store[K, C]) run(tx *Tx[K, C], fn func(tx *Tx[K, C])) []listenerEntry[K] {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { tx.closed = true }()
	fn(tx)
	if len(tx.events) == 0 {
		return nil
	}
	return append([]listenerEntry[K](nil), s.listeners...)
}

func (s *Store[K, C]) deliver(tx *Tx[K, C], listeners []listenerEntry[K]) {
	if tx.evicted > 0 {
		observability.Store().OnEvict(tx.evicted)
	}
	for _, e := range tx.events {
		for _, entry := range listeners {
			entry.l.CoordinatesChanged(e)
		}
	}
}

// =============================================================================
// Writes
// =============================================================================

// Put stores c for k and makes k active.
func (s *Store[K, C]) Put(k K, c C) {
	s.Atomically(func(tx *Tx[K, C]) { tx.Put(k, c) })
}

// PutAll stores every coordinate in m and makes its keys active, firing one
// event with exactly the keys of m. An empty map fires nothing.
func (s *Store[K, C]) PutAll(m map[K]C) {
	s.Atomically(func(tx *Tx[K, C]) { tx.PutAll(m) })
}

// SetCoordinateMap replaces the active set wholesale. Keys that were active
// but are missing from m move to the inactive cache. One event reports all
// keys of m as added, unchanged ones included, and the displaced keys as
// removed.
func (s *Store[K, C]) SetCoordinateMap(m map[K]C) {
	s.Atomically(func(tx *Tx[K, C]) { tx.SetCoordinateMap(m) })
}

// Forget removes keys and their coordinates without caching them. Only keys
// that were present are reported as removed; forgetting twice is a no-op.
func (s *Store[K, C]) Forget(keys ...K) {
	s.Atomically(func(tx *Tx[K, C]) { tx.Forget(keys...) })
}

// Deactivate moves the active keys among keys into the inactive cache,
// retaining their coordinates subject to the cache bound.
func (s *Store[K, C]) Deactivate(keys ...K) {
	s.Atomically(func(tx *Tx[K, C]) { tx.Deactivate(keys...) })
}

// Reactivate restores the cached keys among keys to the active set with
// their remembered coordinates and reports whether any key moved.
func (s *Store[K, C]) Reactivate(keys ...K) bool {
	var changed bool
	s.Atomically(func(tx *Tx[K, C]) { changed = tx.Reactivate(keys...) })
	return changed
}

// =============================================================================
// Reads
// =============================================================================

// LocatesAll reports whether every key has a coordinate, active or inactive.
// An empty key list is trivially located.
func (s *Store[K, C]) LocatesAll(keys ...K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.locatesAll(keys)
}

// Location returns the coordinate of k, active or inactive.
func (s *Store[K, C]) Location(k K) (C, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.coords[k]
	return c, ok
}

// IsActive reports whether k is in the active set.
func (s *Store[K, C]) IsActive(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.isActive(k)
}

// IsInactive reports whether k is in the inactive cache.
func (s *Store[K, C]) IsInactive(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.isInactive(k)
}

// ActiveCopy returns a point-in-time snapshot of the active coordinates.
func (s *Store[K, C]) ActiveCopy() map[K]C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.activeCopy()
}

// InactiveCopy returns a point-in-time snapshot of the cached coordinates.
func (s *Store[K, C]) InactiveCopy() map[K]C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.inactiveCopy()
}

// LocationCopy returns the coordinates of the known keys among keys, active
// or inactive. Unknown keys are skipped.
func (s *Store[K, C]) LocationCopy(keys ...K) map[K]C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.locationCopy(keys)
}

// Len returns the number of active keys.
func (s *Store[K, C]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.active)
}

// InactiveLen returns the number of cached keys.
func (s *Store[K, C]) InactiveLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.inactiveLen()
}

// =============================================================================
// Listeners
// =============================================================================

// AddListener registers l and returns an ID for [Store.RemoveListener].
// The same listener may be registered more than once.
func (s *Store[K, C]) AddListener(l Listener[K]) ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry[K]{id: s.nextID, l: l})
	return s.nextID
}

// RemoveListener unregisters the listener with the given ID. Unknown IDs are
// ignored. An event already being delivered may still reach the listener.
func (s *Store[K, C]) RemoveListener(id ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.listeners {
		if entry.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}
