package coords

// Tx gives access to a [Store] while its mutex is held. A Tx is only valid
// inside the function passed to [Store.Atomically]; using it afterwards
// panics.
//
// The mutating methods behave exactly like their [Store] counterparts except
// that their events are queued and delivered when the transaction finishes.
type Tx[K comparable, C any] struct {
	st      *state[K, C]
	events  []Event[K]
	evicted int
	closed  bool
}

func (tx *Tx[K, C]) check() {
	if tx.closed {
		panic("coords: transaction used after Atomically returned")
	}
}

func (tx *Tx[K, C]) emit(e Event[K]) {
	if !e.Empty() {
		tx.events = append(tx.events, e)
	}
}

// =============================================================================
// Writes
// =============================================================================

// Put stores c for k and makes k active.
func (tx *Tx[K, C]) Put(k K, c C) {
	tx.PutAll(map[K]C{k: c})
}

// PutAll stores every coordinate in m and makes its keys active.
// An empty map is a no-op and produces no event.
func (tx *Tx[K, C]) PutAll(m map[K]C) {
	tx.check()
	if len(m) == 0 {
		return
	}
	added := make([]K, 0, len(m))
	for k, c := range m {
		tx.st.coords[k] = c
		tx.st.activate(k)
		added = append(added, k)
	}
	tx.emit(Event[K]{Added: added})
}

// SetCoordinateMap replaces the active set with the keys of m. Keys that
// were active but are missing from m move to the inactive cache.
//
// The event lists every key of m as added, including keys that were already
// active at the same coordinate. Listeners that care about movement compare
// coordinates themselves.
func (tx *Tx[K, C]) SetCoordinateMap(m map[K]C) {
	tx.check()
	var removed []K
	for k := range tx.st.active {
		if _, ok := m[k]; !ok {
			removed = append(removed, k)
		}
	}

	added := make([]K, 0, len(m))
	for k, c := range m {
		tx.st.coords[k] = c
		tx.st.activate(k)
		added = append(added, k)
	}
	for _, k := range removed {
		tx.evicted += tx.st.deactivate(k)
	}
	tx.emit(Event[K]{Added: added, Removed: removed})
}

// Forget drops keys and their coordinates without caching them.
func (tx *Tx[K, C]) Forget(keys ...K) {
	tx.check()
	var removed []K
	for _, k := range keys {
		if tx.st.forget(k) {
			removed = append(removed, k)
		}
	}
	tx.emit(Event[K]{Removed: removed})
}

// Deactivate moves the active keys among keys into the inactive cache.
func (tx *Tx[K, C]) Deactivate(keys ...K) {
	tx.check()
	var removed []K
	for _, k := range keys {
		if !tx.st.isActive(k) {
			continue
		}
		tx.evicted += tx.st.deactivate(k)
		removed = append(removed, k)
	}
	tx.emit(Event[K]{Removed: removed})
}

// Reactivate restores the cached keys among keys to the active set and
// reports whether any key moved.
func (tx *Tx[K, C]) Reactivate(keys ...K) bool {
	tx.check()
	var added []K
	for _, k := range keys {
		if !tx.st.isInactive(k) {
			continue
		}
		tx.st.activate(k)
		added = append(added, k)
	}
	tx.emit(Event[K]{Added: added})
	return len(added) > 0
}

// =============================================================================
// Reads
// =============================================================================

// LocatesAll reports whether every key has a coordinate, active or inactive.
func (tx *Tx[K, C]) LocatesAll(keys ...K) bool {
	tx.check()
	return tx.st.locatesAll(keys)
}

// Location returns the coordinate of k, active or inactive.
func (tx *Tx[K, C]) Location(k K) (C, bool) {
	tx.check()
	c, ok := tx.st.coords[k]
	return c, ok
}

// IsActive reports whether k is in the active set.
func (tx *Tx[K, C]) IsActive(k K) bool {
	tx.check()
	return tx.st.isActive(k)
}

// ActiveCopy returns a snapshot of the active coordinates.
func (tx *Tx[K, C]) ActiveCopy() map[K]C {
	tx.check()
	return tx.st.activeCopy()
}

// ActiveKeys returns the active keys in no particular order.
func (tx *Tx[K, C]) ActiveKeys() []K {
	tx.check()
	return tx.st.activeKeys()
}

// LocationCopy returns the coordinates of the known keys among keys.
func (tx *Tx[K, C]) LocationCopy(keys ...K) map[K]C {
	tx.check()
	return tx.st.locationCopy(keys)
}

// Len returns the number of active keys.
func (tx *Tx[K, C]) Len() int {
	tx.check()
	return len(tx.st.active)
}

// InactiveLen returns the number of cached keys.
func (tx *Tx[K, C]) InactiveLen() int {
	tx.check()
	return tx.st.inactiveLen()
}
