package coords

import (
	"maps"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// state is the composite store state. Every field is guarded by Store.mu;
// the three collections are never locked independently.
type state[K comparable, C any] struct {
	coords   map[K]C
	active   map[K]struct{}
	inactive *simplelru.LRU[K, struct{}] // nil when caching is disabled
	maxCache int
}

func newState[K comparable, C any](maxCache int) (state[K, C], error) {
	st := state[K, C]{
		coords:   make(map[K]C),
		active:   make(map[K]struct{}),
		maxCache: maxCache,
	}
	if maxCache > 0 {
		// One slot of headroom: trim does the eviction so coordinates are
		// dropped together with the key, never by the LRU on its own.
		lru, err := simplelru.NewLRU[K, struct{}](maxCache+1, nil)
		if err != nil {
			return st, err
		}
		st.inactive = lru
	}
	return st, nil
}

func (st *state[K, C]) isActive(k K) bool {
	_, ok := st.active[k]
	return ok
}

func (st *state[K, C]) isInactive(k K) bool {
	return st.inactive != nil && st.inactive.Contains(k)
}

// activate makes k active. The caller must already have stored a coordinate.
func (st *state[K, C]) activate(k K) {
	if st.inactive != nil {
		st.inactive.Remove(k)
	}
	st.active[k] = struct{}{}
}

// deactivate moves an active key into the inactive cache and returns the
// number of keys evicted to keep the cache within bounds.
func (st *state[K, C]) deactivate(k K) int {
	delete(st.active, k)
	if st.inactive == nil {
		delete(st.coords, k)
		return 1
	}
	st.inactive.Add(k, struct{}{})
	return st.trim()
}

func (st *state[K, C]) trim() int {
	if st.inactive == nil {
		return 0
	}
	evicted := 0
	for st.inactive.Len() > st.maxCache {
		k, _, ok := st.inactive.RemoveOldest()
		if !ok {
			break
		}
		delete(st.coords, k)
		evicted++
	}
	return evicted
}

func (st *state[K, C]) forget(k K) bool {
	if _, ok := st.coords[k]; !ok {
		return false
	}
	delete(st.coords, k)
	delete(st.active, k)
	if st.inactive != nil {
		st.inactive.Remove(k)
	}
	return true
}

func (st *state[K, C]) locatesAll(keys []K) bool {
	for _, k := range keys {
		if _, ok := st.coords[k]; !ok {
			return false
		}
	}
	return true
}

func (st *state[K, C]) activeCopy() map[K]C {
	out := make(map[K]C, len(st.active))
	for k := range st.active {
		out[k] = st.coords[k]
	}
	return out
}

func (st *state[K, C]) inactiveCopy() map[K]C {
	if st.inactive == nil {
		return map[K]C{}
	}
	keys := st.inactive.Keys()
	out := make(map[K]C, len(keys))
	for _, k := range keys {
		out[k] = st.coords[k]
	}
	return out
}

func (st *state[K, C]) locationCopy(keys []K) map[K]C {
	out := make(map[K]C, len(keys))
	for _, k := range keys {
		if c, ok := st.coords[k]; ok {
			out[k] = c
		}
	}
	return out
}

func (st *state[K, C]) activeKeys() []K {
	return slicesFromKeys(st.active)
}

func (st *state[K, C]) inactiveLen() int {
	if st.inactive == nil {
		return 0
	}
	return st.inactive.Len()
}

func slicesFromKeys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range maps.Keys(m) {
		out = append(out, k)
	}
	return out
}
