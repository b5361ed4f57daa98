package coords

// Event describes a change to the active set of a [Store].
//
// Added lists keys whose coordinates were written or restored and are now
// active. Removed lists keys that left the active set, either into the
// inactive cache or out of the store entirely.
type Event[K comparable] struct {
	Added   []K
	Removed []K
}

// Empty reports whether the event describes no change.
func (e Event[K]) Empty() bool { return len(e.Added) == 0 && len(e.Removed) == 0 }

// Listener receives change events from a [Store].
type Listener[K comparable] interface {
	CoordinatesChanged(e Event[K])
}

// ListenerFunc adapts a function to the [Listener] interface.
type ListenerFunc[K comparable] func(e Event[K])

// CoordinatesChanged calls f(e).
func (f ListenerFunc[K]) CoordinatesChanged(e Event[K]) { f(e) }

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type listenerEntry[K comparable] struct {
	id ListenerID
	l  Listener[K]
}
