package scheduler

// State is the lifecycle state of a [Scheduler].
type State int

const (
	// StateIdle means no engine is bound.
	StateIdle State = iota
	// StateStatic means an engine is bound but not running.
	StateStatic
	// StateAnimating means the periodic animation is running.
	StateAnimating
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStatic:
		return "static"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// Stats is a snapshot of scheduler counters.
type Stats struct {
	State        State   `json:"state"`
	Nodes        int     `json:"nodes"`
	Active       int     `json:"active"`
	Inactive     int     `json:"inactive"`
	Ticks        int     `json:"ticks"`
	Iterations   int     `json:"iterations"`
	SkippedTicks int     `json:"skipped_ticks"`
	Temperature  float64 `json:"temperature"` // zero unless the engine is a layout.Monitor
	Converged    bool    `json:"converged"`
}

// MarshalText lets State encode as its name in JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
