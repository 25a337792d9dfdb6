package domain

// ConnState is the lifecycle position of a connection manager.
type ConnState int

const (
	// StateUninitialized is the state of a fresh manager, and of one whose Connect failed.
	StateUninitialized ConnState = iota
	// StateConnected means the application, engine and container handles are held.
	StateConnected
	// StateSessionsResolved means at least one session fetch has completed.
	StateSessionsResolved
	// StateClosed is reached by Close or by a fault in a session or transaction fetch.
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnected:
		return "connected"
	case StateSessionsResolved:
		return "sessions_resolved"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Live reports whether handles may be held in this state.
func (s ConnState) Live() bool {
	return s == StateConnected || s == StateSessionsResolved
}
