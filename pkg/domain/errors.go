package domain

import "errors"

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrInvalidSnapshotID is returned when a store cannot address a snapshot by the given ID.
var ErrInvalidSnapshotID = errors.New("invalid snapshot id")

// Sentinels matched by errors.Is against an *Error of the corresponding phase.
var (
	ErrConnection       = errors.New("connection failed")
	ErrSessionFetch     = errors.New("session fetch failed")
	ErrTransactionFetch = errors.New("transaction fetch failed")
)

// Phase identifies the step of the object walk that failed.
type Phase string

const (
	PhaseConnect        Phase = "connect"
	PhaseCurrentSession Phase = "current_session"
	PhaseAllSessions    Phase = "all_sessions"
	PhaseTransaction    Phase = "transaction"
)

// Tag returns the fixed text that prefixes error messages of this phase.
func (p Phase) Tag() string {
	switch p {
	case PhaseConnect:
		return "CONNECTION FAILED"
	case PhaseCurrentSession:
		return "GET CURRENT SESSION FAILED"
	case PhaseAllSessions:
		return "GET ALL SESSIONS FAILED"
	case PhaseTransaction:
		return "GET TRANSACTION FAILED"
	default:
		return "FAILED"
	}
}

// Error is returned by the wrapped connection operations. By the time it
// reaches the caller every handle held by the manager has been released.
type Error struct {
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "[" + e.Phase.Tag() + "]"
	}
	return "[" + e.Phase.Tag() + "]: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the phase sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConnection:
		return e.Phase == PhaseConnect
	case ErrSessionFetch:
		return e.Phase == PhaseCurrentSession || e.Phase == PhaseAllSessions
	case ErrTransactionFetch:
		return e.Phase == PhaseTransaction
	}
	return false
}
