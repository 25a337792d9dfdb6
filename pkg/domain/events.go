package domain

import "time"

// HandleRole names the position of a handle in the object walk.
type HandleRole string

const (
	RoleApplication    HandleRole = "application"
	RoleEngine         HandleRole = "engine"
	RoleContainer      HandleRole = "container"
	RoleCurrentSession HandleRole = "current_session"
	RoleSession        HandleRole = "session"
	RoleCollection     HandleRole = "collection"
	RoleInfo           HandleRole = "info"
	RoleForeign        HandleRole = "foreign"
)

// CallOp is the kind of reflective call made against a foreign object.
type CallOp string

const (
	CallInvoke CallOp = "invoke"
	CallGet    CallOp = "get"
	CallSet    CallOp = "set"
)

// HandleEvent reports the acquisition or release of a foreign handle.
type HandleEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Role      HandleRole `json:"role"`
	Err       error      `json:"-"`
}

// CallEvent reports a reflective call.
type CallEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Op        CallOp    `json:"op"`
	Name      string    `json:"name"`
	Err       error     `json:"-"`
}

// FaultEvent reports a failed connection phase, emitted after teardown.
type FaultEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Phase     Phase     `json:"phase"`
	Err       error     `json:"-"`
}

// Hooks defines callbacks for connection observability. Nil members are skipped.
type Hooks struct {
	OnAcquire func(*HandleEvent)
	OnRelease func(*HandleEvent)
	OnCall    func(*CallEvent)
	OnFault   func(*FaultEvent)
}
