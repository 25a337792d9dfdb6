package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/sapgui/internal/logging"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/ports"
)

// Manager owns the handles of one connection to a running GUI.
type Manager struct {
	activator   ports.Activator
	application string
	logger      *slog.Logger
	hooks       domain.Hooks

	state     domain.ConnState
	app       ports.Object
	engine    ports.Object
	container ports.Object
	current   ports.Object
	sessions  []ports.Object
}

// New creates a Manager that resolves the GUI through activator.
func New(activator ports.Activator, opts ...Option) *Manager {
	m := &Manager{
		activator:   activator,
		application: domain.DefaultApplication,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the lifecycle position of the manager.
func (m *Manager) State() domain.ConnState {
	return m.state
}

// ApplicationName returns the name the root object is resolved by.
func (m *Manager) ApplicationName() string {
	return m.application
}

// Application returns the root object handle, or nil.
func (m *Manager) Application() ports.Object { return m.app }

// Engine returns the scripting engine handle, or nil.
func (m *Manager) Engine() ports.Object { return m.engine }

// Container returns the connection handle sessions are read from, or nil.
func (m *Manager) Container() ports.Object { return m.container }

// CurrentSession returns the current session handle, or nil.
func (m *Manager) CurrentSession() ports.Object { return m.current }

// Sessions returns the session handles in discovery order. The handles stay
// owned by the manager.
func (m *Manager) Sessions() []ports.Object {
	return append([]ports.Object(nil), m.sessions...)
}

// Connect resolves the root object and walks to the first connection.
// A manager that already holds handles releases them first. On failure every
// partially acquired handle is released and the manager is back in its
// freshly constructed state.
//
// A null engine or connection is not a fault: the slot stays nil and the
// session fetches that follow do nothing.
func (m *Manager) Connect(ctx context.Context) error {
	if m.state.Live() {
		m.logger.Debug("Reconnecting, releasing current handles", "application", m.application)
		if err := m.Close(); err != nil {
			m.logger.Warn("Release before reconnect failed", "err", err)
		}
	}

	if err := m.connect(ctx); err != nil {
		werr := m.abort(domain.PhaseConnect, err)
		m.state = domain.StateUninitialized
		return werr
	}

	m.state = domain.StateConnected
	m.logger.Debug("Connected", "application", m.application)
	return nil
}

func (m *Manager) connect(ctx context.Context) error {
	app, err := m.activator.Activate(ctx, m.application)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("%q resolved to no object", m.application)
	}
	m.app = app
	m.acquired(domain.RoleApplication)

	v, err := m.invoke(m.app, domain.MethodGetScriptingEngine)
	if err != nil {
		return err
	}
	if m.engine, err = m.adopt(v, domain.RoleEngine, domain.MethodGetScriptingEngine); err != nil {
		return err
	}

	v, err = m.get(m.engine, domain.AttrChildren, 0)
	if err != nil {
		return err
	}
	if m.container, err = m.adopt(v, domain.RoleContainer, domain.AttrChildren); err != nil {
		return err
	}
	return nil
}

// FetchCurrentSession resolves the first session of the connection.
// Without a connection it does nothing. A connection without sessions
// leaves the current session nil.
func (m *Manager) FetchCurrentSession(ctx context.Context) error {
	if m.container == nil {
		return nil
	}

	v, err := m.get(m.container, domain.AttrChildren, 0)
	if err != nil {
		return m.abort(domain.PhaseCurrentSession, err)
	}
	session, err := m.adopt(v, domain.RoleCurrentSession, domain.AttrChildren)
	if err != nil {
		return m.abort(domain.PhaseCurrentSession, err)
	}

	if m.current != nil {
		if err := m.release(m.current, domain.RoleCurrentSession); err != nil {
			m.logger.Warn("Release of previous current session failed", "err", err)
		}
	}
	m.current = session
	m.state = domain.StateSessionsResolved
	return nil
}

// FetchAllSessions appends every non-null session of the connection to the
// session list, in the order the foreign enumerator yields them.
// Without a connection it does nothing.
func (m *Manager) FetchAllSessions(ctx context.Context) error {
	if m.container == nil {
		return nil
	}

	v, err := m.get(m.container, domain.AttrSessions)
	if err != nil {
		return m.abort(domain.PhaseAllSessions, err)
	}
	if v == nil {
		m.state = domain.StateSessionsResolved
		return nil
	}

	coll, ok := v.(ports.Collection)
	if !ok {
		if obj, isObj := v.(ports.Object); isObj {
			_ = obj.Release()
		}
		return m.abort(domain.PhaseAllSessions, fmt.Errorf("%s is not enumerable (%T)", domain.AttrSessions, v))
	}
	m.acquired(domain.RoleCollection)

	items, err := coll.Items()
	if rerr := m.release(coll, domain.RoleCollection); rerr != nil {
		m.logger.Warn("Release of session collection failed", "err", rerr)
	}
	if err != nil {
		return m.abort(domain.PhaseAllSessions, err)
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		m.sessions = append(m.sessions, item)
		m.acquired(domain.RoleSession)
	}

	m.state = domain.StateSessionsResolved
	m.logger.Debug("Sessions resolved", "count", len(m.sessions))
	return nil
}

// TransactionID returns the transaction code of the current session.
//
// A nil session yields "" without any foreign call. Any other session only
// gates the read: the code is always taken from the current session
// resolved by FetchCurrentSession, whichever handle is passed.
func (m *Manager) TransactionID(ctx context.Context, session ports.Object) (string, error) {
	if session == nil {
		return "", nil
	}

	v, err := m.get(m.current, domain.AttrInfo)
	if err != nil {
		return "", m.abort(domain.PhaseTransaction, err)
	}
	if v == nil {
		return "", nil
	}
	info, err := m.adopt(v, domain.RoleInfo, domain.AttrInfo)
	if err != nil {
		return "", m.abort(domain.PhaseTransaction, err)
	}

	tx, err := m.get(info, domain.AttrTransaction)
	if rerr := m.release(info, domain.RoleInfo); rerr != nil {
		m.logger.Warn("Release of session info failed", "err", rerr)
	}
	if err != nil {
		return "", m.abort(domain.PhaseTransaction, err)
	}

	switch t := tx.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		if obj, ok := tx.(ports.Object); ok {
			_ = obj.Release()
		}
		return "", m.abort(domain.PhaseTransaction, fmt.Errorf("%s has unexpected type %T", domain.AttrTransaction, tx))
	}
}

// InvokeMethod calls a method on target. A nil target yields (nil, nil).
// Errors are returned exactly as the foreign object reported them. A
// foreign object result is owned by the caller and given back with Release.
func (m *Manager) InvokeMethod(target ports.Object, name string, args ...any) (any, error) {
	v, err := m.invoke(target, name, args...)
	m.handedOut(v)
	return v, err
}

// GetAttribute reads a property of target. A nil target yields (nil, nil).
// Errors are returned exactly as the foreign object reported them. A
// foreign object result is owned by the caller and given back with Release.
func (m *Manager) GetAttribute(target ports.Object, name string, args ...any) (any, error) {
	v, err := m.get(target, name, args...)
	m.handedOut(v)
	return v, err
}

// SetAttribute writes a property of target. A nil target is a no-op.
// Errors are returned exactly as the foreign object reported them.
func (m *Manager) SetAttribute(target ports.Object, name string, args ...any) error {
	if target == nil {
		return nil
	}
	err := target.Set(name, args...)
	m.called(domain.CallSet, name, err)
	return err
}

// Release gives back a handle the caller obtained through InvokeMethod or
// GetAttribute. Handles owned by the manager are released by Close.
func (m *Manager) Release(h ports.Object) error {
	if h == nil {
		return nil
	}
	return m.release(h, domain.RoleForeign)
}

func (m *Manager) invoke(target ports.Object, name string, args ...any) (any, error) {
	if target == nil {
		return nil, nil
	}
	v, err := target.Invoke(name, args...)
	m.called(domain.CallInvoke, name, err)
	return v, err
}

func (m *Manager) get(target ports.Object, name string, args ...any) (any, error) {
	if target == nil {
		return nil, nil
	}
	v, err := target.Get(name, args...)
	m.called(domain.CallGet, name, err)
	return v, err
}

func (m *Manager) handedOut(v any) {
	if _, ok := v.(ports.Object); ok {
		m.acquired(domain.RoleForeign)
	}
}

// Close releases the session list, the current session, the connection, the
// engine and the application, in that order. It is safe to call on a
// partially initialized manager and more than once.
func (m *Manager) Close() error {
	var errs []error

	for _, s := range m.sessions {
		if s != nil {
			errs = append(errs, m.release(s, domain.RoleSession))
		}
	}
	m.sessions = nil

	if m.current != nil {
		errs = append(errs, m.release(m.current, domain.RoleCurrentSession))
		m.current = nil
	}
	if m.container != nil {
		errs = append(errs, m.release(m.container, domain.RoleContainer))
		m.container = nil
	}
	if m.engine != nil {
		errs = append(errs, m.release(m.engine, domain.RoleEngine))
		m.engine = nil
	}
	if m.app != nil {
		errs = append(errs, m.release(m.app, domain.RoleApplication))
		m.app = nil
	}

	if m.state != domain.StateUninitialized {
		m.state = domain.StateClosed
	}
	return errors.Join(errs...)
}

// abort tears the manager down and wraps cause with the phase tag.
func (m *Manager) abort(phase domain.Phase, cause error) error {
	if err := m.Close(); err != nil {
		m.logger.Warn("Teardown after fault was incomplete", "phase", phase, "err", err)
	}
	m.logger.Error("Connection phase failed", "phase", phase, "err", cause)
	if m.hooks.OnFault != nil {
		m.hooks.OnFault(&domain.FaultEvent{Timestamp: time.Now(), Phase: phase, Err: cause})
	}
	return &domain.Error{Phase: phase, Err: cause}
}

// adopt takes ownership of a call result. A null result is kept as a nil
// handle; anything that is not a foreign object is a fault.
func (m *Manager) adopt(v any, role domain.HandleRole, member string) (ports.Object, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(ports.Object)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, not an object", member, v)
	}
	m.acquired(role)
	return obj, nil
}

func (m *Manager) release(h ports.Object, role domain.HandleRole) error {
	err := h.Release()
	if m.hooks.OnRelease != nil {
		m.hooks.OnRelease(&domain.HandleEvent{Timestamp: time.Now(), Role: role, Err: err})
	}
	if err != nil {
		return fmt.Errorf("release %s: %w", role, err)
	}
	return nil
}

func (m *Manager) acquired(role domain.HandleRole) {
	if m.hooks.OnAcquire != nil {
		m.hooks.OnAcquire(&domain.HandleEvent{Timestamp: time.Now(), Role: role})
	}
}

func (m *Manager) called(op domain.CallOp, name string, err error) {
	if m.hooks.OnCall != nil {
		m.hooks.OnCall(&domain.CallEvent{Timestamp: time.Now(), Op: op, Name: name, Err: err})
	}
}
