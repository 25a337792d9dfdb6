package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/sapgui/pkg/ports"
)

// Activator implements ports.Activator over an in-memory running object table.
// Safe for concurrent use.
type Activator struct {
	mu      sync.RWMutex
	tracker *Tracker
	rot     map[string]*Node
	err     error
}

var _ ports.Activator = (*Activator)(nil)

// NewActivator creates an activator with an empty table.
// If tracker is nil a new one is created.
func NewActivator(tracker *Tracker) *Activator {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Activator{
		tracker: tracker,
		rot:     make(map[string]*Node),
	}
}

// Register publishes root under name.
func (a *Activator) Register(name string, root *Node) *Activator {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rot[name] = root
	return a
}

// Revoke removes the entry for name.
func (a *Activator) Revoke(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.rot, name)
}

// FailWith makes every activation fail with err until called with nil.
func (a *Activator) FailWith(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

// Tracker returns the tracker counting the handles handed out.
func (a *Activator) Tracker() *Tracker {
	return a.tracker
}

// Activate hands out a handle to the root registered under name.
func (a *Activator) Activate(ctx context.Context, name string) (ports.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.err != nil {
		return nil, a.err
	}
	root, ok := a.rot[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return a.tracker.acquire(root), nil
}
