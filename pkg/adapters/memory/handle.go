package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/sapgui/pkg/ports"
)

var (
	// ErrReleased is returned when a handle is used or released after Release.
	ErrReleased = errors.New("handle already released")
)

// Tracker counts the handles handed out by an Activator and their releases.
// Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	nextID     int
	live       map[int]*Handle
	acquired   int
	released   int
	doubles    int
	releaseLog []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{live: make(map[int]*Handle)}
}

// Acquired returns the number of handles handed out.
func (t *Tracker) Acquired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acquired
}

// Released returns the number of successful releases.
func (t *Tracker) Released() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

// Live returns the number of handles not yet released.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// DoubleReleases returns the number of Release calls on already released handles.
func (t *Tracker) DoubleReleases() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doubles
}

// ReleaseLog returns the node names in the order their handles were released.
func (t *Tracker) ReleaseLog() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.releaseLog...)
}

// Reset clears the release log and counters. Live handles stay tracked.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.acquired = len(t.live)
	t.released = 0
	t.doubles = 0
	t.releaseLog = nil
}

func (t *Tracker) acquire(n *Node) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	h := &Handle{id: t.nextID, node: n, tracker: t}
	t.live[h.id] = h
	t.acquired++
	return h
}

func (t *Tracker) release(h *Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h.released {
		t.doubles++
		return fmt.Errorf("%w: %s", ErrReleased, h.node.Name)
	}
	h.released = true
	delete(t.live, h.id)
	t.released++
	t.releaseLog = append(t.releaseLog, h.node.Name)
	return nil
}

func (t *Tracker) isReleased(h *Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return h.released
}

// Handle implements ports.Object over a Node.
type Handle struct {
	id       int
	node     *Node
	tracker  *Tracker
	released bool
}

var _ ports.Object = (*Handle)(nil)

// Node returns the node behind the handle.
func (h *Handle) Node() *Node {
	return h.node
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.tracker.isReleased(h)
}

// Invoke calls a method registered on the node.
func (h *Handle) Invoke(name string, args ...any) (any, error) {
	if h.Released() {
		return nil, fmt.Errorf("%w: %s", ErrReleased, h.node.Name)
	}
	v, err := h.node.invoke(name, unwrapArgs(args))
	if err != nil {
		return nil, err
	}
	return h.wrap(name, v), nil
}

// Get reads a property of the node.
func (h *Handle) Get(name string, args ...any) (any, error) {
	if h.Released() {
		return nil, fmt.Errorf("%w: %s", ErrReleased, h.node.Name)
	}
	v, err := h.node.get(name, args)
	if err != nil {
		return nil, err
	}
	return h.wrap(name, v), nil
}

// Set writes a property of the node.
func (h *Handle) Set(name string, args ...any) error {
	if h.Released() {
		return fmt.Errorf("%w: %s", ErrReleased, h.node.Name)
	}
	return h.node.set(name, unwrapArgs(args))
}

// Release returns the handle to the tracker.
func (h *Handle) Release() error {
	return h.tracker.release(h)
}

func (h *Handle) wrap(name string, v any) any {
	switch x := v.(type) {
	case *Node:
		if x == nil {
			return nil
		}
		return h.tracker.acquire(x)
	case []*Node:
		return h.collection(name, Enumeration{Items: x})
	case Enumeration:
		return h.collection(name, x)
	default:
		return v
	}
}

func (h *Handle) collection(name string, e Enumeration) *Collection {
	node := NewNode(h.node.Name + "." + name).With("Count", len(e.Items))
	return &Collection{Handle: h.tracker.acquire(node), items: e.Items, err: e.Err}
}

// Collection implements ports.Collection over a list of nodes.
type Collection struct {
	*Handle
	items []*Node
	err   error
}

var _ ports.Collection = (*Collection)(nil)

// Items hands out one handle per node; nil nodes are yielded as nil entries.
func (c *Collection) Items() ([]ports.Object, error) {
	if c.Released() {
		return nil, fmt.Errorf("%w: %s", ErrReleased, c.node.Name)
	}
	out := make([]ports.Object, 0, len(c.items))
	for _, n := range c.items {
		if n == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, c.tracker.acquire(n))
	}
	if c.err != nil {
		for _, obj := range out {
			if obj != nil {
				_ = obj.Release()
			}
		}
		return nil, c.err
	}
	return out, nil
}

func unwrapArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if h, ok := a.(*Handle); ok {
			out[i] = h.node
			continue
		}
		out[i] = a
	}
	return out
}
