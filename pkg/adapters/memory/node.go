package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/sapgui/pkg/domain"
)

var (
	// ErrUnknownMember is returned when a method or property does not exist on a node.
	ErrUnknownMember = errors.New("unknown member")
	// ErrNotRegistered is returned when no root object is registered under a name.
	ErrNotRegistered = errors.New("not found in running object table")
)

// Method implements a foreign method on a Node. A *Node result is handed to
// the caller as a new handle.
type Method func(args ...any) (any, error)

// Enumeration is a property value that enumerates into handles. A nil entry
// in Items is yielded as a null element. When Err is set, enumeration fails
// after every item has been handed out.
type Enumeration struct {
	Items []*Node
	Err   error
}

// Node is an object of the in-memory foreign object model.
// Property values may be scalars, *Node, []*Node or Enumeration.
type Node struct {
	Name string

	mu       sync.RWMutex
	props    map[string]any
	children []*Node
	methods  map[string]Method
	faults   map[string]error
}

// NewNode creates an empty node.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		props:   make(map[string]any),
		methods: make(map[string]Method),
		faults:  make(map[string]error),
	}
}

// With sets a property.
func (n *Node) With(name string, value any) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props[name] = value
	return n
}

// WithChildren appends nodes reachable through the indexed Children property.
func (n *Node) WithChildren(children ...*Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, children...)
	return n
}

// WithMethod registers a method.
func (n *Node) WithMethod(name string, fn Method) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods[name] = fn
	return n
}

// FailOn makes every call to the named member return err.
func (n *Node) FailOn(name string, err error) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.faults[name] = err
	return n
}

// Heal removes a fault installed by FailOn.
func (n *Node) Heal(name string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.faults, name)
	return n
}

// Prop reads a property without going through a handle.
func (n *Node) Prop(name string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.props[name]
	return v, ok
}

func (n *Node) get(name string, args []any) (any, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.faults[name]; err != nil {
		return nil, err
	}

	if name == domain.AttrChildren {
		if len(args) == 0 {
			return append([]*Node(nil), n.children...), nil
		}
		i, err := toIndex(args[0])
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(n.children) {
			return nil, fmt.Errorf("%s.%s: index %d out of range", n.Name, name, i)
		}
		return n.children[i], nil
	}

	v, ok := n.props[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, n.Name, name)
	}
	return v, nil
}

func (n *Node) invoke(name string, args []any) (any, error) {
	n.mu.RLock()
	fault := n.faults[name]
	fn, ok := n.methods[name]
	n.mu.RUnlock()

	if fault != nil {
		return nil, fault
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s()", ErrUnknownMember, n.Name, name)
	}
	return fn(args...)
}

func (n *Node) set(name string, args []any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.faults[name]; err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%s.%s: missing value", n.Name, name)
	}
	n.props[name] = args[len(args)-1]
	return nil
}

func toIndex(v any) (int, error) {
	switch i := v.(type) {
	case int:
		return i, nil
	case int32:
		return int(i), nil
	case int64:
		return int(i), nil
	case float64:
		return int(i), nil
	default:
		return 0, fmt.Errorf("invalid index type %T", v)
	}
}
