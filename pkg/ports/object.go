package ports

import "context"

// Object is an opaque handle to an object owned by a foreign application.
// Results of Invoke and Get that are themselves foreign objects are returned
// as Object values owned by the caller, who must Release them exactly once.
type Object interface {
	// Invoke calls the named method.
	Invoke(name string, args ...any) (any, error)

	// Get reads the named property, optionally indexed by args.
	Get(name string, args ...any) (any, error)

	// Set writes the named property; the value is the last argument.
	Set(name string, args ...any) error

	// Release gives the underlying reference back to the foreign application.
	Release() error
}

// Collection is an Object that can be enumerated.
type Collection interface {
	Object

	// Items returns one handle per element, in the order the foreign
	// enumerator yields them. Elements the foreign side reports as null are
	// returned as nil entries. If enumeration fails midway, the handles
	// collected so far are released before the error is returned.
	Items() ([]Object, error)
}

// Activator resolves the root object of a running application through the
// operating system's object activation registry.
type Activator interface {
	Activate(ctx context.Context, name string) (Object, error)
}
