// Package middleware wraps snapshot stores with behavior applied on the way
// to and from the backend.
package middleware

import "github.com/aretw0/sapgui/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore

// Wrap applies mws to store. The first middleware is the outermost one, so
// Wrap(s, pii, enc) masks before it encrypts.
func Wrap(store ports.SnapshotStore, mws ...Middleware) ports.SnapshotStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
