//go:build !windows

package com

import (
	"context"
	"fmt"

	"github.com/aretw0/sapgui/pkg/ports"
)

// Activator reports that COM is unavailable on this platform.
type Activator struct{}

var _ ports.Activator = (*Activator)(nil)

// New creates an Activator.
func New() *Activator {
	return &Activator{}
}

// Activate always fails with ErrUnsupportedPlatform.
func (a *Activator) Activate(ctx context.Context, name string) (ports.Object, error) {
	return nil, fmt.Errorf("%w: cannot activate %q", ErrUnsupportedPlatform, name)
}

// Close is a no-op.
func (a *Activator) Close() error {
	return nil
}
