//go:build windows

package com

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/aretw0/sapgui/pkg/ports"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
const sFalse = 0x00000001

// Activator implements ports.Activator on top of COM.
type Activator struct {
	mu          sync.Mutex
	initialized bool
}

var _ ports.Activator = (*Activator)(nil)

// New creates an Activator. COM is initialized lazily on first use.
func New() *Activator {
	return &Activator{}
}

func (a *Activator) init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("failed to initialize COM: %w", err)
		}
	}
	a.initialized = true
	return nil
}

// Activate returns the object registered as name in the running object table.
func (a *Activator) Activate(ctx context.Context, name string) (ports.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.init(); err != nil {
		return nil, err
	}

	unknown, err := oleutil.CreateObject(ROTWrapperProgID)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", ROTWrapperProgID, err)
	}
	defer unknown.Release()

	rot, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("failed to query IDispatch on %s: %w", ROTWrapperProgID, err)
	}
	defer rot.Release()

	entry, err := oleutil.CallMethod(rot, "GetROTEntry", name)
	if err != nil {
		return nil, fmt.Errorf("failed to read running object %q: %w", name, err)
	}
	disp := entry.ToIDispatch()
	if disp == nil {
		_ = entry.Clear()
		return nil, fmt.Errorf("%q not found in running object table", name)
	}
	return &Object{disp: disp}, nil
}

// Close uninitializes COM if Activate initialized it.
func (a *Activator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		ole.CoUninitialize()
		a.initialized = false
	}
	return nil
}
