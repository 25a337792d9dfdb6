//go:build windows

package com

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/aretw0/sapgui/pkg/ports"
)

// Object implements ports.Collection over an IDispatch reference it owns.
type Object struct {
	disp *ole.IDispatch
}

var _ ports.Collection = (*Object)(nil)

// Invoke calls a method through IDispatch.
func (o *Object) Invoke(name string, args ...any) (any, error) {
	if o.disp == nil {
		return nil, errReleased(name)
	}
	v, err := oleutil.CallMethod(o.disp, name, unwrapArgs(args)...)
	if err != nil {
		return nil, err
	}
	return fromVariant(v), nil
}

// Get reads a property through IDispatch.
func (o *Object) Get(name string, args ...any) (any, error) {
	if o.disp == nil {
		return nil, errReleased(name)
	}
	v, err := oleutil.GetProperty(o.disp, name, unwrapArgs(args)...)
	if err != nil {
		return nil, err
	}
	return fromVariant(v), nil
}

// Set writes a property through IDispatch.
func (o *Object) Set(name string, args ...any) error {
	if o.disp == nil {
		return errReleased(name)
	}
	v, err := oleutil.PutProperty(o.disp, name, unwrapArgs(args)...)
	if err != nil {
		return err
	}
	if v != nil {
		_ = v.Clear()
	}
	return nil
}

// Items enumerates the object through _NewEnum.
func (o *Object) Items() ([]ports.Object, error) {
	if o.disp == nil {
		return nil, errReleased("_NewEnum")
	}
	var items []ports.Object
	err := oleutil.ForEach(o.disp, func(v *ole.VARIANT) error {
		disp := v.ToIDispatch()
		if disp == nil {
			_ = v.Clear()
			items = append(items, nil)
			return nil
		}
		items = append(items, &Object{disp: disp})
		return nil
	})
	if err != nil {
		for _, item := range items {
			if item != nil {
				_ = item.Release()
			}
		}
		return nil, err
	}
	return items, nil
}

// Release gives the reference back. Further calls fail.
func (o *Object) Release() error {
	if o.disp == nil {
		return nil
	}
	o.disp.Release()
	o.disp = nil
	return nil
}

// fromVariant hands dispatch results over as *Object and clears everything else.
func fromVariant(v *ole.VARIANT) any {
	if v == nil {
		return nil
	}
	if disp := v.ToIDispatch(); disp != nil {
		return &Object{disp: disp}
	}
	defer v.Clear()
	return v.Value()
}

func unwrapArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if obj, ok := a.(*Object); ok {
			out[i] = obj.disp
			continue
		}
		out[i] = a
	}
	return out
}

func errReleased(member string) error {
	return fmt.Errorf("com: %s called on a released object", member)
}
