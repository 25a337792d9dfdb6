package tests

import (
	"context"
	"testing"

	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/ports"
)

// ActivatorContractTest is a reusable test suite that verifies if an adapter
// complies with ports.Activator and ports.Object for a GUI registered as name.
func ActivatorContractTest(t *testing.T, activator ports.Activator, name string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Activate_NotFound", func(t *testing.T) {
		obj, err := activator.Activate(ctx, "non-existent-application")
		if err == nil {
			if obj != nil {
				_ = obj.Release()
			}
			t.Fatal("expected error for non-existent application, got nil")
		}
	})

	t.Run("Walk_ScriptingEngine", func(t *testing.T) {
		app, err := activator.Activate(ctx, name)
		if err != nil {
			t.Fatalf("unexpected error activating %s: %v", name, err)
		}
		defer release(t, app)

		v, err := app.Invoke(domain.MethodGetScriptingEngine)
		if err != nil {
			t.Fatalf("unexpected error invoking %s: %v", domain.MethodGetScriptingEngine, err)
		}
		engine, ok := v.(ports.Object)
		if !ok || engine == nil {
			t.Fatalf("expected engine object, got %T", v)
		}
		defer release(t, engine)

		v, err = engine.Get(domain.AttrChildren, 0)
		if err != nil {
			t.Fatalf("unexpected error reading %s(0): %v", domain.AttrChildren, err)
		}
		container, ok := v.(ports.Object)
		if !ok || container == nil {
			t.Fatalf("expected container object, got %T", v)
		}
		defer release(t, container)

		v, err = container.Get(domain.AttrSessions)
		if err != nil {
			t.Fatalf("unexpected error reading %s: %v", domain.AttrSessions, err)
		}
		sessions, ok := v.(ports.Collection)
		if !ok {
			t.Fatalf("expected enumerable sessions, got %T", v)
		}
		defer release(t, sessions)

		items, err := sessions.Items()
		if err != nil {
			t.Fatalf("unexpected error enumerating sessions: %v", err)
		}
		for _, item := range items {
			if item != nil {
				release(t, item)
			}
		}
	})

	t.Run("Get_UnknownMember", func(t *testing.T) {
		app, err := activator.Activate(ctx, name)
		if err != nil {
			t.Fatalf("unexpected error activating %s: %v", name, err)
		}
		defer release(t, app)

		if _, err := app.Get("DefinitelyNotAMember"); err == nil {
			t.Error("expected error reading unknown member, got nil")
		}
	})
}

func release(t *testing.T, obj ports.Object) {
	t.Helper()
	if err := obj.Release(); err != nil {
		t.Errorf("unexpected error releasing handle: %v", err)
	}
}
