package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/sapgui/pkg/adapters/memory"
	"github.com/aretw0/sapgui/pkg/connection"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_DemoApplication(t *testing.T) {
	activator := memory.NewDemoActivator()
	mgr := connection.New(activator)

	snap, err := inventory.Collect(context.Background(), mgr)

	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, domain.DefaultApplication, snap.Application)
	assert.Equal(t, "SESSION_MANAGER", snap.CurrentTransaction)
	require.Len(t, snap.Sessions, 3)

	assert.Equal(t, domain.SessionInfo{
		Index:             1,
		SystemName:        "DEV",
		Client:            "100",
		User:              "DEVELOPER",
		Language:          "EN",
		Transaction:       "SE80",
		Program:           "SAPLSEO_CLEDITOR",
		ScreenNumber:      200,
		SessionNumber:     2,
		ApplicationServer: "sapdev01",
	}, snap.Sessions[1])
	assert.Equal(t, "SM37", snap.Sessions[2].Transaction)

	assert.Equal(t, domain.StateClosed, mgr.State())
	assert.Zero(t, activator.Tracker().Live(), "Collect must release every handle")
	assert.Zero(t, activator.Tracker().DoubleReleases())
}

func TestCollect_WeaklyTypedFields(t *testing.T) {
	info := memory.NewNode("info")
	for _, f := range domain.InfoFields {
		info.With(f, "")
	}
	info.With("Client", 100).With("ScreenNumber", "300").With("SessionNumber", int32(4))
	session := memory.NewNode("ses").With("Info", info)
	con := memory.NewNode("con").WithChildren(session).With("Sessions", []*memory.Node{session})
	engine := memory.NewNode("engine").WithChildren(con)
	root := memory.NewNode("SAPGUI").WithMethod(domain.MethodGetScriptingEngine, func(args ...any) (any, error) {
		return engine, nil
	})
	activator := memory.NewActivator(nil).Register(domain.DefaultApplication, root)

	snap, err := inventory.Collect(context.Background(), connection.New(activator))

	require.NoError(t, err)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "100", snap.Sessions[0].Client)
	assert.Equal(t, 300, snap.Sessions[0].ScreenNumber)
	assert.Equal(t, 4, snap.Sessions[0].SessionNumber)
}

func TestCollect_ConnectionFailure(t *testing.T) {
	activator := memory.NewActivator(nil)
	mgr := connection.New(activator)

	snap, err := inventory.Collect(context.Background(), mgr)

	assert.Nil(t, snap)
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.Equal(t, domain.StateUninitialized, mgr.State())
}

func TestCollect_DescribeFailureReleasesHandles(t *testing.T) {
	activator := memory.NewDemoActivator()
	mgr := connection.New(activator)
	ctx := context.Background()

	require.NoError(t, mgr.Connect(ctx))
	require.NoError(t, mgr.FetchAllSessions(ctx))
	v, err := mgr.GetAttribute(mgr.Sessions()[2], domain.AttrInfo)
	require.NoError(t, err)
	v.(*memory.Handle).Node().FailOn("Program", errors.New("field unavailable"))
	require.NoError(t, mgr.Release(v.(*memory.Handle)))
	require.NoError(t, mgr.Close())

	snap, err := inventory.Collect(ctx, mgr)

	assert.Nil(t, snap)
	assert.ErrorContains(t, err, "failed to describe session 2")
	assert.ErrorContains(t, err, "field unavailable")
	assert.Zero(t, activator.Tracker().Live())
}

func TestCurrentTransaction(t *testing.T) {
	activator := memory.NewDemoActivator()

	tx, err := inventory.CurrentTransaction(context.Background(), connection.New(activator))

	require.NoError(t, err)
	assert.Equal(t, "SESSION_MANAGER", tx)
	assert.Zero(t, activator.Tracker().Live())
}
