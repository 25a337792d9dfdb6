package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sapgui/pkg/adapters/memory"
)

func TestParseArgs(t *testing.T) {
	got := ParseArgs([]string{"0", "-3", "true", "false", `"42"`, "wnd[0]", `""`})
	assert.Equal(t, []any{0, -3, true, false, "42", "wnd[0]", ""}, got)
}

func TestRunCall(t *testing.T) {
	rt := fakeRuntime(t, nil)
	activator := rt.Activator.(*memory.Activator)
	ctx := context.Background()

	v, err := RunCall(ctx, rt.Client, CallRequest{Op: OpGet, Name: "Id"})
	require.NoError(t, err)
	assert.Equal(t, "/app/con[0]/ses[0]", v)

	_, err = RunCall(ctx, rt.Client, CallRequest{Op: OpSet, Target: "wnd[0]/tbar[0]/okcd", Name: "Text", Args: []string{"/nSE16"}})
	require.NoError(t, err)

	v, err = RunCall(ctx, rt.Client, CallRequest{Op: OpGet, Target: "wnd[0]/tbar[0]/okcd", Name: "Text"})
	require.NoError(t, err)
	assert.Equal(t, "/nSE16", v)

	v, err = RunCall(ctx, rt.Client, CallRequest{Op: OpGet, Name: "Info"})
	require.NoError(t, err)
	assert.Equal(t, ObjectResult, v)

	_, err = RunCall(ctx, rt.Client, CallRequest{Op: OpInvoke, Name: "StartTransaction", Args: []string{"su01"}})
	require.NoError(t, err)
	tx, err := rt.Client.Transaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SU01", tx)

	_, err = RunCall(ctx, rt.Client, CallRequest{Op: OpGet, Target: "wnd[9]", Name: "Text"})
	assert.ErrorContains(t, err, "could not be found")

	_, err = RunCall(ctx, rt.Client, CallRequest{Op: "delete", Name: "Text"})
	assert.ErrorContains(t, err, "unknown operation")

	assert.Equal(t, 0, activator.Tracker().Live())
}
