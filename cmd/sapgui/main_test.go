package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sapgui"
	"github.com/aretw0/sapgui/pkg/domain"
)

// run executes the root command against the demo GUI with snapshots in a temp dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SAPGUI_SNAPSHOTS_BACKEND", "file")
	t.Setenv("SAPGUI_SNAPSHOTS_DIR", dir)
	t.Setenv("SAPGUI_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--fake", "--env-file", filepath.Join(dir, "missing.env")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "sapgui version "+sapgui.Version+"\n", out)
}

func TestSessionsCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "sessions", "--format", "json", "--save=false")
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "SESSION_MANAGER", snap.CurrentTransaction)
	assert.Len(t, snap.Sessions, 3)
}

func TestTransactionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "transaction")
	require.NoError(t, err)
	assert.Equal(t, "SESSION_MANAGER\n", out)
}

func TestCallCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "get", "Id", "--id", "")
	require.NoError(t, err)
	assert.Equal(t, "\"/app/con[0]/ses[0]\"\n", out)

	out, err = run(t, dir, "get", "Text", "--id", "wnd[0]")
	require.NoError(t, err)
	assert.Equal(t, "\"SAP Easy Access\"\n", out)

	_, err = run(t, dir, "set", "Text", "/nSE16", "--id", "wnd[0]/tbar[0]/okcd")
	require.NoError(t, err)

	_, err = run(t, dir, "invoke", "findById", "wnd[7]", "--id", "")
	assert.ErrorContains(t, err, "could not be found")
}

func TestSnapshotCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "snapshot", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots found.")

	out, err = run(t, dir, "sessions", "--save", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved snapshot")

	out, err = run(t, dir, "snapshot", "ls")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, dir, "snapshot", "inspect", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"current_transaction": "SESSION_MANAGER"`)

	out, err = run(t, dir, "snapshot", "rm", id, "--all=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed snapshot")

	_, err = run(t, dir, "snapshot", "inspect", id)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestCheckCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "check", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Connection: 3 session(s), current transaction SESSION_MANAGER")
	assert.Contains(t, out, "Snapshot store: reachable")
}
