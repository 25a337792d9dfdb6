package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/sapgui"
	"github.com/aretw0/sapgui/internal/adapters/file"
	"github.com/aretw0/sapgui/pkg/adapters/memory"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoHandler(t *testing.T, opts ...Option) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	client := sapgui.New(memory.NewDemoActivator(), sapgui.WithStore(store))
	return NewHandler(client, opts...), store
}

func do(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	handler, _ := newDemoHandler(t)

	rr := do(t, handler, "GET", "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	handler, _ := newDemoHandler(t)

	rr := do(t, handler, "GET", "/info")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "sapgui-http", resp["app"])
	assert.Equal(t, sapgui.Version, resp["version"])
	assert.Equal(t, domain.DefaultApplication, resp["application"])
}

func TestGetSessions(t *testing.T) {
	handler, _ := newDemoHandler(t)

	rr := do(t, handler, "GET", "/sessions")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "SESSION_MANAGER", snap.CurrentTransaction)
	require.Len(t, snap.Sessions, 3)
	assert.Equal(t, "SE80", snap.Sessions[1].Transaction)
}

func TestGetTransaction(t *testing.T) {
	handler, _ := newDemoHandler(t)

	rr := do(t, handler, "GET", "/transaction")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"transaction":"SESSION_MANAGER"}`, rr.Body.String())
}

func TestSnapshots_Lifecycle(t *testing.T) {
	handler, store := newDemoHandler(t)

	rr := do(t, handler, "GET", "/snapshots")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, handler, "POST", "/snapshots")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "/snapshots/"+created.ID, rr.Header().Get("Location"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids)

	rr = do(t, handler, "GET", "/snapshots/"+created.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var loaded domain.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	assert.Equal(t, created.Sessions, loaded.Sessions)

	rr = do(t, handler, "DELETE", "/snapshots/"+created.ID)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, handler, "GET", "/snapshots/"+created.ID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSnapshots_InvalidID(t *testing.T) {
	store := file.New(t.TempDir())
	handler := NewHandler(sapgui.New(memory.NewDemoActivator(), sapgui.WithStore(store)))

	for _, method := range []string{"GET", "DELETE"} {
		rr := do(t, handler, method, "/snapshots/a%5Cb")
		assert.Equal(t, http.StatusBadRequest, rr.Code, method)
		assert.Contains(t, rr.Body.String(), "invalid snapshot id", method)
	}
}

func TestSnapshots_NoStore(t *testing.T) {
	handler := NewHandler(sapgui.New(memory.NewDemoActivator()))

	for _, method := range []string{"GET", "POST"} {
		rr := do(t, handler, method, "/snapshots")
		assert.Equal(t, http.StatusNotImplemented, rr.Code, method)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Run("GUI not running", func(t *testing.T) {
		handler := NewHandler(sapgui.New(memory.NewActivator(nil)))

		rr := do(t, handler, "GET", "/sessions")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, string(domain.PhaseConnect), resp.Phase)
		assert.Contains(t, resp.Error, "[CONNECTION FAILED]")
	})

	t.Run("session fetch fault", func(t *testing.T) {
		container := memory.NewNode("con[0]").
			WithChildren(memory.NewNode("ses[0]")).
			FailOn(domain.AttrSessions, errors.New("RPC_E_DISCONNECTED"))
		engine := memory.NewNode("app").WithChildren(container)
		root := memory.NewNode(domain.DefaultApplication).
			WithMethod(domain.MethodGetScriptingEngine, func(args ...any) (any, error) {
				return engine, nil
			})
		activator := memory.NewActivator(nil).Register(domain.DefaultApplication, root)

		handler := NewHandler(sapgui.New(activator))
		rr := do(t, handler, "GET", "/sessions")
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "GET ALL SESSIONS FAILED")
		assert.Equal(t, 0, activator.Tracker().Live())
	})

	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("%w: %q", domain.ErrInvalidSnapshotID, "..")))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk full")))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	store := memory.NewStore()
	client := sapgui.New(memory.NewDemoActivator(),
		sapgui.WithStore(store),
		sapgui.WithHooks(metrics.Hooks()),
	)
	handler := NewHandler(client, WithMetrics(metrics, reg))

	require.Equal(t, http.StatusOK, do(t, handler, "GET", "/sessions").Code)
	require.Equal(t, http.StatusNotFound, do(t, handler, "GET", "/snapshots/missing").Code)
	require.Equal(t, http.StatusNotFound, do(t, handler, "GET", "/no/such/path-1").Code)
	require.Equal(t, http.StatusNotFound, do(t, handler, "GET", "/no/such/path-2").Code)

	rr := do(t, handler, "GET", "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `sapgui_http_requests_total{method="GET",route="/sessions",status="200"} 1`)
	assert.Contains(t, body, `sapgui_http_requests_total{method="GET",route="/snapshots/{id}",status="404"} 1`)
	assert.Contains(t, body, `sapgui_http_requests_total{method="GET",route="unmatched",status="404"} 2`)
	assert.NotContains(t, body, "path-1", "raw paths never become label values")
	assert.Contains(t, body, "sapgui_handles_live 0")
}

func TestCORS(t *testing.T) {
	handler, _ := newDemoHandler(t)

	rr := do(t, handler, "OPTIONS", "/sessions")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	store := memory.NewStore()
	client := sapgui.New(memory.NewDemoActivator(), sapgui.WithStore(store))
	srv := &Server{Service: client, Streams: NewStreamManager()}

	ts := httptest.NewServer(NewHandler(client))
	defer ts.Close()

	// The handler built by NewHandler owns its own StreamManager, so drive
	// the SSE handler directly for broadcast assertions.
	events := httptest.NewServer(http.HandlerFunc(srv.SubscribeEvents))
	defer events.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", events.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	require.Eventually(t, func() bool {
		return srv.Streams.Subscribers(domain.DefaultApplication) == 1
	}, time.Second, 10*time.Millisecond)
	srv.Streams.Broadcast(domain.DefaultApplication, `{"type":"snapshot_saved","id":"abc"}`)

	var data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			break
		}
	}
	assert.JSONEq(t, `{"type":"snapshot_saved","id":"abc"}`, data)

	postResp, err := http.Post(ts.URL+"/snapshots", "application/json", nil)
	require.NoError(t, err)
	postResp.Body.Close()
	assert.Equal(t, http.StatusCreated, postResp.StatusCode)
}
