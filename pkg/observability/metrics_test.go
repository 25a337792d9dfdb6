package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/sapgui/pkg/adapters/memory"
	"github.com/aretw0/sapgui/pkg/connection"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample sums every series of the named family.
func sample(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestMetrics_HandleLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	mgr := connection.New(memory.NewDemoActivator(), connection.WithHooks(metrics.Hooks()))
	ctx := context.Background()
	require.NoError(t, mgr.Connect(ctx))
	require.NoError(t, mgr.FetchCurrentSession(ctx))
	require.NoError(t, mgr.FetchAllSessions(ctx))

	assert.Equal(t, 7.0, sample(t, reg, "sapgui_handles_live", nil), "app, engine, container, current session and three sessions")
	assert.Equal(t, 3.0, sample(t, reg, "sapgui_handles_acquired_total", map[string]string{"role": "session"}))

	require.NoError(t, mgr.Close())

	acquired := sample(t, reg, "sapgui_handles_acquired_total", nil)
	released := sample(t, reg, "sapgui_handles_released_total", nil)
	assert.Equal(t, 8.0, acquired)
	assert.Equal(t, acquired, released)
	assert.Equal(t, 0.0, sample(t, reg, "sapgui_handles_live", nil))
	assert.Equal(t, 4.0, sample(t, reg, "sapgui_calls_total", map[string]string{"outcome": "ok"}))
	assert.Equal(t, 0.0, sample(t, reg, "sapgui_calls_total", map[string]string{"outcome": "error"}))
}

func TestMetrics_Faults(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	activator := memory.NewActivator(nil)
	activator.FailWith(errors.New("rpc server unavailable"))

	mgr := connection.New(activator, connection.WithHooks(metrics.Hooks()))
	err = mgr.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrConnection)

	assert.Equal(t, 1.0, sample(t, reg, "sapgui_faults_total", map[string]string{"phase": string(domain.PhaseConnect)}))
	assert.Equal(t, 0.0, sample(t, reg, "sapgui_handles_live", nil))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	metrics.RecordHTTPRequest("GET", "/sessions", 200, 15*time.Millisecond)
	metrics.RecordHTTPRequest("GET", "/sessions", 503, time.Millisecond)

	assert.Equal(t, 2.0, sample(t, reg, "sapgui_http_requests_total", map[string]string{"route": "/sessions"}))
	assert.Equal(t, 1.0, sample(t, reg, "sapgui_http_requests_total", map[string]string{"status": "503"}))
	assert.Equal(t, 2.0, sample(t, reg, "sapgui_http_request_duration_seconds", nil))
}

func TestChain(t *testing.T) {
	var order []string
	a := domain.Hooks{
		OnAcquire: func(*domain.HandleEvent) { order = append(order, "a.acquire") },
		OnFault:   func(*domain.FaultEvent) { order = append(order, "a.fault") },
	}
	b := domain.Hooks{
		OnAcquire: func(*domain.HandleEvent) { order = append(order, "b.acquire") },
		OnCall:    func(*domain.CallEvent) { order = append(order, "b.call") },
	}

	h := observability.Chain(a, domain.Hooks{}, b)
	h.OnAcquire(&domain.HandleEvent{})
	h.OnCall(&domain.CallEvent{})
	h.OnFault(&domain.FaultEvent{})
	assert.Nil(t, h.OnRelease)

	assert.Equal(t, []string{"a.acquire", "b.acquire", "b.call", "a.fault"}, order)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mgr := connection.New(memory.NewDemoActivator(), connection.WithHooks(observability.LoggingHooks(logger)))
	require.NoError(t, mgr.Connect(context.Background()))
	require.NoError(t, mgr.Close())

	out := buf.String()
	assert.Contains(t, out, "msg=handle_acquire role=application")
	assert.Contains(t, out, "msg=call op=invoke name=GetScriptingEngine is_error=false")
	assert.Contains(t, out, "msg=handle_release role=engine")
}
