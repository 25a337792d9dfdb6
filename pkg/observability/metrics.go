package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sapgui"

// Metrics holds the collectors fed by connection hooks.
type Metrics struct {
	acquired     *prometheus.CounterVec
	released     *prometheus.CounterVec
	live         prometheus.Gauge
	calls        *prometheus.CounterVec
	faults       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		acquired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handles_acquired_total",
				Help:      "Foreign object handles acquired, by role.",
			},
			[]string{"role"},
		),
		released: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handles_released_total",
				Help:      "Foreign object handles released, by role.",
			},
			[]string{"role"},
		),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "handles_live",
			Help:      "Foreign object handles currently held.",
		}),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Reflective calls on foreign objects.",
			},
			[]string{"op", "outcome"},
		),
		faults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faults_total",
				Help:      "Connection faults, by phase.",
			},
			[]string{"phase"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.acquired, m.released, m.live, m.calls, m.faults, m.httpRequests, m.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns the hook set that records into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnAcquire: func(e *domain.HandleEvent) {
			m.acquired.WithLabelValues(string(e.Role)).Inc()
			m.live.Inc()
		},
		OnRelease: func(e *domain.HandleEvent) {
			m.released.WithLabelValues(string(e.Role)).Inc()
			m.live.Dec()
		},
		OnCall: func(e *domain.CallEvent) {
			m.calls.WithLabelValues(string(e.Op), outcome(e.Err)).Inc()
		},
		OnFault: func(e *domain.FaultEvent) {
			m.faults.WithLabelValues(string(e.Phase)).Inc()
		},
	}
}

// RecordHTTPRequest observes one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	statusLabel := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	m.httpDuration.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
