package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sapgui"
	"github.com/aretw0/sapgui/internal/logging"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/observability"
	"github.com/aretw0/sapgui/pkg/ports"
)

// Service is the GUI access the API exposes. *sapgui.Client implements it.
type Service interface {
	Application() string
	Sessions(ctx context.Context) (*domain.Snapshot, error)
	Transaction(ctx context.Context) (string, error)
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Store() ports.SnapshotStore
}

var _ Service = (*sapgui.Client)(nil)

// Server serves the sapgui HTTP API.
type Server struct {
	Service  Service
	Streams  *StreamManager
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records request metrics into m and serves gatherer on /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/sessions", s.GetSessions)
	r.Get("/transaction", s.GetTransaction)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.ListSnapshots)
		r.Post("/", s.CreateSnapshot)
		r.Get("/{id}", s.GetSnapshot)
		r.Delete("/{id}", s.DeleteSnapshot)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// unmatchedRoute labels requests no route pattern matched, keeping the
// metric label set bounded.
const unmatchedRoute = "unmatched"

// observe logs every request and records it when metrics are enabled.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug("HTTP request", "method", r.Method, "route", route, "path", r.URL.Path, "status", status)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		}
	})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "sapgui-http",
		"version":     sapgui.Version,
		"application": s.Service.Application(),
	}, s.logger)
}

// GetSessions handles the GET /sessions request. Every call reads the GUI afresh.
func (s *Server) GetSessions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Service.Sessions(r.Context())
	if err != nil {
		s.fail(w, "GetSessions", err)
		return
	}
	writeJSON(w, http.StatusOK, snap, s.logger)
}

// GetTransaction handles the GET /transaction request.
func (s *Server) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.Service.Transaction(r.Context())
	if err != nil {
		s.fail(w, "GetTransaction", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transaction": tx}, s.logger)
}

// ListSnapshots handles the GET /snapshots request.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	store := s.Service.Store()
	if store == nil {
		s.fail(w, "ListSnapshots", sapgui.ErrNoStore)
		return
	}
	ids, err := store.List(r.Context())
	if err != nil {
		s.fail(w, "ListSnapshots", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids, s.logger)
}

// CreateSnapshot handles the POST /snapshots request.
func (s *Server) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Service.Snapshot(r.Context())
	if err != nil {
		s.fail(w, "CreateSnapshot", err)
		return
	}
	if bytes, err := json.Marshal(snapshotEvent{Type: "snapshot_saved", ID: snap.ID}); err == nil {
		s.Streams.Broadcast(s.Service.Application(), string(bytes))
	}
	w.Header().Set("Location", "/snapshots/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap, s.logger)
}

// GetSnapshot handles the GET /snapshots/{id} request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	store := s.Service.Store()
	if store == nil {
		s.fail(w, "GetSnapshot", sapgui.ErrNoStore)
		return
	}
	snap, err := store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSnapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, snap, s.logger)
}

// DeleteSnapshot handles the DELETE /snapshots/{id} request.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	store := s.Service.Store()
	if store == nil {
		s.fail(w, "DeleteSnapshot", sapgui.ErrNoStore)
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteSnapshot", err)
		return
	}
	if bytes, err := json.Marshal(snapshotEvent{Type: "snapshot_deleted", ID: id}); err == nil {
		s.Streams.Broadcast(s.Service.Application(), string(bytes))
	}
	w.WriteHeader(http.StatusNoContent)
}

type snapshotEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Phase string `json:"phase,omitempty"`
}

// fail maps err onto a status code and writes it as JSON.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	var gerr *domain.Error
	if errors.As(err, &gerr) {
		resp.Phase = string(gerr.Phase)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(fmt.Sprintf("%s failed", op), "err", err, "status", status)
	} else {
		s.logger.Warn(fmt.Sprintf("%s rejected", op), "err", err, "status", status)
	}
	writeJSON(w, status, resp, s.logger)
}

func statusFor(err error) int {
	var gerr *domain.Error
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSnapshotID):
		return http.StatusBadRequest
	case errors.Is(err, sapgui.ErrNoStore):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.As(err, &gerr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
