package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/sapgui"
	"github.com/aretw0/sapgui/internal/adapters/file"
	"github.com/aretw0/sapgui/internal/config"
	"github.com/aretw0/sapgui/pkg/access"
	"github.com/aretw0/sapgui/pkg/adapters/com"
	"github.com/aretw0/sapgui/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/sapgui/pkg/adapters/redis"
	"github.com/aretw0/sapgui/pkg/observability"
	"github.com/aretw0/sapgui/pkg/persistence/middleware"
	"github.com/aretw0/sapgui/pkg/ports"
)

// lockPrefix namespaces the GUI access locks in redis.
const lockPrefix = "sapgui:lock:"

type closingActivator interface {
	ports.Activator
	Close() error
}

// newCOMActivator builds the platform bridge used when Fake is off.
var newCOMActivator = func() closingActivator { return com.New() }

// Options selects how the runtime is assembled.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	// Fake swaps the COM bridge for the in-memory demo GUI.
	Fake bool
}

// Runtime is everything a command needs to reach the GUI.
type Runtime struct {
	Client    *sapgui.Client
	Activator ports.Activator
	Store     ports.SnapshotStore
	Metrics   *observability.Metrics
	Registry  *prometheus.Registry
	Logger    *slog.Logger

	closers []func() error
}

// NewRuntime wires the activator, snapshot store, coordinator and metrics
// described by opts.Config.
func NewRuntime(opts Options) (*Runtime, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rt := &Runtime{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}

	rt.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(rt.Registry)
	if err != nil {
		return nil, err
	}
	rt.Metrics = metrics

	if opts.Fake {
		rt.Activator = memory.NewDemoActivator()
		logger.Debug("Using in-memory demo GUI")
	} else {
		activator := newCOMActivator()
		rt.Activator = activator
		rt.closers = append(rt.closers, activator.Close)
	}

	var redisClient *backend.Client
	redisFor := func() *backend.Client {
		if redisClient == nil {
			redisClient = backend.NewClient(&backend.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			rt.closers = append(rt.closers, redisClient.Close)
		}
		return redisClient
	}

	switch cfg.Snapshots.Backend {
	case config.BackendFile:
		rt.Store = file.New(cfg.Snapshots.Dir)
	case config.BackendRedis:
		rt.Store = redisAdapter.NewFromClient(redisFor(),
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
	case config.BackendMemory:
		rt.Store = memory.NewStore()
	default:
		return rt.abandon(fmt.Errorf("unknown snapshot backend %q", cfg.Snapshots.Backend))
	}

	mws, err := storeMiddleware(cfg.Snapshots)
	if err != nil {
		return rt.abandon(err)
	}
	rt.Store = middleware.Wrap(rt.Store, mws...)

	coordOpts := []access.Option{access.WithLogger(logger)}
	if cfg.Lock.Enabled {
		coordOpts = append(coordOpts,
			access.WithLocker(redisAdapter.NewLocker(redisFor(), lockPrefix)),
			access.WithTTL(cfg.Lock.TTL),
		)
	}

	rt.Client = sapgui.New(rt.Activator,
		sapgui.WithApplication(cfg.Application),
		sapgui.WithLogger(logger),
		sapgui.WithHooks(observability.Chain(metrics.Hooks(), observability.LoggingHooks(logger))),
		sapgui.WithCoordinator(access.NewCoordinator(coordOpts...)),
		sapgui.WithStore(rt.Store),
	)
	return rt, nil
}

// storeMiddleware builds masking and sealing from the snapshot settings.
func storeMiddleware(cfg config.SnapshotConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Mask) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Mask)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey == "" {
		return mws, nil
	}

	enc := middleware.EncryptionConfig{}
	key, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("snapshot encryption key: %w", err)
	}
	enc.ActiveKey = key
	for i, s := range cfg.FallbackKeys {
		k, err := middleware.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("snapshot fallback key %d: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, k)
	}
	sealing, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, err
	}
	return append(mws, sealing), nil
}

// abandon closes what was already opened and reports err.
func (rt *Runtime) abandon(err error) (*Runtime, error) {
	if cerr := rt.Close(); cerr != nil {
		rt.Logger.Warn("Cleanup after failed setup was incomplete", "err", cerr)
	}
	return nil, err
}

// Close releases COM and closes network clients.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil
	return errors.Join(errs...)
}
