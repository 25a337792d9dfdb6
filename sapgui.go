package sapgui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/sapgui/internal/logging"
	"github.com/aretw0/sapgui/pkg/access"
	"github.com/aretw0/sapgui/pkg/connection"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/inventory"
	"github.com/aretw0/sapgui/pkg/ports"
)

// Version is the library and CLI version.
const Version = "0.4.0"

// ErrNoStore is returned by snapshot operations when no store is configured.
var ErrNoStore = errors.New("no snapshot store configured")

// Client is the high-level entry point for the library.
// Every operation runs on a fresh connection.Manager under the access
// coordinator, so a Client is safe for concurrent use.
type Client struct {
	activator   ports.Activator
	application string
	logger      *slog.Logger
	hooks       domain.Hooks
	coordinator *access.Coordinator
	store       ports.SnapshotStore
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithApplication overrides the registered name of the GUI root object.
func WithApplication(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.application = name
		}
	}
}

// WithLogger sets a custom structured logger for the client and its managers.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers observability hooks on every manager the client creates.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithCoordinator replaces the default in-process coordinator.
func WithCoordinator(coord *access.Coordinator) Option {
	return func(c *Client) {
		if coord != nil {
			c.coordinator = coord
		}
	}
}

// WithStore enables snapshot persistence.
func WithStore(store ports.SnapshotStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// New creates a Client that resolves the GUI through activator.
func New(activator ports.Activator, opts ...Option) *Client {
	c := &Client{
		activator:   activator,
		application: domain.DefaultApplication,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.coordinator == nil {
		c.coordinator = access.NewCoordinator(access.WithLogger(c.logger))
	}
	return c
}

// Application returns the registered name the client connects to.
func (c *Client) Application() string {
	return c.application
}

// Store returns the configured snapshot store, or nil.
func (c *Client) Store() ports.SnapshotStore {
	return c.store
}

// NewManager builds an unconnected manager with the client's settings.
// The caller owns it and must Close it.
func (c *Client) NewManager() *connection.Manager {
	return connection.New(c.activator,
		connection.WithApplication(c.application),
		connection.WithLogger(c.logger.With("application", c.application)),
		connection.WithHooks(c.hooks),
	)
}

// Sessions reads every session of the first connection.
func (c *Client) Sessions(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := c.coordinator.WithLock(ctx, c.application, func(ctx context.Context) error {
		var err error
		snap, err = inventory.Collect(ctx, c.NewManager())
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Transaction returns the transaction code of the current session.
func (c *Client) Transaction(ctx context.Context) (string, error) {
	var tx string
	err := c.coordinator.WithLock(ctx, c.application, func(ctx context.Context) error {
		var err error
		tx, err = inventory.CurrentTransaction(ctx, c.NewManager())
		return err
	})
	return tx, err
}

// Snapshot reads the sessions and saves them to the store.
func (c *Client) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	if c.store == nil {
		return nil, ErrNoStore
	}
	snap, err := c.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	c.logger.Info("Snapshot saved", "id", snap.ID, "sessions", len(snap.Sessions))
	return snap, nil
}

// Do connects, resolves the current session and runs fn with the manager.
// The manager is closed afterwards; handles fn obtained through the raw
// primitives must be given back with Manager.Release before fn returns.
func (c *Client) Do(ctx context.Context, fn func(ctx context.Context, mgr *connection.Manager) error) error {
	return c.coordinator.WithLock(ctx, c.application, func(ctx context.Context) (err error) {
		mgr := c.NewManager()
		defer func() {
			if cerr := mgr.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to release handles: %w", cerr)
			}
		}()

		if err := mgr.Connect(ctx); err != nil {
			return err
		}
		if err := mgr.FetchCurrentSession(ctx); err != nil {
			return err
		}
		return fn(ctx, mgr)
	})
}
