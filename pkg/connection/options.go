package connection

import (
	"log/slog"

	"github.com/aretw0/sapgui/pkg/domain"
)

// Option configures the Manager.
type Option func(*Manager)

// WithApplication overrides the name the root object is registered under.
func WithApplication(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.application = name
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// Factory creates a fresh Manager per unit of work.
type Factory func() *Manager
