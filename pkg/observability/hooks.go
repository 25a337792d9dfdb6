package observability

import (
	"log/slog"

	"github.com/aretw0/sapgui/pkg/domain"
)

// Chain merges hook sets. Each event reaches every non-nil callback in order.
func Chain(sets ...domain.Hooks) domain.Hooks {
	var out domain.Hooks
	for _, h := range sets {
		out.OnAcquire = chainHandle(out.OnAcquire, h.OnAcquire)
		out.OnRelease = chainHandle(out.OnRelease, h.OnRelease)
		out.OnCall = chainCall(out.OnCall, h.OnCall)
		out.OnFault = chainFault(out.OnFault, h.OnFault)
	}
	return out
}

// LoggingHooks logs handle and call events at debug level and faults at warn.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnAcquire: func(e *domain.HandleEvent) {
			logger.Debug("handle_acquire", "role", e.Role)
		},
		OnRelease: func(e *domain.HandleEvent) {
			if e.Err != nil {
				logger.Warn("handle_release", "role", e.Role, "err", e.Err)
				return
			}
			logger.Debug("handle_release", "role", e.Role)
		},
		OnCall: func(e *domain.CallEvent) {
			logger.Debug("call", "op", e.Op, "name", e.Name, "is_error", e.Err != nil)
		},
		OnFault: func(e *domain.FaultEvent) {
			logger.Warn("fault", "phase", e.Phase, "err", e.Err)
		},
	}
}

func chainHandle(a, b func(*domain.HandleEvent)) func(*domain.HandleEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *domain.HandleEvent) { a(e); b(e) }
}

func chainCall(a, b func(*domain.CallEvent)) func(*domain.CallEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *domain.CallEvent) { a(e); b(e) }
}

func chainFault(a, b func(*domain.FaultEvent)) func(*domain.FaultEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *domain.FaultEvent) { a(e); b(e) }
}
