package runtime

import (
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

type settings struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	name   string
	policy UnderflowPolicy
}

// EngineOption configures an Engine.
type EngineOption func(*settings)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger keeps the default (discard).
func WithLogger(logger *slog.Logger) EngineOption {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithName labels events with the machine name.
func WithName(name string) EngineOption {
	return func(s *settings) {
		s.name = name
	}
}

// WithUnderflowPolicy selects the left-boundary behaviour (default UnderflowAtomic).
func WithUnderflowPolicy(p UnderflowPolicy) EngineOption {
	return func(s *settings) {
		s.policy = p
	}
}
