package runner

import (
	"log/slog"
	"time"
)

type settings struct {
	maxSteps int
	timeout  time.Duration
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Runner.
type Option func(*settings)

// WithMaxSteps stops a run with ErrStepLimit after n executed transitions.
// Zero means unbounded.
func WithMaxSteps(n int) Option {
	return func(s *settings) {
		s.maxSteps = n
	}
}

// WithTimeout bounds the wall-clock duration of a run. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
