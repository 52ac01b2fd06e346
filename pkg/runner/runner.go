package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// ErrStepLimit is returned when a run exceeds the configured maximum step count.
var ErrStepLimit = errors.New("step limit reached")

// Outcome summarises how a run ended.
type Outcome string

const (
	OutcomeHalted    Outcome = "halted"
	OutcomeFault     Outcome = "fault"
	OutcomeStepLimit Outcome = "step_limit"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeCanceled  Outcome = "canceled"
)

// Result is the outcome of a bounded run. It is returned even when the run fails.
type Result[S, Q comparable] struct {
	Trace         *domain.Trace[S, Q]
	Configuration *domain.Configuration[S, Q]
	Outcome       Outcome
	Err           error
	Duration      time.Duration
}

// Halted reports whether the machine reached a final state.
func (r *Result[S, Q]) Halted() bool {
	return r.Outcome == OutcomeHalted
}

// Runner executes an engine under step and time limits.
type Runner[S, Q comparable] struct {
	engine   *turing.Engine[S, Q]
	maxSteps int
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Runner for eng.
func New[S, Q comparable](eng *turing.Engine[S, Q], opts ...Option) *Runner[S, Q] {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner[S, Q]{
		engine:   eng,
		maxSteps: s.maxSteps,
		timeout:  s.timeout,
		logger:   s.logger,
	}
}

// Engine returns the engine being driven.
func (r *Runner[S, Q]) Engine() *turing.Engine[S, Q] {
	return r.engine
}

// Run executes cfg until it halts, faults or hits a limit.
// The returned error is nil only when the machine halted; it matches ErrStepLimit,
// context.DeadlineExceeded, context.Canceled or one of the domain step errors otherwise.
func (r *Runner[S, Q]) Run(ctx context.Context, cfg *domain.Configuration[S, Q], sink ports.TraceSink[S, Q]) (*Result[S, Q], error) {
	start := time.Now()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	def := r.engine.Definition()
	count := 0
	bounded := ports.SinkFunc[S, Q](func(ctx context.Context, rec domain.Record[S, Q]) {
		if sink != nil {
			sink.Record(ctx, rec)
		}
		count++
		// A transition into a final state still gets to report the halt.
		if r.maxSteps > 0 && count >= r.maxSteps && !def.IsFinal(rec.To) {
			cancel(ErrStepLimit)
		}
	})

	trace, err := r.engine.Run(ctx, cfg, bounded)
	res := &Result[S, Q]{
		Trace:         trace,
		Configuration: cfg,
		Duration:      time.Since(start),
	}

	switch {
	case err == nil:
		res.Outcome = OutcomeHalted
	case errors.Is(context.Cause(ctx), ErrStepLimit):
		err = fmt.Errorf("%w (%d)", ErrStepLimit, r.maxSteps)
		res.Outcome = OutcomeStepLimit
	case errors.Is(err, context.DeadlineExceeded):
		res.Outcome = OutcomeTimeout
	case errors.Is(err, context.Canceled):
		res.Outcome = OutcomeCanceled
	default:
		res.Outcome = OutcomeFault
	}
	res.Err = err

	r.logger.Info("run finished",
		"machine", r.engine.Name,
		"outcome", string(res.Outcome),
		"steps", trace.Len(),
		"duration", res.Duration,
	)
	return res, err
}
