package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// UnderflowPolicy decides what a left move from position 0 leaves behind.
type UnderflowPolicy int

const (
	// UnderflowAtomic fails the step without applying its write or state change.
	UnderflowAtomic UnderflowPolicy = iota
	// UnderflowPartial keeps the write and state change and only refuses the move.
	UnderflowPartial
)

func (p UnderflowPolicy) String() string {
	if p == UnderflowPartial {
		return "partial"
	}
	return "atomic"
}

// Engine is the transition engine: it applies delta to a Configuration.
// The table and definition are shared read-only; every run brings its own Configuration.
type Engine[S, Q comparable] struct {
	table  *domain.Table[S, Q]
	def    *domain.Definition[S, Q]
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	name   string
	policy UnderflowPolicy
}

// NewEngine creates an engine over a table built with domain.NewTable.
func NewEngine[S, Q comparable](table *domain.Table[S, Q], opts ...EngineOption) *Engine[S, Q] {
	s := settings{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Engine[S, Q]{
		table:  table,
		def:    table.Definition(),
		hooks:  s.hooks,
		logger: s.logger,
		name:   s.name,
		policy: s.policy,
	}
}

// Table returns the transition table the engine executes.
func (e *Engine[S, Q]) Table() *domain.Table[S, Q] {
	return e.table
}

// Policy returns the configured underflow policy.
func (e *Engine[S, Q]) Policy() UnderflowPolicy {
	return e.policy
}

// Step executes one transition (delta) on cfg.
//
// A final state marks cfg halted and returns ErrHalted without touching tape, head or
// state. Faults (ErrUnknownState, ErrNoRule, ErrHeadUnderflow) leave cfg as it was
// before the failed lookup, except under UnderflowPartial where an underflowing step
// keeps its write and state change. All errors are *domain.StepError.
func (e *Engine[S, Q]) Step(ctx context.Context, cfg *domain.Configuration[S, Q]) (domain.Record[S, Q], error) {
	var rec domain.Record[S, Q]
	from := cfg.State

	if cfg.Halted || e.def.IsFinal(from) {
		if !cfg.Halted {
			cfg.Halted = true
			e.emitHalt(ctx, cfg)
		}
		return rec, &domain.StepError{Err: domain.ErrHalted, State: from}
	}

	if !e.def.HasState(from) {
		return rec, e.fault(ctx, cfg, &domain.StepError{Err: domain.ErrUnknownState, State: from})
	}

	scanned := cfg.Read(e.def.Blank)
	rule, ok := e.table.Lookup(scanned, from)
	if !ok {
		return rec, e.fault(ctx, cfg, &domain.StepError{Err: domain.ErrNoRule, State: from, Symbol: scanned})
	}

	if err := cfg.Apply(rule, e.def.Blank, e.policy == UnderflowPartial); err != nil {
		return rec, e.fault(ctx, cfg, &domain.StepError{Err: err, State: from, Symbol: scanned})
	}

	rec = domain.Record[S, Q]{
		Step:  cfg.Steps,
		From:  from,
		Read:  scanned,
		Write: rule.Write,
		Move:  rule.Move,
		To:    rule.Next,
	}

	e.logger.Debug("step",
		"step", rec.Step,
		"from", fmt.Sprint(rec.From),
		"read", fmt.Sprint(rec.Read),
		"write", fmt.Sprint(rec.Write),
		"move", string(rec.Move),
		"to", fmt.Sprint(rec.To),
		"head", cfg.Head,
	)

	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: e.base(domain.EventStep),
			Step:      rec.Step,
			From:      fmt.Sprint(rec.From),
			Read:      fmt.Sprint(rec.Read),
			Write:     fmt.Sprint(rec.Write),
			Move:      rec.Move,
			To:        fmt.Sprint(rec.To),
			Head:      cfg.Head,
		})
	}

	return rec, nil
}

// Run steps cfg until it halts or faults.
// Every record is appended to the returned trace and then handed to sink (which may be nil).
// Halting is success. Any other step error stops the run and is returned together with
// the trace recorded so far. The engine imposes no step bound; ctx cancellation is
// checked between steps.
func (e *Engine[S, Q]) Run(ctx context.Context, cfg *domain.Configuration[S, Q], sink ports.TraceSink[S, Q]) (*domain.Trace[S, Q], error) {
	trace := &domain.Trace[S, Q]{}
	e.logger.Info("run started", "state", fmt.Sprint(cfg.State), "tape_len", len(cfg.Tape))

	for {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("run canceled", "steps", trace.Len(), "error", err)
			return trace, err
		}

		rec, err := e.Step(ctx, cfg)
		if err != nil {
			if domain.IsHalted(err) {
				e.logger.Info("run halted", "steps", trace.Len(), "state", fmt.Sprint(cfg.State))
				return trace, nil
			}
			e.logger.Error("run failed", "steps", trace.Len(), "error", err)
			return trace, err
		}

		trace.Append(rec)
		if sink != nil {
			sink.Record(ctx, rec)
		}
	}
}

func (e *Engine[S, Q]) fault(ctx context.Context, cfg *domain.Configuration[S, Q], err *domain.StepError) error {
	if e.hooks.OnFault != nil {
		e.hooks.OnFault(ctx, &domain.FaultEvent{
			EventBase: e.base(domain.EventFault),
			Steps:     cfg.Steps,
			State:     fmt.Sprint(err.State),
			Err:       err,
		})
	}
	return err
}

func (e *Engine[S, Q]) emitHalt(ctx context.Context, cfg *domain.Configuration[S, Q]) {
	if e.hooks.OnHalt != nil {
		e.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase: e.base(domain.EventHalt),
			Steps:     cfg.Steps,
			State:     fmt.Sprint(cfg.State),
		})
	}
}

func (e *Engine[S, Q]) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Machine:   e.name,
	}
}
