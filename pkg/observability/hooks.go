package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LogHooks returns hooks that write an audit trail of the run to logger.
// Steps are logged at debug level, halts at info and faults at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "transition",
				"machine", e.Machine,
				"step", e.Step,
				"from", e.From,
				"read", e.Read,
				"write", e.Write,
				"move", string(e.Move),
				"to", e.To,
				"head", e.Head,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "machine halted", "machine", e.Machine, "state", e.State, "steps", e.Steps)
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			logger.WarnContext(ctx, "machine fault", "machine", e.Machine, "state", e.State, "steps", e.Steps, "error", e.Err)
		},
	}
}

// Combine merges hook sets; each callback invokes the non-nil callbacks of every set
// in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		h := h
		if h.OnStep != nil {
			prev := out.OnStep
			out.OnStep = func(ctx context.Context, e *domain.StepEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnStep(ctx, e)
			}
		}
		if h.OnHalt != nil {
			prev := out.OnHalt
			out.OnHalt = func(ctx context.Context, e *domain.HaltEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnHalt(ctx, e)
			}
		}
		if h.OnFault != nil {
			prev := out.OnFault
			out.OnFault = func(ctx context.Context, e *domain.FaultEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnFault(ctx, e)
			}
		}
	}
	return out
}
