package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// TraceSink receives each executed transition of a run, in step order.
// Record must not block the run for long and cannot fail it: delivery problems are
// the sink's own concern.
type TraceSink[S, Q comparable] interface {
	Record(ctx context.Context, rec domain.Record[S, Q])
}

// SinkFunc adapts a function to TraceSink.
type SinkFunc[S, Q comparable] func(ctx context.Context, rec domain.Record[S, Q])

// Record calls f(ctx, rec).
func (f SinkFunc[S, Q]) Record(ctx context.Context, rec domain.Record[S, Q]) {
	f(ctx, rec)
}

// Tee fans a record out to several sinks, skipping nil entries.
func Tee[S, Q comparable](sinks ...TraceSink[S, Q]) TraceSink[S, Q] {
	return SinkFunc[S, Q](func(ctx context.Context, rec domain.Record[S, Q]) {
		for _, s := range sinks {
			if s != nil {
				s.Record(ctx, rec)
			}
		}
	})
}
