package turing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/schema"
)

// UnderflowPolicy decides what a left move from tape position 0 leaves behind.
type UnderflowPolicy = runtime.UnderflowPolicy

const (
	// UnderflowAtomic fails the step without applying anything (default).
	UnderflowAtomic = runtime.UnderflowAtomic
	// UnderflowPartial applies the write and state change, then fails the move.
	UnderflowPartial = runtime.UnderflowPartial
)

// ParseUnderflowPolicy maps "atomic" or "partial" to a policy.
func ParseUnderflowPolicy(s string) (UnderflowPolicy, error) {
	switch s {
	case "", "atomic":
		return UnderflowAtomic, nil
	case "partial":
		return UnderflowPartial, nil
	}
	return UnderflowAtomic, fmt.Errorf("unknown underflow policy %q (want atomic or partial)", s)
}

// Engine is the high-level entry point for the turing library.
// It owns a transition table bound to a validated definition and executes it over
// configurations supplied by the caller.
//
// Transitions must be added before the engine is shared: Step and Run only read the
// table, so concurrent runs over distinct configurations are safe once it is complete.
type Engine[S, Q comparable] struct {
	runtime *runtime.Engine[S, Q]
	table   *domain.Table[S, Q]
	logger  *slog.Logger
	Name    string
}

type config struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	name   string
	policy UnderflowPolicy
}

// Option defines a functional option for configuring the Engine.
type Option func(*config)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithName labels logs and lifecycle events with a machine name.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithUnderflowPolicy selects the left-boundary behaviour.
func WithUnderflowPolicy(p UnderflowPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// New validates def and returns an engine with an empty transition table.
func New[S, Q comparable](def *domain.Definition[S, Q], opts ...Option) (*Engine[S, Q], error) {
	table, err := domain.NewTable(def)
	if err != nil {
		return nil, err
	}
	return NewWithTable(table, opts...), nil
}

// NewWithTable wraps an already populated table.
func NewWithTable[S, Q comparable](table *domain.Table[S, Q], opts ...Option) *Engine[S, Q] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.name != "" {
		cfg.logger = cfg.logger.With("machine", cfg.name)
	}

	return &Engine[S, Q]{
		runtime: runtime.NewEngine(table,
			runtime.WithLifecycleHooks(cfg.hooks),
			runtime.WithLogger(cfg.logger),
			runtime.WithName(cfg.name),
			runtime.WithUnderflowPolicy(cfg.policy),
		),
		table:  table,
		logger: cfg.logger,
		Name:   cfg.name,
	}
}

// FromDocument compiles a machine document. The engine is named after the document
// unless WithName overrides it.
func FromDocument(m *schema.Machine, opts ...Option) (*Engine[string, string], error) {
	table, err := m.Compile()
	if err != nil {
		return nil, fmt.Errorf("machine %q: %w", m.ID, err)
	}
	opts = append([]Option{WithName(m.ID)}, opts...)
	return NewWithTable(table, opts...), nil
}

// Load fetches a document by name from loader and compiles it.
func Load(ctx context.Context, loader ports.DefinitionLoader, name string, opts ...Option) (*Engine[string, string], *schema.Machine, error) {
	m, err := loader.Load(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if m.ID == "" {
		m.ID = name
	}
	eng, err := FromDocument(m, opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, m, nil
}

// AddTransition registers delta(read, state) = (write, move, next).
// Invalid rules are rejected with a *domain.TableError and leave the table unchanged.
func (e *Engine[S, Q]) AddTransition(read S, state Q, write S, move domain.Move, next Q) error {
	return e.table.Add(read, state, write, move, next)
}

// Lookup returns the rule for (read, state), if any.
func (e *Engine[S, Q]) Lookup(read S, state Q) (domain.Rule[S, Q], bool) {
	return e.table.Lookup(read, state)
}

// Start creates a fresh configuration over a copy of tape.
func (e *Engine[S, Q]) Start(tape []S) *domain.Configuration[S, Q] {
	return domain.NewConfiguration(e.table.Definition(), tape)
}

// Step executes a single transition on cfg.
func (e *Engine[S, Q]) Step(ctx context.Context, cfg *domain.Configuration[S, Q]) (domain.Record[S, Q], error) {
	return e.runtime.Step(ctx, cfg)
}

// Run steps cfg until it halts or faults, forwarding each record to sink (optional).
func (e *Engine[S, Q]) Run(ctx context.Context, cfg *domain.Configuration[S, Q], sink ports.TraceSink[S, Q]) (*domain.Trace[S, Q], error) {
	return e.runtime.Run(ctx, cfg, sink)
}

// Table returns the underlying transition table.
func (e *Engine[S, Q]) Table() *domain.Table[S, Q] {
	return e.table
}

// Definition returns the validated machine definition.
func (e *Engine[S, Q]) Definition() *domain.Definition[S, Q] {
	return e.table.Definition()
}

// Policy returns the configured underflow policy.
func (e *Engine[S, Q]) Policy() UnderflowPolicy {
	return e.runtime.Policy()
}
