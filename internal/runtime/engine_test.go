package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

func buildTable(t *testing.T) *domain.Table[string, string] {
	t.Helper()
	def := &domain.Definition[string, string]{
		States:   []string{"q", "r", "h"},
		Alphabet: []string{"_", "1"},
		Blank:    "_",
		Initial:  "q",
		Final:    []string{"h"},
	}
	table, err := domain.NewTable(def)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	// q: skip ones to the right, then turn around on the first blank.
	mustAdd(t, table, "1", "q", "1", domain.Right, "q")
	mustAdd(t, table, "_", "q", "1", domain.Left, "r")
	mustAdd(t, table, "1", "r", "1", domain.Right, "h")
	return table
}

func mustAdd(t *testing.T, table *domain.Table[string, string], read, state, write string, move domain.Move, next string) {
	t.Helper()
	if err := table.Add(read, state, write, move, next); err != nil {
		t.Fatalf("Add(%s, %s) failed: %v", read, state, err)
	}
}

func TestEngine_Step(t *testing.T) {
	engine := runtime.NewEngine(buildTable(t))
	cfg := domain.NewConfiguration(engine.Table().Definition(), []string{"1"})

	rec, err := engine.Step(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if rec.Step != 1 || rec.From != "q" || rec.Read != "1" || rec.To != "q" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if cfg.Head != 1 || len(cfg.Tape) != 2 || cfg.Tape[1] != "_" {
		t.Errorf("right move past the end should extend the tape with blank: %+v", cfg)
	}

	rec, err = engine.Step(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second Step failed: %v", err)
	}
	if rec.Read != "_" || rec.Write != "1" || rec.Move != domain.Left || cfg.Head != 0 {
		t.Errorf("unexpected second step: %+v, head %d", rec, cfg.Head)
	}
}

func TestEngine_ReadPastEndDoesNotMutate(t *testing.T) {
	engine := runtime.NewEngine(buildTable(t))
	cfg := &domain.Configuration[string, string]{Tape: []string{"1"}, Head: 3, State: "r"}

	_, err := engine.Step(context.Background(), cfg)
	if !errors.Is(err, domain.ErrNoRule) {
		t.Fatalf("expected ErrNoRule for blank in r, got %v", err)
	}
	if len(cfg.Tape) != 1 || cfg.Head != 3 {
		t.Errorf("a failed lookup must not touch the configuration: %+v", cfg)
	}
}

func TestEngine_UnknownState(t *testing.T) {
	engine := runtime.NewEngine(buildTable(t))
	cfg := &domain.Configuration[string, string]{Tape: []string{"1"}, State: "zz"}

	_, err := engine.Step(context.Background(), cfg)
	var stepErr *domain.StepError
	if !errors.As(err, &stepErr) || !errors.Is(err, domain.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if stepErr.State != "zz" {
		t.Errorf("expected state zz in error, got %v", stepErr.State)
	}
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var steps []int
	var halts, faults int

	hooks := domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			if e.Machine != "ones" || e.Type != domain.EventStep {
				t.Errorf("unexpected event base: %+v", e.EventBase)
			}
			steps = append(steps, e.Step)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			halts++
			if e.State != "h" || e.Steps != 3 {
				t.Errorf("unexpected halt event: %+v", e)
			}
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			faults++
		},
	}

	engine := runtime.NewEngine(buildTable(t), runtime.WithLifecycleHooks(hooks), runtime.WithName("ones"))
	cfg := domain.NewConfiguration(engine.Table().Definition(), []string{"1"})

	trace, err := engine.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if trace.Len() != 3 {
		t.Errorf("expected 3 records, got %d", trace.Len())
	}

	// A second step on a halted configuration must not fire OnHalt again.
	if _, err := engine.Step(context.Background(), cfg); !domain.IsHalted(err) {
		t.Errorf("expected halted error, got %v", err)
	}

	if len(steps) != 3 || steps[0] != 1 || steps[2] != 3 {
		t.Errorf("expected steps [1 2 3], got %v", steps)
	}
	if halts != 1 {
		t.Errorf("expected OnHalt once, got %d", halts)
	}
	if faults != 0 {
		t.Errorf("expected no faults, got %d", faults)
	}
}

func TestEngine_FaultHook(t *testing.T) {
	var got *domain.FaultEvent
	hooks := domain.LifecycleHooks{
		OnFault: func(ctx context.Context, e *domain.FaultEvent) { got = e },
	}
	engine := runtime.NewEngine(buildTable(t), runtime.WithLifecycleHooks(hooks))
	cfg := &domain.Configuration[string, string]{Tape: []string{"_"}, State: "r"}

	_, err := engine.Run(context.Background(), cfg, nil)
	if !errors.Is(err, domain.ErrNoRule) {
		t.Fatalf("expected ErrNoRule, got %v", err)
	}
	if got == nil || !errors.Is(got.Err, domain.ErrNoRule) || got.State != "r" {
		t.Errorf("unexpected fault event: %+v", got)
	}
}

func TestEngine_RunCanceled(t *testing.T) {
	def := &domain.Definition[string, string]{
		States:   []string{"loop", "h"},
		Alphabet: []string{"_"},
		Blank:    "_",
		Initial:  "loop",
		Final:    []string{"h"},
	}
	table, err := domain.NewTable(def)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, table, "_", "loop", "_", domain.Right, "loop")

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	hooks := domain.LifecycleHooks{
		OnStep: func(context.Context, *domain.StepEvent) {
			count++
			if count == 10 {
				cancel()
			}
		},
	}
	engine := runtime.NewEngine(table, runtime.WithLifecycleHooks(hooks))

	trace, err := engine.Run(ctx, domain.NewConfiguration(def, nil), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if trace.Len() != 10 {
		t.Errorf("expected 10 records before cancellation, got %d", trace.Len())
	}
}

func TestEngine_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine := runtime.NewEngine(buildTable(t), runtime.WithLogger(logger))
	if _, err := engine.Run(context.Background(), domain.NewConfiguration(engine.Table().Definition(), []string{"1"}), nil); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"run started", "msg=step", "run halted"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestUnderflowPolicy_String(t *testing.T) {
	if runtime.UnderflowAtomic.String() != "atomic" || runtime.UnderflowPartial.String() != "partial" {
		t.Error("unexpected policy names")
	}
	if runtime.NewEngine(buildTable(t)).Policy() != runtime.UnderflowAtomic {
		t.Error("default policy should be atomic")
	}
}
