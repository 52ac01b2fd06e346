package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMachine(t *testing.T, hooks domain.LifecycleHooks, tape []string) error {
	t.Helper()
	def := &domain.Definition[string, string]{
		States:   []string{"q", "h"},
		Alphabet: []string{"_", "1"},
		Blank:    "_",
		Initial:  "q",
		Final:    []string{"h"},
	}
	eng, err := turing.New(def, turing.WithName("ones"), turing.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	require.NoError(t, eng.AddTransition("1", "q", "1", domain.Right, "q"))
	require.NoError(t, eng.AddTransition("_", "q", "_", domain.Right, "h"))

	_, err = eng.Run(context.Background(), eng.Start(tape), nil)
	return err
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()

	require.NoError(t, runMachine(t, m.Hooks(), []string{"1", "1"}))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Steps.WithLabelValues("ones", "q")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("ones", "halted")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `turing_steps_total{machine="ones",state="q"} 3`)
	assert.Contains(t, rec.Body.String(), "turing_run_steps_count")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", observability.Outcome(nil))
	assert.Equal(t, "halted", observability.Outcome(&domain.StepError{Err: domain.ErrHalted}))
	assert.Equal(t, "no_rule", observability.Outcome(&domain.StepError{Err: domain.ErrNoRule}))
	assert.Equal(t, "underflow", observability.Outcome(&domain.StepError{Err: domain.ErrHeadUnderflow}))
	assert.Equal(t, "unknown_state", observability.Outcome(&domain.StepError{Err: domain.ErrUnknownState}))
	assert.Equal(t, "error", observability.Outcome(context.Canceled))
}

func TestCombine_AndLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var steps int
	counting := domain.LifecycleHooks{
		OnStep: func(context.Context, *domain.StepEvent) { steps++ },
	}

	hooks := observability.Combine(counting, observability.LogHooks(logger), domain.LifecycleHooks{})
	require.NoError(t, runMachine(t, hooks, []string{"1"}))

	assert.Equal(t, 2, steps)
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "msg=transition"))
	assert.Contains(t, out, "machine halted")
}
