package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unaryDoc = `
states: [A, B, C, HALT]
alphabet: [0, 1]
blank: 0
input: [1]
initial: A
final: [HALT]
tape: [0, 1, 0, 1, 0, 1]
transitions:
  - {read: 0, state: A, write: 1, move: R, next: B}
  - {read: 1, state: A, write: 1, move: L, next: C}
  - {read: 0, state: B, write: 1, move: L, next: A}
  - {read: 1, state: B, write: 1, move: R, next: B}
  - {read: 0, state: C, write: 1, move: L, next: B}
  - {read: 1, state: C, write: 1, move: R, next: HALT}
`

const loopDoc = `
states: [loop, done]
alphabet: [_]
blank: _
initial: loop
final: [done]
transitions:
  - {read: _, state: loop, write: _, move: R, next: loop}
`

func catalog(t *testing.T) *runner.Catalog {
	t.Helper()
	loader, err := memory.NewFromDocuments(map[string]string{
		"unary": unaryDoc,
		"loop":  loopDoc,
	})
	require.NoError(t, err)
	return runner.NewCatalog(loader)
}

func TestRunner_Halts(t *testing.T) {
	eng, doc, err := catalog(t).Get(context.Background(), "unary")
	require.NoError(t, err)

	cfg := eng.Start(doc.TapeSymbols())
	res, err := runner.New(eng, runner.WithMaxSteps(100)).Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.True(t, res.Halted())
	assert.Equal(t, 5, res.Trace.Len())
	assert.Equal(t, []string{"1", "1", "1", "1", "0", "1"}, res.Configuration.Tape)
}

func TestRunner_StepLimit(t *testing.T) {
	eng, _, err := catalog(t).Get(context.Background(), "loop")
	require.NoError(t, err)

	res, err := runner.New(eng, runner.WithMaxSteps(25)).Run(context.Background(), eng.Start(nil), nil)
	require.ErrorIs(t, err, runner.ErrStepLimit)
	assert.Equal(t, runner.OutcomeStepLimit, res.Outcome)
	assert.Equal(t, 25, res.Trace.Len())
	assert.Equal(t, 25, res.Configuration.Head)
}

func TestRunner_StepLimitOnHaltingStep(t *testing.T) {
	eng, doc, err := catalog(t).Get(context.Background(), "unary")
	require.NoError(t, err)

	// The fifth transition enters HALT, so a limit of exactly 5 still halts.
	res, err := runner.New(eng, runner.WithMaxSteps(5)).Run(context.Background(), eng.Start(doc.TapeSymbols()), nil)
	require.NoError(t, err)
	assert.True(t, res.Halted())

	res, err = runner.New(eng, runner.WithMaxSteps(4)).Run(context.Background(), eng.Start(doc.TapeSymbols()), nil)
	assert.ErrorIs(t, err, runner.ErrStepLimit)
	assert.Equal(t, 4, res.Trace.Len())
}

func TestRunner_Timeout(t *testing.T) {
	eng, _, err := catalog(t).Get(context.Background(), "loop")
	require.NoError(t, err)

	res, err := runner.New(eng, runner.WithTimeout(20*time.Millisecond)).Run(context.Background(), eng.Start(nil), nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, runner.OutcomeTimeout, res.Outcome)
	assert.Greater(t, res.Trace.Len(), 0)
}

func TestRunner_Fault(t *testing.T) {
	def := &domain.Definition[string, string]{
		States: []string{"q", "h"}, Alphabet: []string{"_"}, Blank: "_", Initial: "q", Final: []string{"h"},
	}
	eng, err := turing.New(def)
	require.NoError(t, err)

	res, err := runner.New(eng).Run(context.Background(), eng.Start(nil), nil)
	assert.True(t, errors.Is(err, domain.ErrNoRule))
	assert.Equal(t, runner.OutcomeFault, res.Outcome)
	assert.Equal(t, err, res.Err)
}

func TestCatalog_CachesAndInvalidates(t *testing.T) {
	cat := catalog(t)
	ctx := context.Background()

	first, _, err := cat.Get(ctx, "unary")
	require.NoError(t, err)
	second, _, err := cat.Get(ctx, "unary")
	require.NoError(t, err)
	assert.Same(t, first, second)

	cat.Invalidate("unary")
	third, _, err := cat.Get(ctx, "unary")
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	_, _, err = cat.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)

	names, err := cat.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"loop", "unary"}, names)

	watched, err := cat.Watch(ctx)
	assert.NoError(t, err)
	assert.False(t, watched, "memory loader is not watchable")
}

func TestTextSink(t *testing.T) {
	eng, doc, err := catalog(t).Get(context.Background(), "unary")
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg := eng.Start(doc.TapeSymbols())
	sink := runner.NewTextSink(&buf, cfg, termenv.WithProfile(termenv.Ascii))
	sink.Initial()

	_, err = runner.New(eng).Run(context.Background(), cfg, sink)
	require.NoError(t, err)
	require.NoError(t, sink.Err())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7, "header, initial row and five steps")
	assert.Contains(t, lines[0], "tape")
	assert.Contains(t, lines[1], "[0] 1 0 1 0 1")
	assert.Contains(t, lines[2], "A,0 -> 1,R,B")
	assert.Contains(t, lines[2], "1 [1] 0 1 0 1")
	assert.Contains(t, lines[6], "C,1 -> 1,R,HALT")
	assert.Contains(t, lines[6], "1 [1] 1 1 0 1")
}

func TestJSONSink(t *testing.T) {
	eng, doc, err := catalog(t).Get(context.Background(), "unary")
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg := eng.Start(doc.TapeSymbols())
	sink := runner.NewJSONSink(&buf, cfg)

	_, err = runner.New(eng).Run(context.Background(), cfg, sink)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, float64(1), first["step"])
	assert.Equal(t, "A", first["state_before"])
	assert.Equal(t, "0", first["symbol_read"])
	assert.Equal(t, "1", first["symbol_written"])
	assert.Equal(t, "R", first["move"])
	assert.Equal(t, "B", first["state_after"])
	assert.Equal(t, float64(1), first["head"])
	assert.Len(t, first["tape"], 6)
}

func TestReport(t *testing.T) {
	eng, doc, err := catalog(t).Get(context.Background(), "unary")
	require.NoError(t, err)

	res, err := runner.New(eng).Run(context.Background(), eng.Start(doc.TapeSymbols()), nil)
	require.NoError(t, err)

	md := runner.Report("unary", res)
	assert.Contains(t, md, "# unary")
	assert.Contains(t, md, "| halted | 5 | `HALT` | 1 |")
	assert.Contains(t, md, "1 [1] 1 1 0 1")
	assert.Contains(t, md, "| 5 | `C` | `1` | `1` | R | `HALT` |")
}

func TestReport_TruncatesLongTraces(t *testing.T) {
	eng, _, err := catalog(t).Get(context.Background(), "loop")
	require.NoError(t, err)

	res, _ := runner.New(eng, runner.WithMaxSteps(100)).Run(context.Background(), eng.Start(nil), nil)
	md := runner.Report("loop", res)

	assert.Contains(t, md, "step_limit")
	assert.Contains(t, md, "| … |")
	assert.Equal(t, runner.ReportRows, strings.Count(md, "| `_` | `_` |"))
}
