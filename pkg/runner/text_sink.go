package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

const headColor = "#5A56E0"

// TextSink renders each transition as one table row followed by the tape, with the
// head cell bracketed (and highlighted when the output supports colour).
// It reads the tape from cfg, which the engine has already updated when Record runs.
type TextSink[S, Q comparable] struct {
	mu     sync.Mutex
	out    *termenv.Output
	cfg    *domain.Configuration[S, Q]
	header bool
	err    error
}

// NewTextSink writes to w. Options are passed to termenv (e.g. termenv.WithProfile).
func NewTextSink[S, Q comparable](w io.Writer, cfg *domain.Configuration[S, Q], opts ...termenv.OutputOption) *TextSink[S, Q] {
	return &TextSink[S, Q]{
		out: termenv.NewOutput(w, opts...),
		cfg: cfg,
	}
}

// Initial writes the header and the configuration before the first step.
func (t *TextSink[S, Q]) Initial() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeHeader()
	t.printf("%5d  %-22s | %s\n", 0, fmt.Sprintf("start in %v", t.cfg.State), t.tape())
}

// Record implements ports.TraceSink.
func (t *TextSink[S, Q]) Record(ctx context.Context, rec domain.Record[S, Q]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeHeader()
	rule := fmt.Sprintf("%v,%v -> %v,%s,%v", rec.From, rec.Read, rec.Write, rec.Move, rec.To)
	t.printf("%5d  %-22s | %s\n", rec.Step, rule, t.tape())
}

// Err returns the first write error, if any.
func (t *TextSink[S, Q]) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *TextSink[S, Q]) writeHeader() {
	if t.header {
		return
	}
	t.header = true
	t.printf("%5s  %-22s | %s\n", "step", "state,read -> write", "tape")
}

func (t *TextSink[S, Q]) tape() string {
	cells := make([]string, 0, len(t.cfg.Tape)+1)
	for i, s := range t.cfg.Tape {
		cells = append(cells, t.cell(i, fmt.Sprint(s)))
	}
	if t.cfg.Head >= len(t.cfg.Tape) {
		cells = append(cells, t.cell(t.cfg.Head, "."))
	}
	return strings.Join(cells, " ")
}

func (t *TextSink[S, Q]) cell(i int, sym string) string {
	if i != t.cfg.Head {
		return sym
	}
	return t.out.String("[" + sym + "]").Bold().Foreground(t.out.Color(headColor)).String()
}

func (t *TextSink[S, Q]) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.out, format, args...)
}
