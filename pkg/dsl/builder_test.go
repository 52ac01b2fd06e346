package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
)

func unary() *Builder {
	b := New("unary").Alphabet("0", "1").Blank("0").Tape("0", "1", "0", "1", "0", "1")

	b.State("A").Initial().
		On("0").Write("1").Right().Go("B").
		On("1").Left().Go("C")
	b.State("B").
		On("0").Write("1").Left().Go("A").
		On("1").Right().Go("B")
	b.State("C").
		On("0").Write("1").Left().Go("B").
		On("1").Right().Go("HALT")
	b.State("HALT").Final()
	return b
}

func TestBuilder_Unary(t *testing.T) {
	// 1. Build the machine using DSL
	loader, err := unary().Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 2. Load and run it like any other document
	eng, doc, err := turing.Load(context.Background(), loader, "unary")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cfg := eng.Start(doc.TapeSymbols())
	trace, err := eng.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if trace.Len() != 5 {
		t.Errorf("Expected 5 steps, got %d", trace.Len())
	}
	if cfg.State != "HALT" || cfg.Head != 1 {
		t.Errorf("Expected HALT at head 1, got %s at %d", cfg.State, cfg.Head)
	}
	want := []string{"1", "1", "1", "1", "0", "1"}
	for i, s := range want {
		if cfg.Tape[i] != s {
			t.Fatalf("Expected tape %v, got %v", want, cfg.Tape)
		}
	}
}

func TestBuilder_Document(t *testing.T) {
	doc := unary().Document()

	states := []schema.Scalar{"A", "B", "C", "HALT"}
	if len(doc.States) != len(states) {
		t.Fatalf("Expected states %v, got %v", states, doc.States)
	}
	for i, q := range states {
		if doc.States[i] != q {
			t.Errorf("Expected state %d to be %s, got %s", i, q, doc.States[i])
		}
	}
	if doc.Initial != "A" {
		t.Errorf("Expected initial state A, got %s", doc.Initial)
	}
	if len(doc.Transitions) != 6 {
		t.Fatalf("Expected 6 transitions, got %d", len(doc.Transitions))
	}

	// On("1").Left() in A keeps the scanned symbol.
	row := doc.Transitions[1]
	if row.Read != "1" || row.Write != "1" || row.Move != "L" || row.Next != "C" {
		t.Errorf("Unexpected row %+v", row)
	}
}

func TestBuilder_FinalIsIdempotent(t *testing.T) {
	b := unary()
	b.State("HALT").Final()
	if n := len(b.Document().Final); n != 1 {
		t.Errorf("Expected 1 final state, got %d", n)
	}
}

func TestBuilder_Invalid(t *testing.T) {
	b := New("broken").Alphabet("0", "1").Blank("_")
	b.State("A").Initial().On("0").Right().Go("A")

	_, err := b.Build()
	if err == nil {
		t.Fatal("Expected an error for a blank outside the alphabet")
	}
	var defErr *domain.DefinitionError
	if !errors.As(err, &defErr) || defErr.Kind != domain.BlankNotInAlphabet {
		t.Errorf("Expected BlankNotInAlphabet, got %v", err)
	}
}
