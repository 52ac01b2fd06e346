package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/schema"
)

// Builder manages the machine construction.
type Builder struct {
	doc    schema.Machine
	states map[string]*StateBuilder
}

// New creates a new machine builder.
func New(id string) *Builder {
	return &Builder{
		doc:    schema.Machine{ID: id},
		states: make(map[string]*StateBuilder),
	}
}

// Describe sets the document description.
func (b *Builder) Describe(text string) *Builder {
	b.doc.Description = text
	return b
}

// Alphabet appends symbols to the tape alphabet.
func (b *Builder) Alphabet(symbols ...string) *Builder {
	b.doc.Alphabet = append(b.doc.Alphabet, scalars(symbols)...)
	return b
}

// Blank sets the blank symbol.
func (b *Builder) Blank(symbol string) *Builder {
	b.doc.Blank = schema.Scalar(symbol)
	return b
}

// Input appends symbols to the input alphabet.
func (b *Builder) Input(symbols ...string) *Builder {
	b.doc.Input = append(b.doc.Input, scalars(symbols)...)
	return b
}

// Tape sets the initial tape stored with the document.
func (b *Builder) Tape(symbols ...string) *Builder {
	b.doc.Tape = scalars(symbols)
	return b
}

// State declares a state, or returns the existing builder if it was already mentioned.
func (b *Builder) State(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, builder: b}
	b.states[name] = sb
	b.doc.States = append(b.doc.States, schema.Scalar(name))
	return sb
}

// Document returns a copy of the machine document built so far.
func (b *Builder) Document() *schema.Machine {
	doc := b.doc
	doc.States = append([]schema.Scalar(nil), b.doc.States...)
	doc.Alphabet = append([]schema.Scalar(nil), b.doc.Alphabet...)
	doc.Input = append([]schema.Scalar(nil), b.doc.Input...)
	doc.Final = append([]schema.Scalar(nil), b.doc.Final...)
	doc.Tape = append([]schema.Scalar(nil), b.doc.Tape...)
	doc.Transitions = append([]schema.Transition(nil), b.doc.Transitions...)
	return &doc
}

// Build compiles the document and returns a loader serving it.
func (b *Builder) Build() (*memory.Loader, error) {
	doc := b.Document()
	if _, err := doc.Compile(); err != nil {
		return nil, fmt.Errorf("failed to build machine %s: %w", doc.ID, err)
	}

	loader, err := memory.NewLoader(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

func scalars(in []string) []schema.Scalar {
	out := make([]schema.Scalar, len(in))
	for i, s := range in {
		out[i] = schema.Scalar(s)
	}
	return out
}
