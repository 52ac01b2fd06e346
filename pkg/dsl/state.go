package dsl

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
)

// StateBuilder provides a fluent API for configuring a state and its rules.
type StateBuilder struct {
	name    string
	builder *Builder
}

// Initial marks the state as the initial state.
func (s *StateBuilder) Initial() *StateBuilder {
	s.builder.doc.Initial = schema.Scalar(s.name)
	return s
}

// Final adds the state to the final states.
func (s *StateBuilder) Final() *StateBuilder {
	for _, q := range s.builder.doc.Final {
		if string(q) == s.name {
			return s
		}
	}
	s.builder.doc.Final = append(s.builder.doc.Final, schema.Scalar(s.name))
	return s
}

// On starts the rule for the scanned symbol in this state.
func (s *StateBuilder) On(read string) *RuleBuilder {
	return &RuleBuilder{
		state: s,
		row: schema.Transition{
			Read:  schema.Scalar(read),
			State: schema.Scalar(s.name),
			Write: schema.Scalar(read),
		},
	}
}

// RuleBuilder configures one transition row. It is finished by Go.
type RuleBuilder struct {
	state *StateBuilder
	row   schema.Transition
}

// Write sets the symbol written over the scanned cell.
func (r *RuleBuilder) Write(symbol string) *RuleBuilder {
	r.row.Write = schema.Scalar(symbol)
	return r
}

// Move sets the head movement.
func (r *RuleBuilder) Move(m domain.Move) *RuleBuilder {
	r.row.Move = string(m)
	return r
}

// Left moves the head one cell to the left.
func (r *RuleBuilder) Left() *RuleBuilder {
	return r.Move(domain.Left)
}

// Right moves the head one cell to the right.
func (r *RuleBuilder) Right() *RuleBuilder {
	return r.Move(domain.Right)
}

// Go sets the next state, appends the row and returns the owning state so more
// rules can be chained.
func (r *RuleBuilder) Go(next string) *StateBuilder {
	b := r.state.builder
	b.State(next)
	r.row.Next = schema.Scalar(next)
	b.doc.Transitions = append(b.doc.Transitions, r.row)
	return r.state
}
