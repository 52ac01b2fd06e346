package schema

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Definition returns the formal definition described by the document.
func (m *Machine) Definition() *domain.Definition[string, string] {
	return &domain.Definition[string, string]{
		States:   toStrings(m.States),
		Alphabet: toStrings(m.Alphabet),
		Blank:    string(m.Blank),
		Input:    toStrings(m.Input),
		Initial:  string(m.Initial),
		Final:    toStrings(m.Final),
	}
}

// Compile validates the definition and adds every transition row to a new table.
// A definition failure is returned as is; row failures are collected into an
// *AggregateError whose entries wrap the *domain.TableError of each rejected row.
func (m *Machine) Compile() (*domain.Table[string, string], error) {
	table, err := domain.NewTable(m.Definition())
	if err != nil {
		return nil, err
	}

	var errs []error
	for i, row := range m.Transitions {
		err := table.Add(string(row.Read), string(row.State), string(row.Write), domain.Move(row.Move), string(row.Next))
		if err != nil {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("transitions[%d]", i), Err: err})
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return table, nil
}

// FromTable renders a table back into a document, e.g. to describe a compiled machine.
func FromTable(id string, table *domain.Table[string, string], tape []string) *Machine {
	def := table.Definition()
	m := &Machine{
		ID:       id,
		States:   toScalars(def.States),
		Alphabet: toScalars(def.Alphabet),
		Blank:    Scalar(def.Blank),
		Input:    toScalars(def.Input),
		Initial:  Scalar(def.Initial),
		Final:    toScalars(def.Final),
		Tape:     toScalars(tape),
	}
	for _, e := range table.Rules() {
		m.Transitions = append(m.Transitions, Transition{
			Read:  Scalar(e.Read),
			State: Scalar(e.State),
			Write: Scalar(e.Write),
			Move:  string(e.Move),
			Next:  Scalar(e.Next),
		})
	}
	return m
}

func toScalars(in []string) []Scalar {
	if in == nil {
		return nil
	}
	out := make([]Scalar, len(in))
	for i, s := range in {
		out[i] = Scalar(s)
	}
	return out
}
