package domain

// Move is the head movement of a transition.
type Move string

const (
	Left  Move = "L"
	Right Move = "R"
)

// Valid reports whether m is one of {L, R}.
func (m Move) Valid() bool {
	return m == Left || m == Right
}

// Definition is the formal machine: states, tape alphabet, blank symbol,
// input symbols, initial state and final (halting) states.
//
// Slices keep the authoring order for listings and diagrams; membership checks go
// through an index built by Validate.
type Definition[S, Q comparable] struct {
	States   []Q `json:"states" yaml:"states"`
	Alphabet []S `json:"alphabet" yaml:"alphabet"`
	Blank    S   `json:"blank" yaml:"blank"`
	Input    []S `json:"input,omitempty" yaml:"input,omitempty"`
	Initial  Q   `json:"initial" yaml:"initial"`
	Final    []Q `json:"final" yaml:"final"`

	stateSet  map[Q]struct{}
	symbolSet map[S]struct{}
	finalSet  map[Q]struct{}
}

// Validate checks the definition invariants and builds the membership index.
// It must pass before transitions are added against the definition.
func (d *Definition[S, Q]) Validate() error {
	if len(d.States) == 0 {
		return &DefinitionError{Kind: EmptyStates}
	}
	if len(d.Alphabet) == 0 {
		return &DefinitionError{Kind: EmptyAlphabet}
	}

	states := toSet(d.States)
	symbols := toSet(d.Alphabet)

	if _, ok := symbols[d.Blank]; !ok {
		return &DefinitionError{Kind: BlankNotInAlphabet, Value: d.Blank}
	}
	for _, s := range d.Input {
		if _, ok := symbols[s]; !ok {
			return &DefinitionError{Kind: InputNotSubsetOfAlphabet, Value: s}
		}
	}
	if _, ok := states[d.Initial]; !ok {
		return &DefinitionError{Kind: InitialStateUnknown, Value: d.Initial}
	}
	for _, q := range d.Final {
		if _, ok := states[q]; !ok {
			return &DefinitionError{Kind: FinalStateNotInStates, Value: q}
		}
	}

	d.stateSet = states
	d.symbolSet = symbols
	d.finalSet = toSet(d.Final)
	return nil
}

// HasState reports whether q is in the state set.
func (d *Definition[S, Q]) HasState(q Q) bool {
	if d.stateSet != nil {
		_, ok := d.stateSet[q]
		return ok
	}
	return contains(d.States, q)
}

// HasSymbol reports whether s is in the tape alphabet.
func (d *Definition[S, Q]) HasSymbol(s S) bool {
	if d.symbolSet != nil {
		_, ok := d.symbolSet[s]
		return ok
	}
	return contains(d.Alphabet, s)
}

// IsFinal reports whether q is a halting state.
func (d *Definition[S, Q]) IsFinal(q Q) bool {
	if d.finalSet != nil {
		_, ok := d.finalSet[q]
		return ok
	}
	return contains(d.Final, q)
}

// CheckTape returns the positions of tape symbols outside the alphabet.
// The engine never enforces this; it exists for authoring tools.
func (d *Definition[S, Q]) CheckTape(tape []S) []int {
	var bad []int
	for i, s := range tape {
		if !d.HasSymbol(s) {
			bad = append(bad, i)
		}
	}
	return bad
}

func toSet[T comparable](items []T) map[T]struct{} {
	set := make(map[T]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func contains[T comparable](items []T, v T) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}
