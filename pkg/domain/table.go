package domain

// Rule is the right-hand side of a transition: what to write, where to move, where to go.
type Rule[S, Q comparable] struct {
	Write S    `json:"write"`
	Move  Move `json:"move"`
	Next  Q    `json:"next"`
}

// Key identifies a transition by scanned symbol and current state.
type Key[S, Q comparable] struct {
	Read  S `json:"read"`
	State Q `json:"state"`
}

// Entry is a key/rule pair as listed by Table.Rules.
type Entry[S, Q comparable] struct {
	Key[S, Q]
	Rule[S, Q]
}

// Table is the transition function (delta) of a machine.
// Every rule is validated against the owning Definition when it is added, so a rule
// found by Lookup is always structurally valid. A Table is read-only once built and
// can be shared between concurrent runs.
type Table[S, Q comparable] struct {
	def   *Definition[S, Q]
	rules map[Key[S, Q]]Rule[S, Q]
	order []Key[S, Q]
}

// NewTable validates def and returns an empty table bound to it.
func NewTable[S, Q comparable](def *Definition[S, Q]) (*Table[S, Q], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Table[S, Q]{
		def:   def,
		rules: make(map[Key[S, Q]]Rule[S, Q]),
	}, nil
}

// Definition returns the definition the table validates against.
func (t *Table[S, Q]) Definition() *Definition[S, Q] {
	return t.def
}

// Add registers delta(read, state) = (write, move, next).
// A rejected rule leaves the table untouched; an existing key is overwritten.
func (t *Table[S, Q]) Add(read S, state Q, write S, move Move, next Q) error {
	if !t.def.HasState(state) {
		return &TableError{Kind: UnknownState, Field: "current_state", Value: state}
	}
	if !t.def.HasSymbol(write) {
		return &TableError{Kind: UnknownSymbol, Field: "write_symbol", Value: write}
	}
	if !move.Valid() {
		return &TableError{Kind: InvalidMove, Field: "move", Value: move}
	}
	if !t.def.HasState(next) {
		return &TableError{Kind: UnknownState, Field: "next_state", Value: next}
	}

	key := Key[S, Q]{Read: read, State: state}
	if _, exists := t.rules[key]; !exists {
		t.order = append(t.order, key)
	}
	t.rules[key] = Rule[S, Q]{Write: write, Move: move, Next: next}
	return nil
}

// Lookup returns the rule registered for (read, state), if any.
func (t *Table[S, Q]) Lookup(read S, state Q) (Rule[S, Q], bool) {
	r, ok := t.rules[Key[S, Q]{Read: read, State: state}]
	return r, ok
}

// Len returns the number of registered rules.
func (t *Table[S, Q]) Len() int {
	return len(t.rules)
}

// Rules lists the registered rules in first-insertion order.
func (t *Table[S, Q]) Rules() []Entry[S, Q] {
	entries := make([]Entry[S, Q], 0, len(t.order))
	for _, k := range t.order {
		entries = append(entries, Entry[S, Q]{Key: k, Rule: t.rules[k]})
	}
	return entries
}
