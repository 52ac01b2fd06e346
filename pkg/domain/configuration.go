package domain

// Configuration is the mutable execution state of one run.
// It is owned by a single caller; the engine mutates it in place.
type Configuration[S, Q comparable] struct {
	Tape   []S  `json:"tape"`
	Head   int  `json:"head"`
	State  Q    `json:"state"`
	Halted bool `json:"halted"`

	// Steps counts the transitions executed since the last reset.
	Steps int `json:"steps"`
}

// NewConfiguration creates a configuration at the start of def with a copy of tape.
func NewConfiguration[S, Q comparable](def *Definition[S, Q], tape []S) *Configuration[S, Q] {
	c := &Configuration[S, Q]{}
	c.Reset(def, tape)
	return c
}

// Reset rewinds the configuration: tape replaced, head at 0, initial state, not halted.
func (c *Configuration[S, Q]) Reset(def *Definition[S, Q], tape []S) {
	c.Tape = append([]S(nil), tape...)
	c.Head = 0
	c.State = def.Initial
	c.Halted = false
	c.Steps = 0
}

// Read returns the symbol under the head, or blank past the end of the tape.
func (c *Configuration[S, Q]) Read(blank S) S {
	if c.Head < len(c.Tape) {
		return c.Tape[c.Head]
	}
	return blank
}

// write stores s under the head, padding the tape with blank up to the head.
func (c *Configuration[S, Q]) write(s S, blank S) {
	for len(c.Tape) <= c.Head {
		c.Tape = append(c.Tape, blank)
	}
	c.Tape[c.Head] = s
}

// Apply commits the effects of rule r read under the head.
// It fails with ErrHeadUnderflow on a left move from position 0; with partial set,
// the write and state change are kept in that case, otherwise nothing is applied.
func (c *Configuration[S, Q]) Apply(r Rule[S, Q], blank S, partial bool) error {
	underflow := r.Move == Left && c.Head == 0
	if underflow && !partial {
		return ErrHeadUnderflow
	}

	c.write(r.Write, blank)
	c.State = r.Next
	if underflow {
		return ErrHeadUnderflow
	}

	switch r.Move {
	case Right:
		c.Head++
		if c.Head >= len(c.Tape) {
			c.Tape = append(c.Tape, blank)
		}
	case Left:
		c.Head--
	}
	c.Steps++
	return nil
}

// Clone returns a deep copy.
func (c *Configuration[S, Q]) Clone() *Configuration[S, Q] {
	cp := *c
	cp.Tape = append([]S(nil), c.Tape...)
	return &cp
}
