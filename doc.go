/*
Package turing is a deterministic, single-tape Turing machine engine.

A machine is a formal definition (states, tape alphabet, blank symbol, input symbols,
initial and final states) plus a transition table. The engine applies the table to a
configuration (tape, head position, current state) one step at a time, reporting every
executed transition to an optional trace sink, until the machine reaches a final state
or faults.

# Concept

The core is generic over the symbol type S and the state type Q: any comparable types
work. Machine documents (YAML, JSON, frontmatter) are compiled into the string
instantiation by package schema, and everything around the core (loaders, session
stores, HTTP and MCP servers, renderers) is an adapter behind the port interfaces
declared in package ports.

# Halting and faults

Reaching a final state is success: Step returns an error matching domain.ErrHalted and
Run returns a nil error. Every other outcome is a fault:

  - domain.ErrUnknownState: the configuration holds a state outside the state set.
  - domain.ErrNoRule: no transition for the scanned symbol in the current state.
  - domain.ErrHeadUnderflow: a left move from tape position 0.

All step errors are *domain.StepError and can be matched with errors.Is.

# Usage

	def := &domain.Definition[int, string]{
		States:   []string{"A", "HALT"},
		Alphabet: []int{0, 1},
		Blank:    0,
		Initial:  "A",
		Final:    []string{"HALT"},
	}
	eng, err := turing.New(def)
	if err != nil {
		log.Fatal(err)
	}
	_ = eng.AddTransition(0, "A", 1, domain.Right, "HALT")

	cfg := eng.Start([]int{0})
	trace, err := eng.Run(ctx, cfg, nil)

The engine never bounds a run. Use package runner for step limits and timeouts.
*/
package turing
