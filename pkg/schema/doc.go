// Package schema defines the textual machine document format and compiles it into a
// validated domain.Definition and domain.Table.
//
// A document lists states, alphabet, blank, input symbols, initial and final states, an
// optional initial tape and the transition rows:
//
//	id: unary
//	states: [A, B, C, HALT]
//	alphabet: [0, 1]
//	blank: 0
//	initial: A
//	final: [HALT]
//	tape: [0, 1, 0, 1, 0, 1]
//	transitions:
//	  - {read: 0, state: A, write: 1, move: R, next: B}
//
// Scalars may be written as numbers, booleans or strings; they are normalised to strings,
// so the compiled machine is a Definition[string, string].
//
// Documents come from YAML or JSON bytes (Parse, LoadFile) or from generic maps such as
// MCP tool arguments and frontmatter (Decode).
package schema
