/*
Package domain contains the core models of the Turing engine.

It defines the formal machine (the 7-tuple), the transition table, the mutable
configuration a machine executes against, and the records a run emits. The package
is pure: no I/O, no persistence, no logging.

# Key Entities

  - Definition: states, tape alphabet, blank, input symbols, initial and final states.
  - Table: the transition function, keyed by (scanned symbol, current state).
  - Configuration: tape, head, current state and the halted flag of one run.
  - Record: one executed transition, the unit of a Trace.
  - Session: a string-typed Configuration snapshot that adapters can persist.

Symbols and states are type parameters constrained to comparable, so machines may use
strings, runes, integers or any user-defined comparable identifiers.
*/
package domain
