package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMachineNotFound is returned when a loader has no definition under the requested name.
var ErrMachineNotFound = errors.New("machine not found")

// Step outcomes. They are always wrapped in a *StepError by the engine.
var (
	// ErrHalted signals normal termination: the current state is a final state.
	ErrHalted = errors.New("machine halted")
	// ErrUnknownState means the configuration holds a state outside the state set.
	ErrUnknownState = errors.New("state not in state set")
	// ErrNoRule means the table has no transition for the scanned symbol and state.
	ErrNoRule = errors.New("no transition rule")
	// ErrHeadUnderflow means a left move was attempted from position 0.
	ErrHeadUnderflow = errors.New("head is already at position 0, cannot move left")
)

// DefinitionErrorKind classifies a malformed machine definition.
type DefinitionErrorKind string

const (
	EmptyStates              DefinitionErrorKind = "empty_states"
	EmptyAlphabet            DefinitionErrorKind = "empty_alphabet"
	BlankNotInAlphabet       DefinitionErrorKind = "blank_not_in_alphabet"
	InputNotSubsetOfAlphabet DefinitionErrorKind = "input_not_subset_of_alphabet"
	InitialStateUnknown      DefinitionErrorKind = "initial_state_unknown"
	FinalStateNotInStates    DefinitionErrorKind = "final_state_not_in_states"
)

// DefinitionError reports a violated Definition invariant.
type DefinitionError struct {
	Kind  DefinitionErrorKind
	Value any
}

func (e *DefinitionError) Error() string {
	switch e.Kind {
	case EmptyStates:
		return "invalid definition: state set is empty"
	case EmptyAlphabet:
		return "invalid definition: tape alphabet is empty"
	case BlankNotInAlphabet:
		return fmt.Sprintf("invalid definition: blank symbol '%v' is not in the alphabet", e.Value)
	case InputNotSubsetOfAlphabet:
		return fmt.Sprintf("invalid definition: input symbol '%v' is not in the alphabet", e.Value)
	case InitialStateUnknown:
		return fmt.Sprintf("invalid definition: initial state '%v' is not in the state set", e.Value)
	case FinalStateNotInStates:
		return fmt.Sprintf("invalid definition: final state '%v' is not in the state set", e.Value)
	}
	return fmt.Sprintf("invalid definition: %s (%v)", e.Kind, e.Value)
}

// TableErrorKind classifies a rejected transition.
type TableErrorKind string

const (
	UnknownState  TableErrorKind = "unknown_state"
	UnknownSymbol TableErrorKind = "unknown_symbol"
	InvalidMove   TableErrorKind = "invalid_move"
)

// TableError reports a transition that references something the definition does not know.
// Field names the offending argument ("current_state", "write_symbol", "move", "next_state").
type TableError struct {
	Kind  TableErrorKind
	Field string
	Value any
}

func (e *TableError) Error() string {
	switch e.Kind {
	case UnknownState:
		return fmt.Sprintf("invalid transition: %s '%v' is not in the state set", e.Field, e.Value)
	case UnknownSymbol:
		return fmt.Sprintf("invalid transition: %s '%v' is not in the alphabet", e.Field, e.Value)
	case InvalidMove:
		return fmt.Sprintf("invalid transition: %s '%v' is not one of {L,R}", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid transition: %s %s '%v'", e.Kind, e.Field, e.Value)
}

// StepError carries the configuration context of a failed step.
// Err is one of the step sentinels and can be matched with errors.Is.
type StepError struct {
	Err    error
	State  any
	Symbol any
}

func (e *StepError) Error() string {
	switch e.Err {
	case ErrHalted:
		return fmt.Sprintf("%v in state '%v'", e.Err, e.State)
	case ErrUnknownState:
		return fmt.Sprintf("state '%v': %v", e.State, e.Err)
	case ErrNoRule:
		return fmt.Sprintf("%v for symbol '%v' in state '%v'", e.Err, e.Symbol, e.State)
	}
	return fmt.Sprintf("%v (state '%v', symbol '%v')", e.Err, e.State, e.Symbol)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// IsHalted reports whether err signals normal termination rather than a fault.
func IsHalted(err error) bool {
	return errors.Is(err, ErrHalted)
}
