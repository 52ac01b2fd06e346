package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep  EventType = "step"
	EventHalt  EventType = "halt"
	EventFault EventType = "fault"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine,omitempty"`
}

// StepEvent describes an executed transition. Symbols and states are rendered with %v
// so hooks stay independent of the machine's type parameters.
type StepEvent struct {
	EventBase
	Step  int    `json:"step"`
	From  string `json:"from"`
	Read  string `json:"read"`
	Write string `json:"write"`
	Move  Move   `json:"move"`
	To    string `json:"to"`
	Head  int    `json:"head"`
}

// HaltEvent is emitted once when a run reaches a final state.
type HaltEvent struct {
	EventBase
	Steps int    `json:"steps"`
	State string `json:"state"`
}

// FaultEvent is emitted when a step fails with anything other than a halt.
type FaultEvent struct {
	EventBase
	Steps int    `json:"steps"`
	State string `json:"state"`
	Err   error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStep  func(context.Context, *StepEvent)
	OnHalt  func(context.Context, *HaltEvent)
	OnFault func(context.Context, *FaultEvent)
}
