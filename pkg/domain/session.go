package domain

import "time"

// SessionStatus defines where a persisted run stands.
type SessionStatus string

const (
	StatusActive  SessionStatus = "active"  // Can be stepped
	StatusHalted  SessionStatus = "halted"  // Reached a final state
	StatusFaulted SessionStatus = "faulted" // Stopped on a runtime fault
)

// Session is a string-typed snapshot of a Configuration that adapters can persist,
// so a machine can be stepped across requests or processes.
// Only the configuration is stored; the definition is reloaded by name.
type Session struct {
	ID        string        `json:"id"`
	Machine   string        `json:"machine"`
	Tape      []string      `json:"tape"`
	Head      int           `json:"head"`
	State     string        `json:"state"`
	Halted    bool          `json:"halted"`
	Steps     int           `json:"steps"`
	Status    SessionStatus `json:"status"`
	Fault     string        `json:"fault,omitempty"`
	Sealed    string        `json:"sealed,omitempty"` // Encrypted payload; the fields above it are then empty
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession captures cfg under a new session ID.
func NewSession(id, machine string, cfg *Configuration[string, string]) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        id,
		Machine:   machine,
		Status:    StatusActive,
		CreatedAt: now,
	}
	s.Capture(cfg)
	return s
}

// Capture copies cfg into the session and refreshes UpdatedAt.
func (s *Session) Capture(cfg *Configuration[string, string]) {
	s.Tape = append([]string(nil), cfg.Tape...)
	s.Head = cfg.Head
	s.State = cfg.State
	s.Halted = cfg.Halted
	s.Steps = cfg.Steps
	if cfg.Halted {
		s.Status = StatusHalted
	}
	s.UpdatedAt = time.Now().UTC()
}

// Configuration rebuilds the configuration stored in the session.
func (s *Session) Configuration() *Configuration[string, string] {
	return &Configuration[string, string]{
		Tape:   append([]string(nil), s.Tape...),
		Head:   s.Head,
		State:  s.State,
		Halted: s.Halted,
		Steps:  s.Steps,
	}
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Tape = append([]string(nil), s.Tape...)
	return &cp
}
