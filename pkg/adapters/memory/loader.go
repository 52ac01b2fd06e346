package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	machines map[string]*schema.Machine
	mu       sync.RWMutex
}

// NewLoader creates a loader from parsed documents, keyed by their ID.
func NewLoader(machines ...*schema.Machine) (*Loader, error) {
	l := &Loader{machines: make(map[string]*schema.Machine)}
	for _, m := range machines {
		if err := l.Put(m); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewFromDocuments creates a loader from raw YAML/JSON documents keyed by name.
// A document without an id takes its key.
func NewFromDocuments(docs map[string]string) (*Loader, error) {
	l := &Loader{machines: make(map[string]*schema.Machine)}
	for name, raw := range docs {
		m, err := schema.Parse([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", name, err)
		}
		if m.ID == "" {
			m.ID = name
		}
		l.machines[name] = m
	}
	return l, nil
}

// Put registers or replaces a document under its ID.
func (l *Loader) Put(m *schema.Machine) error {
	if m.ID == "" {
		return fmt.Errorf("machine missing ID")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.machines[m.ID] = clone(m)
	return nil
}

// Load returns a copy of the document registered under name.
func (l *Loader) Load(ctx context.Context, name string) (*schema.Machine, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.machines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return clone(m), nil
}

// List returns all machine names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.machines))
	for k := range l.machines {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

func clone(m *schema.Machine) *schema.Machine {
	cp := *m
	cp.States = append([]schema.Scalar(nil), m.States...)
	cp.Alphabet = append([]schema.Scalar(nil), m.Alphabet...)
	cp.Input = append([]schema.Scalar(nil), m.Input...)
	cp.Final = append([]schema.Scalar(nil), m.Final...)
	cp.Tape = append([]schema.Scalar(nil), m.Tape...)
	cp.Transitions = append([]schema.Transition(nil), m.Transitions...)
	return &cp
}
