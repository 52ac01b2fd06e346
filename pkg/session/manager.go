package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed replica can hold a session lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store   ports.SessionStore
	catalog *runner.Catalog

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the UUID generator for session IDs.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a new Session Manager over a store and a machine catalog.
func NewManager(store ports.SessionStore, catalog *runner.Catalog, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		catalog: catalog,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Start creates a session for machine over tape; a nil tape uses the document's tape.
func (m *Manager) Start(ctx context.Context, machine string, tape []string) (*domain.Session, error) {
	eng, doc, err := m.catalog.Get(ctx, machine)
	if err != nil {
		return nil, err
	}
	if tape == nil {
		tape = doc.TapeSymbols()
	}

	session := domain.NewSession(m.newID(), machine, eng.Start(tape))
	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	m.logger.Info("session started", "session_id", session.ID, "machine", machine, "tape_len", len(tape))
	return session, nil
}

// Step executes up to n transitions (at least one) and persists the result.
//
// Reaching a final state ends the call successfully with the session marked halted.
// Stepping a session that is already halted returns an error matching domain.ErrHalted.
// A fault is recorded on the session (status faulted) and returned; the session is
// saved either way. Every executed record is passed to sink, which may be nil.
func (m *Manager) Step(ctx context.Context, sessionID string, n int, sink ports.TraceSink[string, string]) (*domain.Session, []domain.Record[string, string], error) {
	if n < 1 {
		n = 1
	}

	var (
		session *domain.Session
		records []domain.Record[string, string]
	)

	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		session, err = m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.Status == domain.StatusHalted {
			return &domain.StepError{Err: domain.ErrHalted, State: session.State}
		}

		eng, _, err := m.catalog.Get(ctx, session.Machine)
		if err != nil {
			return fmt.Errorf("session %s: %w", sessionID, err)
		}

		// A fault only describes the latest step call.
		session.Status = domain.StatusActive
		session.Fault = ""

		cfg := session.Configuration()
		var stepErr error
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				stepErr = err
				break
			}
			rec, err := eng.Step(ctx, cfg)
			if err != nil {
				if !domain.IsHalted(err) {
					stepErr = err
				}
				break
			}
			records = append(records, rec)
			if sink != nil {
				sink.Record(ctx, rec)
			}
			if eng.Definition().IsFinal(cfg.State) {
				// Let the engine observe the final state so the session is saved halted.
				_, _ = eng.Step(ctx, cfg)
				break
			}
		}

		session.Capture(cfg)
		var stepFault *domain.StepError
		if errors.As(stepErr, &stepFault) {
			session.Status = domain.StatusFaulted
			session.Fault = stepErr.Error()
		}

		if err := m.store.Save(ctx, session); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return stepErr
	})

	return session, records, err
}

// Get retrieves an existing session from the store.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		session, err = m.store.Load(ctx, sessionID)
		return err
	})
	return session, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
