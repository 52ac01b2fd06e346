package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// MockStore is a minimal map-backed SessionStore used to exercise the contract itself.
type MockStore struct {
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (m *MockStore) Save(ctx context.Context, session *domain.Session) error {
	m.data[session.ID] = session.Snapshot()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSessionStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewMockStore())
}

func TestTee(t *testing.T) {
	var a, b []int
	sink := ports.Tee[string, string](
		ports.SinkFunc[string, string](func(ctx context.Context, rec domain.Record[string, string]) {
			a = append(a, rec.Step)
		}),
		nil,
		ports.SinkFunc[string, string](func(ctx context.Context, rec domain.Record[string, string]) {
			b = append(b, rec.Step)
		}),
	)

	sink.Record(context.Background(), domain.Record[string, string]{Step: 1})
	sink.Record(context.Background(), domain.Record[string, string]{Step: 2})

	if len(a) != 2 || len(b) != 2 || a[1] != 2 || b[0] != 1 {
		t.Errorf("expected both sinks to receive steps [1 2], got %v and %v", a, b)
	}
}
