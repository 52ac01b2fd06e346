package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractConfiguration() *domain.Configuration[string, string] {
	return &domain.Configuration[string, string]{
		Tape:  []string{"1", "1", "0"},
		Head:  2,
		State: "B",
		Steps: 4,
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, "unary", contractConfiguration())

		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "unary", loaded.Machine)
		assert.Equal(t, []string{"1", "1", "0"}, loaded.Tape)
		assert.Equal(t, 2, loaded.Head)
		assert.Equal(t, "B", loaded.State)
		assert.Equal(t, 4, loaded.Steps)
		assert.Equal(t, domain.StatusActive, loaded.Status)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Tape[0] = "X"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "1", again.Tape[0])
	})

	t.Run("Overwrite", func(t *testing.T) {
		session, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		session.State = "HALT"
		session.Halted = true
		session.Status = domain.StatusHalted
		require.NoError(t, store.Save(ctx, session))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "HALT", loaded.State)
		assert.True(t, loaded.Halted)
		assert.Equal(t, domain.StatusHalted, loaded.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewSession(sessionID, "unary", contractConfiguration()))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, "unary", contractConfiguration()))
		_ = store.Save(ctx, domain.NewSession(id2, "unary", contractConfiguration()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
