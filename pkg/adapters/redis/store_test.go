package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)

	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	cfg := &domain.Configuration[string, string]{Tape: []string{"1"}, State: "A"}
	require.NoError(t, store.Save(ctx, domain.NewSession("ttl-session", "unary", cfg)))
	assert.True(t, mr.Exists("test:ttl-session"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "ttl-session")

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "ttl-session")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// The index is pruned lazily against wall-clock time, so only the value expiry is
	// observable here.
	assert.False(t, mr.Exists("test:ttl-session"))
}

func TestRedisStore_NewFromURL(t *testing.T) {
	mr, _ := setup(t)

	store, err := redis.New("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()

	cfg := &domain.Configuration[string, string]{Tape: []string{"0"}, State: "q"}
	require.NoError(t, store.Save(context.Background(), domain.NewSession("url", "m", cfg)))
	assert.True(t, mr.Exists("turing:session:url"))

	_, err = redis.New("not a url")
	assert.Error(t, err)
}
