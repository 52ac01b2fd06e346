package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/adapters/file"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/schema"
)

// IsDocumentPath reports whether target names an existing YAML or JSON file rather
// than a machine in the repository.
func IsDocumentPath(target string) bool {
	switch strings.ToLower(filepath.Ext(target)) {
	case ".yaml", ".yml", ".json":
	default:
		return false
	}
	info, err := os.Stat(target)
	return err == nil && !info.IsDir()
}

// OpenLoader returns the definition loader for target: a one-machine memory loader
// when target is a document path, the Loam repository at dir otherwise. The second
// result is the machine name to ask the loader for.
func OpenLoader(target, dir string) (ports.DefinitionLoader, string, error) {
	if IsDocumentPath(target) {
		m, err := schema.LoadFile(target)
		if err != nil {
			return nil, "", err
		}
		loader, err := memory.NewLoader(m)
		if err != nil {
			return nil, "", err
		}
		return loader, m.ID, nil
	}
	loader, err := loam.Open(dir)
	if err != nil {
		return nil, "", err
	}
	return loader, target, nil
}

// Resolve loads and compiles target (see OpenLoader).
func Resolve(ctx context.Context, target, dir string, opts ...turing.Option) (*turing.Engine[string, string], *schema.Machine, error) {
	loader, name, err := OpenLoader(target, dir)
	if err != nil {
		return nil, nil, err
	}
	return turing.Load(ctx, loader, name, opts...)
}

// Backend is an opened session store with its optional distributed locker.
type Backend struct {
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	Close  func() error
}

// OpenBackend opens the session store selected by cfg.Store. When cfg.SessionKey
// is set the store is wrapped so sessions are sealed at rest.
func OpenBackend(cfg *config.Config) (*Backend, error) {
	backend, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.SessionKey == "" {
		return backend, nil
	}

	enc, err := encryptionConfig(cfg)
	if err != nil {
		backend.Close()
		return nil, err
	}
	backend.Store = middleware.Chain(backend.Store, middleware.NewEncryptionMiddleware(enc))
	return backend, nil
}

func openStore(cfg *config.Config) (*Backend, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return &Backend{Store: memory.NewStore(), Close: noop}, nil
	case config.StoreFile:
		return &Backend{Store: file.New(cfg.SessionsDir), Close: noop}, nil
	case config.StoreRedis:
		store, err := redis.New(cfg.RedisURL, redis.WithTTL(cfg.SessionTTL))
		if err != nil {
			return nil, err
		}
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), "turing:"),
			Close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func encryptionConfig(cfg *config.Config) (middleware.EncryptionConfig, error) {
	var enc middleware.EncryptionConfig
	key, err := middleware.ParseKey(cfg.SessionKey)
	if err != nil {
		return enc, err
	}
	enc.ActiveKey = key
	for _, raw := range cfg.SessionFallbackKeys {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		old, err := middleware.ParseKey(raw)
		if err != nil {
			return enc, fmt.Errorf("fallback key: %w", err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, old)
	}
	return enc, nil
}
