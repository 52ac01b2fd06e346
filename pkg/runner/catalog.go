package runner

import (
	"context"
	"sync"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/schema"
)

type compiled struct {
	engine *turing.Engine[string, string]
	doc    *schema.Machine
}

// Catalog resolves machines by name through a DefinitionLoader and caches the
// compiled engines. Engines are read-only after compilation, so a cached engine is
// shared by every caller. Safe for concurrent use.
type Catalog struct {
	loader ports.DefinitionLoader
	opts   []turing.Option

	mu    sync.RWMutex
	cache map[string]compiled
}

// NewCatalog creates a catalog; opts are applied to every compiled engine.
func NewCatalog(loader ports.DefinitionLoader, opts ...turing.Option) *Catalog {
	return &Catalog{
		loader: loader,
		opts:   opts,
		cache:  make(map[string]compiled),
	}
}

// Loader returns the underlying loader.
func (c *Catalog) Loader() ports.DefinitionLoader {
	return c.loader
}

// List returns the names of the available machines.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	return c.loader.List(ctx)
}

// Get returns the compiled engine and source document for name.
// Definition and table errors are returned unwrapped enough for errors.As to find them.
func (c *Catalog) Get(ctx context.Context, name string) (*turing.Engine[string, string], *schema.Machine, error) {
	c.mu.RLock()
	entry, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return entry.engine, entry.doc, nil
	}

	eng, doc, err := turing.Load(ctx, c.loader, name, c.opts...)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.cache[name] = compiled{engine: eng, doc: doc}
	c.mu.Unlock()
	return eng, doc, nil
}

// Invalidate drops the cached engine for name, or every engine when name is empty.
func (c *Catalog) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		c.cache = make(map[string]compiled)
		return
	}
	delete(c.cache, name)
}

// Watch drops the whole cache whenever the loader reports a changed document; event
// names are file based and need not match machine IDs.
// It returns false if the loader cannot be watched. The watch stops with ctx.
func (c *Catalog) Watch(ctx context.Context) (bool, error) {
	w, ok := c.loader.(ports.Watchable)
	if !ok {
		return false, nil
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return true, err
	}
	go func() {
		for range events {
			c.Invalidate("")
		}
	}()
	return true, nil
}
