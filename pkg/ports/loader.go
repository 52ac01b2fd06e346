package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/schema"
)

// DefinitionLoader supplies machine documents before a run starts.
// The engine never parses external formats itself; that is the loader's job.
type DefinitionLoader interface {
	// Load returns the document registered under name.
	// It returns an error wrapping domain.ErrMachineNotFound if there is none.
	Load(ctx context.Context, name string) (*schema.Machine, error)

	// List returns the names of all available machines in a stable order.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload in `turing serve --watch`.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed machine document.
	Watch(ctx context.Context) (<-chan string, error)
}
