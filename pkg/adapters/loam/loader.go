package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
)

// Loader adapts a Loam repository to the ports.DefinitionLoader interface.
// Each document (markdown with frontmatter, YAML or JSON) holds one machine; the
// markdown body, if any, becomes the machine description.
type Loader struct {
	Repo *loam.TypedRepository[MachineMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[MachineMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric scalars as json.Number across adapters; the loader
	// never writes, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[MachineMetadata](repo)), nil
}

// Load retrieves and decodes the machine document stored under name.
func (l *Loader) Load(ctx context.Context, name string) (*schema.Machine, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		if names, listErr := l.List(ctx); listErr == nil && !containsName(names, name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	m, err := schema.Decode(doc.Data.toMap())
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", name, err)
	}

	if m.ID == "" {
		m.ID = doc.ID
	}
	m.ID = trimExtension(m.ID)
	if m.Description == "" {
		m.Description = strings.TrimSpace(doc.Content)
	}
	return m, nil
}

// List lists all machines in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
