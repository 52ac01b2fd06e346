package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
)

// NewCatalog compiles machines from the repository in cfg.Dir with the configured
// underflow policy. Extra hook sets run after the logging hooks.
func NewCatalog(cfg *config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*runner.Catalog, error) {
	loader, _, err := OpenLoader("", cfg.Dir)
	if err != nil {
		return nil, err
	}
	policy, err := turing.ParseUnderflowPolicy(cfg.Underflow)
	if err != nil {
		return nil, err
	}
	opts := RunOptions{Logger: logger, Policy: policy, Hooks: hooks}
	return runner.NewCatalog(loader, opts.engineOptions()...), nil
}

// NewSessionManager wires a session manager over the backend selected by cfg. A nil
// catalog is built with NewCatalog. The returned function releases the backend.
func NewSessionManager(cfg *config.Config, logger *slog.Logger, catalog *runner.Catalog) (*session.Manager, func() error, error) {
	if catalog == nil {
		var err error
		if catalog, err = NewCatalog(cfg, logger); err != nil {
			return nil, nil, err
		}
	}
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []session.Option{session.WithLogger(logger)}
	if backend.Locker != nil {
		opts = append(opts, session.WithLocker(backend.Locker))
	}
	return session.NewManager(backend.Store, catalog, opts...), backend.Close, nil
}

// PrintSession writes a one-line summary of s followed by its tape.
func PrintSession(w io.Writer, s *domain.Session) {
	fmt.Fprintf(w, "%s  machine=%s  state=%s  head=%d  steps=%d  status=%s  updated=%s\n",
		s.ID, s.Machine, s.State, s.Head, s.Steps, s.Status, s.UpdatedAt.Format(time.RFC3339))
	if s.Fault != "" {
		fmt.Fprintf(w, "  fault: %s\n", s.Fault)
	}
	fmt.Fprintf(w, "  tape: %s\n", renderTape(s.Tape, s.Head))
}

// PrintRecords writes one line per executed transition.
func PrintRecords(w io.Writer, records []domain.Record[string, string]) {
	for _, rec := range records {
		fmt.Fprintf(w, "%5d  %s,%s -> %s,%s,%s\n", rec.Step, rec.From, rec.Read, rec.Write, rec.Move, rec.To)
	}
}

func renderTape(tape []string, head int) string {
	cells := make([]string, 0, len(tape)+1)
	for i, sym := range tape {
		if i == head {
			sym = "[" + sym + "]"
		}
		cells = append(cells, sym)
	}
	if head >= len(tape) {
		cells = append(cells, "[.]")
	}
	return strings.Join(cells, " ")
}
