package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/ports"
)

// RunWatch runs the machine, then runs it again every time its repository changes,
// until ctx is done. Load errors after a change are reported and the watcher keeps going.
func RunWatch(ctx context.Context, opts RunOptions, out io.Writer) error {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if IsDocumentPath(opts.Target) {
		return fmt.Errorf("--watch needs a machine repository, not a single file")
	}
	loader, name, err := OpenLoader(opts.Target, opts.Dir)
	if err != nil {
		return err
	}
	watchable, ok := loader.(ports.Watchable)
	if !ok {
		return fmt.Errorf("loader for %s cannot be watched", opts.Dir)
	}
	events, err := watchable.Watch(ctx)
	if err != nil {
		return err
	}

	if opts.Color && !opts.JSON {
		tui.PrintBanner(out, strings.TrimSpace(turing.Version))
	}
	printSystemMessage(out, "Watching '%s' for changes to '%s'.", opts.Dir, name)

	iteration := func() {
		eng, doc, err := turing.Load(ctx, loader, name, opts.engineOptions()...)
		if err != nil {
			printSystemMessage(out, "load failed: %v", err)
			return
		}
		// Run errors are already summarised on out.
		_, _ = execute(ctx, eng, doc.TapeSymbols(), opts, out)
	}

	iteration()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			opts.Logger.Info("Watcher restarting", "event", event)
			printSystemMessage(out, "Change detected (%s), re-running.", event)
			iteration()
		}
	}
}
