package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Target   string   // Machine name in Dir, or a path to a YAML/JSON document
	Dir      string   // Machine repository
	Tape     []string // Nil uses the document's tape
	MaxSteps int
	Timeout  time.Duration
	Policy   turing.UnderflowPolicy
	JSON     bool   // NDJSON records instead of the text table
	Report   bool   // Markdown summary after the run
	Color    bool   // ANSI colours and glamour styling
	Quiet    bool   // No per-step output
	TraceOut string // Also record the trace as NDJSON to this file
	Logger   *slog.Logger
	Hooks    []domain.LifecycleHooks // Run after the logging hooks
}

func (o RunOptions) engineOptions() []turing.Option {
	logger := o.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return []turing.Option{
		turing.WithLogger(logger),
		turing.WithUnderflowPolicy(o.Policy),
		turing.WithLifecycleHooks(observability.Combine(append([]domain.LifecycleHooks{observability.LogHooks(logger)}, o.Hooks...)...)),
	}
}

// Run resolves the machine and drives it to out. The result is returned even when
// the run ends without halting; the error is the run error in that case.
func Run(ctx context.Context, opts RunOptions, out io.Writer) (*runner.Result[string, string], error) {
	eng, doc, err := Resolve(ctx, opts.Target, opts.Dir, opts.engineOptions()...)
	if err != nil {
		return nil, err
	}
	return execute(ctx, eng, doc.TapeSymbols(), opts, out)
}

func execute(ctx context.Context, eng *turing.Engine[string, string], docTape []string, opts RunOptions, out io.Writer) (*runner.Result[string, string], error) {
	tape := opts.Tape
	if tape == nil {
		tape = docTape
	}
	cfg := eng.Start(tape)

	var (
		sink    ports.TraceSink[string, string]
		sinkErr func() error
	)
	switch {
	case opts.Quiet:
	case opts.JSON:
		js := runner.NewJSONSink(out, cfg)
		sink, sinkErr = js, js.Err
	default:
		var termOpts []termenv.OutputOption
		if !opts.Color {
			termOpts = append(termOpts, termenv.WithProfile(termenv.Ascii))
		}
		ts := runner.NewTextSink(out, cfg, termOpts...)
		ts.Initial()
		sink, sinkErr = ts, ts.Err
	}

	if opts.TraceOut != "" {
		f, err := os.Create(opts.TraceOut)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		fileSink := runner.NewJSONSink(f, cfg)
		sink = ports.Tee(sink, ports.TraceSink[string, string](fileSink))
		termErr := sinkErr
		sinkErr = func() error {
			if termErr != nil {
				if err := termErr(); err != nil {
					return err
				}
			}
			return fileSink.Err()
		}
	}

	r := runner.New(eng,
		runner.WithMaxSteps(opts.MaxSteps),
		runner.WithTimeout(opts.Timeout),
		runner.WithLogger(opts.Logger),
	)
	res, runErr := r.Run(ctx, cfg, sink)
	if sinkErr != nil {
		if err := sinkErr(); err != nil {
			return res, fmt.Errorf("failed to write trace: %w", err)
		}
	}

	if !opts.JSON {
		summarize(out, eng.Name, res)
	}
	if opts.Report && !opts.JSON {
		if err := writeReport(out, eng.Name, res, opts.Color); err != nil {
			return res, err
		}
	}
	return res, runErr
}

func summarize(w io.Writer, name string, res *runner.Result[string, string]) {
	cfg := res.Configuration
	if res.Halted() {
		printSystemMessage(w, "%s halted in state '%s' after %d steps (head %d).", name, cfg.State, res.Trace.Len(), cfg.Head)
		return
	}
	printSystemMessage(w, "%s stopped (%s) in state '%s' after %d steps: %v", name, res.Outcome, cfg.State, res.Trace.Len(), res.Err)
}

func writeReport(w io.Writer, name string, res *runner.Result[string, string], color bool) error {
	md := runner.Report(name, res)
	if !color {
		_, err := io.WriteString(w, "\n"+md)
		return err
	}
	render, err := tui.NewRenderer(0)
	if err != nil {
		return err
	}
	styled, err := render(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = io.WriteString(w, styled)
	return err
}
