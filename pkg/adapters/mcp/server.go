package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	machinesURI    = "turing://machines"
	machineURIRoot = "turing://machines/"
)

// DefaultMaxSteps bounds tool runs when no limit is configured.
const DefaultMaxSteps = 10000

// MachineList is the output of list_machines.
type MachineList struct {
	Machines []string `json:"machines" jsonschema_description:"Names of the available machines"`
}

// MachineDescription is the output of describe_machine.
type MachineDescription struct {
	Machine *schema.Machine   `json:"machine" jsonschema_description:"The machine document"`
	Issues  []validator.Issue `json:"issues" jsonschema_description:"Lint findings for the transition table"`
	Graph   string            `json:"graph" jsonschema_description:"Mermaid flowchart of the transition table"`
}

// RunResponse is the output of run_machine. A fault or step limit is reported in
// Error together with the partial trace rather than as a tool error.
type RunResponse struct {
	Machine string                          `json:"machine"`
	Outcome runner.Outcome                  `json:"outcome"`
	Halted  bool                            `json:"halted"`
	Steps   int                             `json:"steps"`
	State   string                          `json:"state"`
	Head    int                             `json:"head"`
	Tape    []string                        `json:"tape"`
	Trace   []domain.Record[string, string] `json:"trace"`
	Error   string                          `json:"error,omitempty"`
}

type describeArgs struct {
	Name string `json:"name"`
}

type runArgs struct {
	Name       string          `json:"name"`
	Definition map[string]any  `json:"definition"`
	Tape       []schema.Scalar `json:"tape"`
	MaxSteps   int             `json:"max_steps"`
}

// Server exposes a machine catalog as an MCP Server.
type Server struct {
	catalog   *runner.Catalog
	maxSteps  int
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithMaxSteps caps every run_machine call.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		s.maxSteps = n
	}
}

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(catalog *runner.Catalog, opts ...Option) *Server {
	s := &Server{
		catalog:  catalog,
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_machines
	listTool := mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the machines in the catalog."),
		mcp.WithOutputSchema[MachineList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))

	// TOOL: describe_machine
	describeTool := mcp.NewTool("describe_machine",
		mcp.WithDescription("Return a machine document, lint findings for its transition table and a Mermaid graph."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithOutputSchema[MachineDescription](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribe))

	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a machine until it halts, faults or reaches the step limit. "+
			"Pass either the name of a catalog machine or an inline definition document."),
		mcp.WithString("name", mcp.Description("Catalog machine name")),
		mcp.WithObject("definition", mcp.Description("Inline machine document: states, alphabet, blank, initial, final, transitions, tape")),
		mcp.WithArray("tape", mcp.WithStringItems(), mcp.Description("Initial tape; defaults to the document's tape")),
		mcp.WithNumber("max_steps", mcp.Min(1), mcp.Description("Step limit, capped by the server limit")),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (MachineList, error) {
	names, err := s.catalog.List(ctx)
	if err != nil {
		return MachineList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return MachineList{Machines: names}, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args describeArgs) (MachineDescription, error) {
	if args.Name == "" {
		return MachineDescription{}, errors.New("name is required")
	}
	eng, doc, err := s.catalog.Get(ctx, args.Name)
	if err != nil {
		return MachineDescription{}, err
	}
	issues := validator.Inspect(eng.Table())
	if issues == nil {
		issues = []validator.Issue{}
	}
	return MachineDescription{
		Machine: doc,
		Issues:  issues,
		Graph:   graph.GenerateMermaid(eng.Table(), nil),
	}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args runArgs) (RunResponse, error) {
	eng, doc, err := s.resolve(ctx, args)
	if err != nil {
		return RunResponse{}, err
	}

	limit := s.maxSteps
	if args.MaxSteps > 0 && (limit <= 0 || args.MaxSteps < limit) {
		limit = args.MaxSteps
	}

	tape := doc.TapeSymbols()
	if args.Tape != nil {
		tape = make([]string, len(args.Tape))
		for i, sym := range args.Tape {
			tape[i] = string(sym)
		}
	}

	res, runErr := runner.New(eng, runner.WithMaxSteps(limit), runner.WithLogger(s.logger)).Run(ctx, eng.Start(tape), nil)
	out := RunResponse{
		Machine: eng.Name,
		Outcome: res.Outcome,
		Halted:  res.Halted(),
		Steps:   res.Trace.Len(),
		State:   res.Configuration.State,
		Head:    res.Configuration.Head,
		Tape:    res.Configuration.Tape,
		Trace:   res.Trace.Records(),
	}
	if out.Trace == nil {
		out.Trace = []domain.Record[string, string]{}
	}
	if runErr != nil {
		out.Error = runErr.Error()
		s.logger.Debug("MCP run ended without halting", "machine", eng.Name, "outcome", res.Outcome, "err", runErr)
	}
	return out, nil
}

// resolve compiles the inline definition if present, otherwise looks the name up.
func (s *Server) resolve(ctx context.Context, args runArgs) (*turing.Engine[string, string], *schema.Machine, error) {
	if len(args.Definition) > 0 {
		doc, err := schema.Decode(args.Definition)
		if err != nil {
			return nil, nil, err
		}
		if doc.ID == "" {
			doc.ID = "inline"
			if args.Name != "" {
				doc.ID = args.Name
			}
		}
		eng, err := turing.FromDocument(doc, turing.WithLogger(s.logger))
		if err != nil {
			return nil, nil, err
		}
		return eng, doc, nil
	}
	if args.Name == "" {
		return nil, nil, errors.New("either name or definition is required")
	}
	return s.catalog.Get(ctx, args.Name)
}

func (s *Server) registerResources() {
	// EXPOSE: turing://machines
	s.mcpServer.AddResource(mcp.NewResource(machinesURI, "Machine Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}
		jsonBytes, _ := json.Marshal(MachineList{Machines: names})
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      machinesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: turing://machines/{name}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(machineURIRoot+"{name}", "Machine Document",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := strings.TrimPrefix(request.Params.URI, machineURIRoot)
		_, doc, err := s.catalog.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		jsonBytes, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
