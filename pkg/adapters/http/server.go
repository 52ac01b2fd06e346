package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/aretw0/turing/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// DefaultMaxSteps bounds runs when no limit is configured.
const DefaultMaxSteps = 10000

// Server exposes a machine catalog and a session manager over HTTP.
type Server struct {
	catalog  *runner.Catalog
	sessions *session.Manager
	metrics  *observability.Metrics
	streams  *StreamManager
	spec     *openapi3.T

	maxSteps   int
	timeout    time.Duration
	corsOrigin string
	logger     *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics serves m on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithMaxSteps caps every run; a smaller max_steps query parameter still applies.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		s.maxSteps = n
	}
}

// WithRunTimeout bounds the wall time of a single run.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithCORSOrigin sets the Access-Control-Allow-Origin header value.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer validates the embedded OpenAPI document and builds the server.
func NewServer(catalog *runner.Catalog, sessions *session.Manager, opts ...Option) (*Server, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	s := &Server{
		catalog:    catalog,
		sessions:   sessions,
		spec:       spec,
		maxSteps:   DefaultMaxSteps,
		corsOrigin: "*",
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s, nil
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{name}", s.DescribeMachine)
		r.Get("/{name}/graph", s.GetMachineGraph)
		r.Post("/{name}/run", s.RunMachine)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.StartSession)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Post("/{id}/step", s.StepSession)
		r.Get("/{id}/events", s.SubscribeSession)
	})

	return r
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "turing-http",
		"version":     strings.TrimSpace(turing.Version),
		"api_version": apiVersion,
	})
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": names})
}

type machineDescription struct {
	Machine *schema.Machine   `json:"machine"`
	Issues  []validator.Issue `json:"issues"`
}

// DescribeMachine handles GET /machines/{name}.
func (s *Server) DescribeMachine(w http.ResponseWriter, r *http.Request) {
	eng, doc, err := s.catalog.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	issues := validator.Inspect(eng.Table())
	if issues == nil {
		issues = []validator.Issue{}
	}
	s.writeJSON(w, http.StatusOK, machineDescription{Machine: doc, Issues: issues})
}

// GetMachineGraph handles GET /machines/{name}/graph.
func (s *Server) GetMachineGraph(w http.ResponseWriter, r *http.Request) {
	eng, _, err := s.catalog.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(eng.Table(), nil))
}

type tapeRequest struct {
	Tape []schema.Scalar `json:"tape"`
}

type runResult struct {
	Machine string                          `json:"machine"`
	Outcome runner.Outcome                  `json:"outcome"`
	Steps   int                             `json:"steps"`
	State   string                          `json:"state"`
	Head    int                             `json:"head"`
	Tape    []string                        `json:"tape"`
	Trace   []domain.Record[string, string] `json:"trace"`
	Error   string                          `json:"error,omitempty"`
}

// RunMachine handles POST /machines/{name}/run.
func (s *Server) RunMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var maxSteps *int
	if err := runtime.BindQueryParameter("form", true, false, "max_steps", r.URL.Query(), &maxSteps); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Invalid format for parameter max_steps: %v", err)})
		return
	}
	limit := s.maxSteps
	if maxSteps != nil {
		if *maxSteps < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "max_steps must be positive"})
			return
		}
		if limit <= 0 || *maxSteps < limit {
			limit = *maxSteps
		}
	}

	var body tapeRequest
	if err := decodeOptional(r, &body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	eng, doc, err := s.catalog.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tape := doc.TapeSymbols()
	if body.Tape != nil {
		tape = scalars(body.Tape)
	}

	run := runner.New(eng, runner.WithMaxSteps(limit), runner.WithTimeout(s.timeout), runner.WithLogger(s.logger))
	res, runErr := run.Run(r.Context(), eng.Start(tape), nil)

	out := runResult{
		Machine: name,
		Outcome: res.Outcome,
		Steps:   res.Trace.Len(),
		State:   res.Configuration.State,
		Head:    res.Configuration.Head,
		Tape:    res.Configuration.Tape,
		Trace:   res.Trace.Records(),
	}
	if out.Trace == nil {
		out.Trace = []domain.Record[string, string]{}
	}
	status := http.StatusOK
	if runErr != nil {
		out.Error = runErr.Error()
		status = statusFor(runErr)
	}
	s.writeJSON(w, status, out)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

type startRequest struct {
	Machine string          `json:"machine"`
	Tape    []schema.Scalar `json:"tape"`
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Machine == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body: machine is required"})
		return
	}

	var tape []string
	if body.Tape != nil {
		tape = scalars(body.Tape)
	}
	sess, err := s.sessions.Start(r.Context(), body.Machine, tape)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stepResult struct {
	Session *domain.Session                 `json:"session,omitempty"`
	Records []domain.Record[string, string] `json:"records"`
	Error   string                          `json:"error,omitempty"`
}

// StepSession handles POST /sessions/{id}/step.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	count := 1
	if err := runtime.BindQueryParameter("form", true, false, "count", r.URL.Query(), &count); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Invalid format for parameter count: %v", err)})
		return
	}
	if count < 1 || (s.maxSteps > 0 && count > s.maxSteps) {
		msg := "count must be at least 1"
		if s.maxSteps > 0 {
			msg = fmt.Sprintf("count must be between 1 and %d", s.maxSteps)
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	sess, records, err := s.sessions.Step(r.Context(), id, count, s.streams.Sink(id))
	if err != nil && sess == nil {
		s.writeError(w, r, err)
		return
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.writeError(w, r, err)
		return
	}

	out := stepResult{Session: sess, Records: records}
	if out.Records == nil {
		out.Records = []domain.Record[string, string]{}
	}
	status := http.StatusOK
	if err != nil {
		out.Error = err.Error()
		status = statusFor(err)
	}
	s.writeJSON(w, status, out)
}

// SubscribeSession handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	ch, cancel := s.streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: step\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// decodeOptional decodes a JSON body into v, accepting an empty body.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func scalars(in []schema.Scalar) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
