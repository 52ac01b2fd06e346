package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
)

// statusFor maps engine and adapter errors to HTTP status codes.
func statusFor(err error) int {
	var (
		defErr   *domain.DefinitionError
		tableErr *domain.TableError
		aggErr   *schema.AggregateError
	)
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &defErr), errors.As(err, &tableErr), errors.As(err, &aggErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoRule),
		errors.Is(err, domain.ErrHeadUnderflow),
		errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, domain.ErrHalted),
		errors.Is(err, runner.ErrStepLimit):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
