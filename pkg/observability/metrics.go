package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Steps    *prometheus.CounterVec
	Runs     *prometheus.CounterVec
	RunSteps *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	reg.MustRegister(m.Steps, m.Runs, m.RunSteps)
	m.gatherer = reg
	return m
}

// NewMetricsWith registers the collectors on reg, e.g. prometheus.DefaultRegisterer.
func NewMetricsWith(reg prometheus.Registerer, g prometheus.Gatherer) (*Metrics, error) {
	m := newMetrics()
	for _, c := range []prometheus.Collector{m.Steps, m.Runs, m.RunSteps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	m.gatherer = g
	return m, nil
}

func newMetrics() *Metrics {
	return &Metrics{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_steps_total",
				Help: "Total number of executed transitions",
			},
			[]string{"machine", "state"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"machine", "outcome"},
		),
		RunSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Transitions executed per finished run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"machine"},
		),
	}
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Machine, e.From).Inc()
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			m.Runs.WithLabelValues(e.Machine, "halted").Inc()
			m.RunSteps.WithLabelValues(e.Machine).Observe(float64(e.Steps))
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			m.Runs.WithLabelValues(e.Machine, Outcome(e.Err)).Inc()
			m.RunSteps.WithLabelValues(e.Machine).Observe(float64(e.Steps))
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Outcome labels a step error for metrics: no_rule, underflow, unknown_state or error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsHalted(err):
		return "halted"
	case errors.Is(err, domain.ErrNoRule):
		return "no_rule"
	case errors.Is(err, domain.ErrHeadUnderflow):
		return "underflow"
	case errors.Is(err, domain.ErrUnknownState):
		return "unknown_state"
	}
	return "error"
}
