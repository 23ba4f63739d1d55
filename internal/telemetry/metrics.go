// Package telemetry holds the Prometheus collectors of the application.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "momentum"

// Metrics exposes the collectors reporting collaborator calls, LLM token
// use and questionnaire navigation. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	calls       *prometheus.CounterVec
	callLatency *prometheus.HistogramVec
	refusals    *prometheus.CounterVec
	llmTokens   *prometheus.CounterVec
}

// MustNewMetrics creates the collectors and registers them with reg,
// reusing collectors that are already registered. Any other registration
// error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "collaborator",
				Name:      "calls_total",
				Help:      "Collaborator calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		callLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "collaborator",
				Name:      "call_duration_seconds",
				Help:      "Latency of collaborator calls.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"op"},
		),
		refusals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "questionnaire",
				Name:      "step_refusals_total",
				Help:      "Forward navigation refused by the step validator.",
			},
			[]string{"field"},
		),
		llmTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "llm",
				Name:      "tokens_total",
				Help:      "LLM tokens consumed by model and direction.",
			},
			[]string{"model", "direction"},
		),
	}

	m.calls = register(reg, m.calls)
	m.callLatency = register(reg, m.callLatency)
	m.refusals = register(reg, m.refusals)
	m.llmTokens = register(reg, m.llmTokens)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveCall records one collaborator call.
func (m *Metrics) ObserveCall(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
	m.callLatency.WithLabelValues(op).Observe(d.Seconds())
}

// IncStepRefusal counts a refused Next on the step named field.
func (m *Metrics) IncStepRefusal(field string) {
	if m == nil {
		return
	}
	m.refusals.WithLabelValues(field).Inc()
}

// AddLLMTokens records token usage of one LLM request.
func (m *Metrics) AddLLMTokens(model string, input, output int) {
	if m == nil {
		return
	}
	m.llmTokens.WithLabelValues(model, "input").Add(float64(input))
	m.llmTokens.WithLabelValues(model, "output").Add(float64(output))
}

// Serve exposes the gatherer on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listener started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
