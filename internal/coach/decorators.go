package coach

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/telemetry"
)

// loggingCollaborator records every collaborator call.
type loggingCollaborator struct {
	inner  Collaborator
	logger *slog.Logger
}

// WithLogging wraps a Collaborator so that every call is logged with its
// operation, latency and outcome.
func WithLogging(c Collaborator, logger *slog.Logger) Collaborator {
	return &loggingCollaborator{inner: c, logger: logger}
}

func (l *loggingCollaborator) SubmitQuestionnaire(ctx context.Context, sub questionnaire.Submission) (*Profile, error) {
	start := time.Now()
	p, err := l.inner.SubmitQuestionnaire(ctx, sub)

	attrs := []slog.Attr{slog.Int("fields", sub.Len())}
	if p != nil {
		attrs = append(attrs, slog.String("profile_id", p.ID), slog.String("archetype", p.Archetype))
	}
	l.log(ctx, OpSubmit, start, err, attrs...)
	return p, err
}

func (l *loggingCollaborator) GeneratePlan(ctx context.Context, profileID string) (*PlanResult, error) {
	start := time.Now()
	r, err := l.inner.GeneratePlan(ctx, profileID)

	attrs := []slog.Attr{slog.String("profile_id", profileID)}
	if r != nil {
		attrs = append(attrs, slog.Int("time_blocks", len(r.Plan.SuggestedTimeBlocks)))
	}
	l.log(ctx, OpPlan, start, err, attrs...)
	return r, err
}

func (l *loggingCollaborator) FetchProfile(ctx context.Context, profileID string) (*Profile, error) {
	f, err := fetcher(l.inner)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := f.FetchProfile(ctx, profileID)
	l.log(ctx, OpFetchProfile, start, err, slog.String("profile_id", profileID))
	return p, err
}

func (l *loggingCollaborator) FetchPlan(ctx context.Context, profileID string) (*PlanResult, error) {
	f, err := fetcher(l.inner)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	r, err := f.FetchPlan(ctx, profileID)
	l.log(ctx, OpFetchPlan, start, err, slog.String("profile_id", profileID))
	return r, err
}

func (l *loggingCollaborator) log(ctx context.Context, op string, start time.Time, err error, extra ...slog.Attr) {
	attrs := append([]slog.Attr{
		slog.String("op", op),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
		slog.String("outcome", Outcome(err)),
	}, extra...)

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(ctx, level, "collaborator call", attrs...)
}

// metricsCollaborator records call counts and latency.
type metricsCollaborator struct {
	inner   Collaborator
	metrics *telemetry.Metrics
}

// WithMetrics wraps a Collaborator so that every call is counted by
// operation and outcome.
func WithMetrics(c Collaborator, m *telemetry.Metrics) Collaborator {
	return &metricsCollaborator{inner: c, metrics: m}
}

func (m *metricsCollaborator) SubmitQuestionnaire(ctx context.Context, sub questionnaire.Submission) (*Profile, error) {
	start := time.Now()
	p, err := m.inner.SubmitQuestionnaire(ctx, sub)
	m.metrics.ObserveCall(OpSubmit, Outcome(err), time.Since(start))
	return p, err
}

func (m *metricsCollaborator) GeneratePlan(ctx context.Context, profileID string) (*PlanResult, error) {
	start := time.Now()
	r, err := m.inner.GeneratePlan(ctx, profileID)
	m.metrics.ObserveCall(OpPlan, Outcome(err), time.Since(start))
	return r, err
}

func (m *metricsCollaborator) FetchProfile(ctx context.Context, profileID string) (*Profile, error) {
	f, err := fetcher(m.inner)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := f.FetchProfile(ctx, profileID)
	m.metrics.ObserveCall(OpFetchProfile, Outcome(err), time.Since(start))
	return p, err
}

func (m *metricsCollaborator) FetchPlan(ctx context.Context, profileID string) (*PlanResult, error) {
	f, err := fetcher(m.inner)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	r, err := f.FetchPlan(ctx, profileID)
	m.metrics.ObserveCall(OpFetchPlan, Outcome(err), time.Since(start))
	return r, err
}

func fetcher(c Collaborator) (Fetcher, error) {
	if f, ok := c.(Fetcher); ok {
		return f, nil
	}
	return nil, errors.ErrUnsupported
}
