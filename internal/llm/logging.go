package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/momentum/internal/telemetry"
)

// LoggingProvider is a decorator that logs every LLM request and counts
// its tokens.
type LoggingProvider struct {
	inner   Provider
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// WithLogging wraps a Provider with request logging. metrics may be nil.
func WithLogging(p Provider, logger *slog.Logger, metrics *telemetry.Metrics) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingProvider{inner: p, logger: logger, metrics: metrics}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	model := l.inner.ModelID()
	if resp != nil && resp.Model != "" {
		model = resp.Model
	}
	attrs := []slog.Attr{
		slog.String("model", model),
		slog.String("purpose", purpose),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
	}
	if req.Schema != nil {
		attrs = append(attrs, slog.String("schema", req.Schema.Name))
	}
	if resp != nil {
		attrs = append(attrs,
			slog.Int("input_tokens", resp.Usage.InputTokens),
			slog.Int("output_tokens", resp.Usage.OutputTokens),
		)
		if c := LookupCost(model); c != nil {
			attrs = append(attrs, slog.Float64("cost_usd", c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)))
		}
		l.metrics.AddLLMTokens(model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "llm request failed", attrs...)
		return resp, err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "llm request", attrs...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
