package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/coach/httpapi"
	"github.com/abhisek/momentum/internal/coach/llmcoach"
	"github.com/abhisek/momentum/internal/config"
	"github.com/abhisek/momentum/internal/llm"
	"github.com/abhisek/momentum/internal/questionnaire"
)

// newCollaborator builds the configured backend wrapped with logging and
// metrics.
func newCollaborator(ctx context.Context) (coach.Collaborator, error) {
	cfg := rt.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var c coach.Collaborator
	switch cfg.Backend {
	case config.BackendHTTP:
		client, err := httpapi.New(httpapi.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout})
		if err != nil {
			return nil, err
		}
		c = client
	case config.BackendLLM:
		provider, err := llm.NewProvider(ctx, cfg.LLM, rt.logger, rt.metrics)
		if err != nil {
			return nil, fmt.Errorf("llm backend: %w", err)
		}
		c = llmcoach.New(provider, llmcoach.DefaultConfig())
	case config.BackendMock:
		c = coach.NewSampleMock()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	rt.logger.Info("collaborator ready", "backend", cfg.Backend)
	return coach.WithMetrics(coach.WithLogging(c, rt.logger), rt.metrics), nil
}

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog() (*questionnaire.Catalog, error) {
	path := rt.cfg.Catalog
	if path == "" {
		return questionnaire.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := questionnaire.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}
