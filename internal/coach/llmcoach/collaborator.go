// Package llmcoach is a Collaborator that scores questionnaires and writes
// plans with an LLM. Profiles and plans live in memory for the lifetime
// of the process.
package llmcoach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/llm"
	"github.com/abhisek/momentum/internal/questionnaire"
)

// Collaborator implements coach.Collaborator and coach.Fetcher on top of
// an llm.Provider.
type Collaborator struct {
	provider llm.Provider
	cfg      Config
	now      func() time.Time

	mu       sync.Mutex
	profiles map[string]stored
	plans    map[string]*coach.PlanResult
}

type stored struct {
	profile *coach.Profile
	sub     questionnaire.Submission
}

var (
	_ coach.Collaborator = (*Collaborator)(nil)
	_ coach.Fetcher      = (*Collaborator)(nil)
)

// New creates a Collaborator.
func New(provider llm.Provider, cfg Config) *Collaborator {
	return &Collaborator{
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
		profiles: make(map[string]stored),
		plans:    make(map[string]*coach.PlanResult),
	}
}

type scoresOutput struct {
	Axes      map[string]float64 `json:"axes"`
	Archetype string             `json:"archetype"`
}

// SubmitQuestionnaire scores sub and stores the resulting profile under a
// new id.
func (c *Collaborator) SubmitQuestionnaire(ctx context.Context, sub questionnaire.Submission) (*coach.Profile, error) {
	ctx = llm.WithPurpose(ctx, "scoring")

	req := llm.UserPrompt(scoringSystemPrompt, buildScoringUserMessage(sub), ScoresSchema, c.cfg.ScoreMaxTokens)
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, callError(coach.OpSubmit, err)
	}

	var out scoresOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &coach.ShapeError{Op: coach.OpSubmit, Body: resp.Content, Err: err}
	}

	axes := make(coach.Axes, len(out.Axes))
	for k, v := range out.Axes {
		axes[coach.AxisKey(k)] = v
	}
	p := &coach.Profile{
		ID:        uuid.NewString(),
		Archetype: out.Archetype,
		Axes:      axes,
		CreatedAt: c.now().UTC().Format(time.RFC3339),
	}
	if err := recheck(p, coach.DecodeProfile, coach.OpSubmit); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.profiles[p.ID] = stored{profile: p, sub: sub}
	c.mu.Unlock()
	return p, nil
}

// GeneratePlan writes a plan for a profile created by this Collaborator.
// Unknown ids fail with a 404 *coach.Error.
func (c *Collaborator) GeneratePlan(ctx context.Context, profileID string) (*coach.PlanResult, error) {
	c.mu.Lock()
	s, ok := c.profiles[profileID]
	c.mu.Unlock()
	if !ok {
		return nil, notFound(coach.OpPlan, "profile")
	}

	ctx = llm.WithPurpose(ctx, "planning")

	req := llm.UserPrompt(planSystemPrompt, buildPlanUserMessage(s.profile, s.sub), PlanSchema, c.cfg.PlanMaxTokens)
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, callError(coach.OpPlan, err)
	}

	var plan coach.Plan
	if err := json.Unmarshal(resp.Content, &plan); err != nil {
		return nil, &coach.ShapeError{Op: coach.OpPlan, Body: resp.Content, Err: err}
	}
	r := &coach.PlanResult{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Plan:      plan,
		CreatedAt: c.now().UTC().Format(time.RFC3339),
	}
	if err := recheck(r, coach.DecodePlanResult, coach.OpPlan); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.plans[profileID] = r
	c.mu.Unlock()
	return r, nil
}

// FetchProfile returns a stored profile.
func (c *Collaborator) FetchProfile(_ context.Context, profileID string) (*coach.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.profiles[profileID]
	if !ok {
		return nil, notFound(coach.OpFetchProfile, "profile")
	}
	return s.profile, nil
}

// FetchPlan returns the latest plan written for profileID.
func (c *Collaborator) FetchPlan(_ context.Context, profileID string) (*coach.PlanResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.plans[profileID]
	if !ok {
		return nil, notFound(coach.OpFetchPlan, "plan")
	}
	return r, nil
}

// recheck runs v through the same decoder the HTTP backend uses, so both
// backends accept exactly the same shapes.
func recheck[T any](v *T, decode func(string, json.RawMessage) (*T, error), op string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &coach.ShapeError{Op: op, Err: err}
	}
	_, err = decode(op, raw)
	return err
}

func notFound(op, what string) error {
	return &coach.Error{Op: op, StatusCode: http.StatusNotFound, Err: fmt.Errorf("%s not found", what)}
}

// callError maps LLM failures onto collaborator errors.
func callError(op string, err error) error {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &coach.ShapeError{Op: op, Body: invalid.Content, Err: err}
	}
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return &coach.ShapeError{Op: op, Body: truncated.Content, Err: err}
	}
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) {
		return &coach.Error{Op: op, StatusCode: http.StatusTooManyRequests, Err: err}
	}
	var unavailable *llm.ErrProviderUnavailable
	if errors.As(err, &unavailable) {
		return &coach.Error{Op: op, StatusCode: http.StatusBadGateway, Err: err}
	}
	return &coach.Error{Op: op, Err: err}
}
