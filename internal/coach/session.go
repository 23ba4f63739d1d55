package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/momentum/internal/questionnaire"
)

// ErrNoProfile is returned when a plan is requested before a profile has
// been received, or while another plan request is in flight.
var ErrNoProfile = errors.New("no profile to plan for")

// SubmissionError is a failed questionnaire submission. The answers and
// cursor are left as they were, so the same Next can be retried.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Retryable is always true: a failed submission never changes local state.
func (e *SubmissionError) Retryable() bool { return true }

// PlanError is a failed plan request. The profile is kept.
type PlanError struct {
	ProfileID string
	Err       error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan generation for profile %s failed: %v", e.ProfileID, e.Err)
}

func (e *PlanError) Unwrap() error { return e.Err }

func (e *PlanError) Retryable() bool { return true }

// Submit sends sub and checks that the returned profile is usable. Any
// failure is returned as a *SubmissionError.
func Submit(ctx context.Context, c Collaborator, sub questionnaire.Submission) (*Profile, error) {
	p, err := c.SubmitQuestionnaire(ctx, sub)
	if err == nil {
		err = checkProfile(p)
	}
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	return p, nil
}

// RequestPlan asks for a plan for profileID. Any failure is returned as a
// *PlanError.
func RequestPlan(ctx context.Context, c Collaborator, profileID string) (*PlanResult, error) {
	r, err := c.GeneratePlan(ctx, profileID)
	if err == nil {
		err = checkPlan(r)
	}
	if err != nil {
		return nil, &PlanError{ProfileID: profileID, Err: err}
	}
	return r, nil
}

// Session drives a Navigator against a Collaborator synchronously. Each
// external call blocks the caller, which keeps at most one request in
// flight.
type Session struct {
	nav    *questionnaire.Navigator
	collab Collaborator

	profile *Profile
	plan    *PlanResult
}

// NewSession creates a session over nav.
func NewSession(nav *questionnaire.Navigator, c Collaborator) *Session {
	return &Session{nav: nav, collab: c}
}

// Navigator returns the underlying navigator.
func (s *Session) Navigator() *questionnaire.Navigator { return s.nav }

// Profile returns the received profile, or nil.
func (s *Session) Profile() *Profile { return s.profile }

// Plan returns the most recent plan, or nil.
func (s *Session) Plan() *PlanResult { return s.plan }

// Next advances the navigator. When the terminal step is completed the
// submission is sent before Next returns; on failure the returned error
// is a *SubmissionError and the navigator is back at the terminal step.
func (s *Session) Next(ctx context.Context) (questionnaire.Outcome, error) {
	out := s.nav.Next()
	if out != questionnaire.OutcomeSubmit {
		return out, nil
	}
	sub, _ := s.nav.Pending()
	p, err := Submit(ctx, s.collab, sub)
	if err != nil {
		s.nav.ResolveSubmission("", err)
		return out, err
	}
	s.profile = p
	s.nav.ResolveSubmission(p.ID, nil)
	return out, nil
}

// GeneratePlan requests a plan for the received profile. A failure returns
// a *PlanError and keeps the profile; an earlier plan is dropped, matching
// the navigator, which has no plan ready again until a request succeeds.
func (s *Session) GeneratePlan(ctx context.Context) (*PlanResult, error) {
	id, ok := s.nav.BeginPlan()
	if !ok {
		return nil, ErrNoProfile
	}
	r, err := RequestPlan(ctx, s.collab, id)
	if err != nil {
		s.plan = nil
		s.nav.ResolvePlan(err)
		return nil, err
	}
	s.plan = r
	s.nav.ResolvePlan(nil)
	return r, nil
}
