// Package coach defines the contract with the external scoring and
// planning collaborator, the result shapes it returns and the session
// driver that resolves questionnaire requests against it.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/momentum/internal/questionnaire"
)

// Operation names used in errors, logs and metrics.
const (
	OpSubmit       = "submit_questionnaire"
	OpPlan         = "generate_plan"
	OpFetchProfile = "fetch_profile"
	OpFetchPlan    = "fetch_plan"
)

// Collaborator scores a submission and writes a plan for the resulting
// profile. Each call is a single request awaiting a single response.
type Collaborator interface {
	SubmitQuestionnaire(ctx context.Context, sub questionnaire.Submission) (*Profile, error)
	GeneratePlan(ctx context.Context, profileID string) (*PlanResult, error)
}

// Fetcher is implemented by collaborators that keep results and can return
// them again by identifier.
type Fetcher interface {
	FetchProfile(ctx context.Context, profileID string) (*Profile, error)
	FetchPlan(ctx context.Context, profileID string) (*PlanResult, error)
}

// Error is a failed collaborator call: the transport failed or the
// collaborator answered with a non-success status.
type Error struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports whether the collaborator did not know the requested
// identifier.
func (e *Error) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// ShapeError indicates a response that could not be used: malformed JSON,
// a schema violation or a missing identifier.
type ShapeError struct {
	Op   string
	Body json.RawMessage
	Err  error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unusable response: %v", e.Op, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// Outcome classifies the result of a collaborator call for logs and
// metrics.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		return "invalid_response"
	}
	var callErr *Error
	if errors.As(err, &callErr) {
		switch {
		case callErr.StatusCode >= 500:
			return "server_error"
		case callErr.StatusCode >= 400:
			return "client_error"
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}

// checkProfile rejects a profile that cannot key a later plan request.
func checkProfile(p *Profile) error {
	if p == nil {
		return &ShapeError{Op: OpSubmit, Err: errors.New("empty profile")}
	}
	if p.ID == "" {
		return &ShapeError{Op: OpSubmit, Err: errors.New("profile has no id")}
	}
	return nil
}

func checkPlan(r *PlanResult) error {
	if r == nil {
		return &ShapeError{Op: OpPlan, Err: errors.New("empty plan")}
	}
	return nil
}
