package coach

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/abhisek/momentum/internal/questionnaire"
)

// errMockExhausted is returned when a Mock has no canned response left.
var errMockExhausted = errors.New("mock: no canned response")

// MockProfile is a canned SubmitQuestionnaire result.
type MockProfile struct {
	Profile *Profile
	Err     error
}

// MockPlan is a canned GeneratePlan result.
type MockPlan struct {
	Plan *PlanResult
	Err  error
}

// Mock is a deterministic Collaborator. Canned results are returned in
// FIFO order and every request is recorded. With Sticky set the last
// canned result of each queue is returned forever instead of being
// consumed.
type Mock struct {
	mu       sync.Mutex
	profiles []MockProfile
	plans    []MockPlan
	stored   map[string]*PlanResult
	known    map[string]*Profile

	Sticky bool

	Submissions  []questionnaire.Submission
	PlanRequests []string
}

// NewMock creates a Mock with the given canned profiles.
func NewMock(profiles ...MockProfile) *Mock {
	return &Mock{
		profiles: profiles,
		stored:   make(map[string]*PlanResult),
		known:    make(map[string]*Profile),
	}
}

// NewSampleMock returns a sticky Mock that answers every request with the
// sample profile and plan.
func NewSampleMock() *Mock {
	m := NewMock(MockProfile{Profile: SampleProfile()})
	m.AddPlan(MockPlan{Plan: SamplePlan(SampleProfileID)})
	m.Sticky = true
	return m
}

// AddProfile appends a canned profile result.
func (m *Mock) AddProfile(r MockProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, r)
}

// AddPlan appends a canned plan result.
func (m *Mock) AddPlan(r MockPlan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, r)
}

func (m *Mock) SubmitQuestionnaire(ctx context.Context, sub questionnaire.Submission) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Submissions = append(m.Submissions, sub)
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: OpSubmit, Err: err}
	}
	if len(m.profiles) == 0 {
		return nil, &Error{Op: OpSubmit, Err: errMockExhausted}
	}
	r := m.profiles[0]
	if !m.Sticky || len(m.profiles) > 1 {
		m.profiles = m.profiles[1:]
	}
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Profile != nil {
		m.known[r.Profile.ID] = r.Profile
	}
	return r.Profile, nil
}

func (m *Mock) GeneratePlan(ctx context.Context, profileID string) (*PlanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PlanRequests = append(m.PlanRequests, profileID)
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: OpPlan, Err: err}
	}
	if len(m.plans) == 0 {
		return nil, &Error{Op: OpPlan, Err: errMockExhausted}
	}
	r := m.plans[0]
	if !m.Sticky || len(m.plans) > 1 {
		m.plans = m.plans[1:]
	}
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Plan != nil {
		stored := *r.Plan
		stored.ProfileID = profileID
		m.stored[profileID] = &stored
		return &stored, nil
	}
	return nil, nil
}

// FetchProfile returns a profile previously handed out by
// SubmitQuestionnaire.
func (m *Mock) FetchProfile(_ context.Context, profileID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.known[profileID]; ok {
		return p, nil
	}
	return nil, &Error{Op: OpFetchProfile, StatusCode: http.StatusNotFound, Err: errors.New("profile not found")}
}

// FetchPlan returns the last plan generated for profileID.
func (m *Mock) FetchPlan(_ context.Context, profileID string) (*PlanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.stored[profileID]; ok {
		return r, nil
	}
	return nil, &Error{Op: OpFetchPlan, StatusCode: http.StatusNotFound, Err: errors.New("plan not found")}
}

// SubmitCount returns the number of SubmitQuestionnaire calls made.
func (m *Mock) SubmitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Submissions)
}
