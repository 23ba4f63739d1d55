package coach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/momentum/internal/questionnaire"
)

// newTerminalSession returns a session whose navigator sits on the last
// step with every single choice answered.
func newTerminalSession(t *testing.T, c Collaborator) *Session {
	t.Helper()
	cat := questionnaire.DefaultCatalog()
	a := questionnaire.NewAnswers(cat)
	for _, s := range cat.Steps() {
		if s.Kind == questionnaire.KindSingleChoice {
			require.True(t, a.Choose(s, s.Options[0]))
		}
	}
	a.Set("outcome_1", questionnaire.Text("Ship a product"))

	s := NewSession(questionnaire.NewNavigator(a), c)
	for !s.Navigator().IsTerminal() {
		out, err := s.Next(context.Background())
		require.NoError(t, err)
		require.Equal(t, questionnaire.OutcomeAdvanced, out)
	}
	return s
}

// A failed submission leaves the cursor and answers alone and
// the same Next re-issues the call.
func TestSession_SubmissionFailureThenRetry(t *testing.T) {
	boom := &Error{Op: OpSubmit, StatusCode: 500, Err: errors.New("Error processing questionnaire")}
	mock := NewMock(MockProfile{Err: boom}, MockProfile{Profile: SampleProfile()})
	s := newTerminalSession(t, mock)
	nav := s.Navigator()
	before := nav.Answers().Clone()
	last := nav.Index()

	out, err := s.Next(context.Background())
	assert.Equal(t, questionnaire.OutcomeSubmit, out)
	require.Error(t, err)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.True(t, subErr.Retryable())
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, last, nav.Index())
	assert.Equal(t, questionnaire.PhaseAnswering, nav.Phase())
	assert.Equal(t, questionnaire.Assemble(before).Map(), questionnaire.Assemble(nav.Answers()).Map())
	assert.Nil(t, s.Profile())

	out, err = s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, questionnaire.OutcomeSubmit, out)
	assert.Equal(t, 2, mock.SubmitCount())
	assert.Equal(t, mock.Submissions[0].Map(), mock.Submissions[1].Map())

	require.NotNil(t, s.Profile())
	assert.Equal(t, SampleProfileID, nav.ProfileID())
	assert.Equal(t, questionnaire.PhaseProfileReady, nav.Phase())
	assert.Nil(t, nav.Answers())
}

func TestSession_ProfileWithoutIDIsShapeError(t *testing.T) {
	mock := NewMock(MockProfile{Profile: &Profile{Archetype: "x"}})
	s := newTerminalSession(t, mock)

	_, err := s.Next(context.Background())
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, questionnaire.PhaseAnswering, s.Navigator().Phase())
}

func TestSession_NextAfterProfileIsIgnored(t *testing.T) {
	mock := NewMock(MockProfile{Profile: SampleProfile()})
	s := newTerminalSession(t, mock)

	_, err := s.Next(context.Background())
	require.NoError(t, err)

	out, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, questionnaire.OutcomeIgnored, out)
	assert.Equal(t, 1, mock.SubmitCount())
}

func TestSession_GeneratePlan(t *testing.T) {
	mock := NewMock(MockProfile{Profile: SampleProfile()})
	s := newTerminalSession(t, mock)

	_, err := s.GeneratePlan(context.Background())
	require.ErrorIs(t, err, ErrNoProfile)

	_, err = s.Next(context.Background())
	require.NoError(t, err)

	mock.AddPlan(MockPlan{Err: &Error{Op: OpPlan, StatusCode: 404, Err: errors.New("Profile not found")}})
	mock.AddPlan(MockPlan{Plan: SamplePlan(SampleProfileID)})

	_, err = s.GeneratePlan(context.Background())
	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, SampleProfileID, planErr.ProfileID)
	assert.Equal(t, questionnaire.PhaseProfileReady, s.Navigator().Phase())
	assert.Nil(t, s.Plan())
	require.NotNil(t, s.Profile(), "profile survives a failed plan")

	r, err := s.GeneratePlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SampleProfileID, r.ProfileID)
	assert.Len(t, r.Plan.Pillars, 3)
	assert.Equal(t, questionnaire.PhasePlanReady, s.Navigator().Phase())
	assert.Equal(t, []string{SampleProfileID, SampleProfileID}, mock.PlanRequests)
}

func TestSession_FailedRegenerationDropsPlan(t *testing.T) {
	mock := NewMock(MockProfile{Profile: SampleProfile()})
	mock.AddPlan(MockPlan{Plan: SamplePlan(SampleProfileID)})
	mock.AddPlan(MockPlan{Err: &Error{Op: OpPlan, StatusCode: 502, Err: errors.New("upstream down")}})
	s := newTerminalSession(t, mock)

	_, err := s.Next(context.Background())
	require.NoError(t, err)
	_, err = s.GeneratePlan(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.Plan())

	_, err = s.GeneratePlan(context.Background())
	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, questionnaire.PhaseProfileReady, s.Navigator().Phase())
	assert.Nil(t, s.Plan(), "no plan while the navigator has none ready")
	assert.NotNil(t, s.Profile())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&ShapeError{Op: OpSubmit, Err: errors.New("bad")}, "invalid_response"},
		{&Error{Op: OpSubmit, StatusCode: 503, Err: errors.New("down")}, "server_error"},
		{&Error{Op: OpPlan, StatusCode: 404, Err: errors.New("missing")}, "client_error"},
		{&Error{Op: OpPlan, Err: context.DeadlineExceeded}, "timeout"},
		{&SubmissionError{Err: context.Canceled}, "canceled"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
