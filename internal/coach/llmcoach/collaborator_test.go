package llmcoach

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/llm"
	"github.com/abhisek/momentum/internal/questionnaire"
)

const scoresJSON = `{
	"axes": {
		"purpose_clarity": 72,
		"energy_chronotype": 88,
		"focus_capacity": 65,
		"habit_foundation": 50,
		"mindset": 95,
		"skill_fit": 60
	},
	"archetype": "Purpose-driven + High Energy + High Focus"
}`

func planJSON(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(coach.SamplePlan("x").Plan)
	require.NoError(t, err)
	return raw
}

func submission() questionnaire.Submission {
	c := questionnaire.DefaultCatalog()
	a := questionnaire.NewAnswers(c)
	a.Set("energizing_activities", questionnaire.Text("Coding side projects"))
	a.Set("chronotype", questionnaire.Choice("Early morning"))
	return questionnaire.Assemble(a)
}

func newCollaborator(mock *llm.MockProvider) *Collaborator {
	c := New(mock, DefaultConfig())
	c.now = func() time.Time { return time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC) }
	return c
}

func TestSubmitQuestionnaire(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(scoresJSON)})
	c := newCollaborator(mock)

	p, err := c.SubmitQuestionnaire(context.Background(), submission())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, Archetypes[0], p.Archetype)
	assert.Equal(t, 88.0, p.Axes[coach.AxisEnergyChronotype])
	assert.Equal(t, "2025-01-06T09:30:00Z", p.CreatedAt)

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, ScoresSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "- energizing_activities: Coding side projects")
	assert.Contains(t, req.Messages[0].Content, "- morning_routine_duration: (not answered)")

	got, err := c.FetchProfile(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestSubmitQuestionnaire_SchemaViolation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"axes":{"purpose_clarity":150},"archetype":"Unknown"}`),
	})
	c := newCollaborator(mock)

	_, err := c.SubmitQuestionnaire(context.Background(), submission())
	var shapeErr *coach.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, coach.OpSubmit, shapeErr.Op)
	assert.Equal(t, "invalid_response", coach.Outcome(err))
}

func TestSubmitQuestionnaire_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"unavailable", &llm.ErrProviderUnavailable{}, "server_error"},
		{"rate limited", &llm.ErrRateLimit{}, "client_error"},
		{"truncated", &llm.ErrMaxTokensExceeded{}, "invalid_response"},
		{"deadline", context.DeadlineExceeded, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollaborator(llm.NewMockProvider(llm.MockResponse{Err: tt.err}))
			_, err := coach.Submit(context.Background(), c, submission())
			var subErr *coach.SubmissionError
			require.ErrorAs(t, err, &subErr)
			assert.Equal(t, tt.outcome, coach.Outcome(err))
		})
	}
}

func TestGeneratePlan(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(scoresJSON)},
		llm.MockResponse{Content: planJSON(t)},
	)
	c := newCollaborator(mock)

	p, err := c.SubmitQuestionnaire(context.Background(), submission())
	require.NoError(t, err)

	r, err := c.GeneratePlan(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, r.ProfileID)
	assert.Len(t, r.Plan.Pillars, 3)
	assert.NotEmpty(t, r.ID)

	req, _ := mock.LastRequest()
	assert.Equal(t, PlanSchema, req.Schema)
	prompt := req.Messages[0].Content
	assert.True(t, strings.HasPrefix(prompt, "Archetype: "+Archetypes[0]))
	assert.Contains(t, prompt, "- Energy & chronotype: 88")

	got, err := c.FetchPlan(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Same(t, r, got)
}

func TestGeneratePlan_UnknownProfile(t *testing.T) {
	mock := llm.NewMockProvider()
	c := newCollaborator(mock)

	_, err := c.GeneratePlan(context.Background(), "missing")
	var callErr *coach.Error
	require.ErrorAs(t, err, &callErr)
	assert.True(t, callErr.NotFound())
	assert.Zero(t, mock.CallCount())

	_, err = c.FetchPlan(context.Background(), "missing")
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, coach.OpFetchPlan, callErr.Op)
}

func TestGeneratePlan_WrongPillarCount(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(scoresJSON)},
		llm.MockResponse{Content: json.RawMessage(`{"yearly_goal":"g","pillars":["a"],"monthly_template":"","weekly_template":"","daily_template":"","suggested_time_blocks":[],"habit_stack":[],"justification":""}`)},
	)
	c := newCollaborator(mock)

	p, err := c.SubmitQuestionnaire(context.Background(), submission())
	require.NoError(t, err)

	_, err = coach.RequestPlan(context.Background(), c, p.ID)
	var planErr *coach.PlanError
	require.ErrorAs(t, err, &planErr)
	var shapeErr *coach.ShapeError
	assert.ErrorAs(t, err, &shapeErr)

	_, err = c.FetchPlan(context.Background(), p.ID)
	assert.Error(t, err, "failed plans are not stored")
}

func TestScoringPrompt_DescribesArchetypeRules(t *testing.T) {
	msg := buildScoringUserMessage(submission())
	for _, a := range Archetypes {
		assert.Contains(t, msg, a)
	}
	for _, k := range coach.AllAxes {
		assert.Contains(t, msg, string(k))
	}
}
