package questionnaire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkToTerminal fills every step and advances to the last one.
func walkToTerminal(t *testing.T) *Navigator {
	t.Helper()
	a := NewAnswers(DefaultCatalog())
	fillAll(t, a)
	nav := NewNavigator(a)
	for !nav.IsTerminal() {
		require.Equal(t, OutcomeAdvanced, nav.Next())
	}
	return nav
}

func TestNavigator_StartsAtFirstStep(t *testing.T) {
	nav := NewNavigator(NewAnswers(DefaultCatalog()))

	assert.Equal(t, 0, nav.Index())
	assert.Equal(t, 12, nav.Len())
	assert.Equal(t, PhaseAnswering, nav.Phase())
	assert.Equal(t, "energizing_activities", nav.Step().Field)
	assert.InDelta(t, 1.0/12, nav.Progress(), 1e-9)
}

func TestNavigator_PreviousAtFirstStepIsNoop(t *testing.T) {
	nav := NewNavigator(NewAnswers(DefaultCatalog()))

	assert.False(t, nav.Previous())
	assert.Equal(t, 0, nav.Index())

	require.Equal(t, OutcomeAdvanced, nav.Next())
	assert.True(t, nav.Previous())
	assert.Equal(t, 0, nav.Index())
}

func TestNavigator_RefusesUnsetSingleChoice(t *testing.T) {
	c := DefaultCatalog()
	a := NewAnswers(c)
	nav := NewNavigator(a)

	for nav.Step().Kind != KindSingleChoice {
		require.Equal(t, OutcomeAdvanced, nav.Next())
	}
	at := nav.Index()

	assert.Equal(t, OutcomeRefused, nav.Next())
	assert.Equal(t, at, nav.Index())

	require.True(t, a.Choose(nav.Step(), nav.Step().Options[0]))
	assert.Equal(t, OutcomeAdvanced, nav.Next())
	assert.Equal(t, at+1, nav.Index())
}

func TestNavigator_CursorStaysInBounds(t *testing.T) {
	nav := walkToTerminal(t)
	last := nav.Len() - 1

	assert.Equal(t, last, nav.Index())
	assert.InDelta(t, 1.0, nav.Progress(), 1e-9)

	for nav.Previous() {
	}
	assert.Equal(t, 0, nav.Index())
}

func TestNavigator_TerminalNextSubmitsOnce(t *testing.T) {
	nav := walkToTerminal(t)
	last := nav.Index()

	require.Equal(t, OutcomeSubmit, nav.Next())
	assert.Equal(t, last, nav.Index(), "cursor does not move past the terminal step")
	assert.Equal(t, PhaseSubmitting, nav.Phase())

	// Repeated Next and Previous while the submission is pending are ignored.
	assert.Equal(t, OutcomeIgnored, nav.Next())
	assert.False(t, nav.Previous())

	sub, ok := nav.Pending()
	require.True(t, ok)
	assert.Equal(t, 16, sub.Len())
}

func TestNavigator_SubmissionFailureAllowsRetry(t *testing.T) {
	nav := walkToTerminal(t)
	require.Equal(t, OutcomeSubmit, nav.Next())
	first, _ := nav.Pending()

	boom := errors.New("scoring service unavailable")
	nav.ResolveSubmission("", boom)

	assert.Equal(t, PhaseAnswering, nav.Phase())
	assert.True(t, nav.IsTerminal())
	assert.ErrorIs(t, nav.LastError(), boom)
	require.NotNil(t, nav.Answers(), "answers are kept after a failure")
	_, pending := nav.Pending()
	assert.False(t, pending)

	require.Equal(t, OutcomeSubmit, nav.Next())
	assert.NoError(t, nav.LastError())
	second, _ := nav.Pending()
	assert.Equal(t, first.Map(), second.Map())
}

func TestNavigator_SubmissionSuccessDiscardsAnswers(t *testing.T) {
	nav := walkToTerminal(t)
	require.Equal(t, OutcomeSubmit, nav.Next())

	nav.ResolveSubmission("p-123", nil)

	assert.Equal(t, PhaseProfileReady, nav.Phase())
	assert.Equal(t, "p-123", nav.ProfileID())
	assert.Nil(t, nav.Answers())
	assert.Equal(t, OutcomeIgnored, nav.Next())

	// A late second resolution is dropped.
	nav.ResolveSubmission("p-999", nil)
	assert.Equal(t, "p-123", nav.ProfileID())
}

func TestNavigator_PlanTransitions(t *testing.T) {
	nav := walkToTerminal(t)

	_, ok := nav.BeginPlan()
	assert.False(t, ok, "no profile yet")

	require.Equal(t, OutcomeSubmit, nav.Next())
	nav.ResolveSubmission("p-1", nil)

	id, ok := nav.BeginPlan()
	require.True(t, ok)
	assert.Equal(t, "p-1", id)
	assert.Equal(t, PhasePlanPending, nav.Phase())

	_, ok = nav.BeginPlan()
	assert.False(t, ok, "plan already in flight")

	boom := errors.New("timeout")
	nav.ResolvePlan(boom)
	assert.Equal(t, PhaseProfileReady, nav.Phase())
	assert.ErrorIs(t, nav.LastError(), boom)

	_, ok = nav.BeginPlan()
	require.True(t, ok)
	assert.NoError(t, nav.LastError())
	nav.ResolvePlan(nil)
	assert.Equal(t, PhasePlanReady, nav.Phase())

	// A plan can be regenerated.
	_, ok = nav.BeginPlan()
	assert.True(t, ok)
}

func TestPhaseAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "plan_pending", PhasePlanPending.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.Equal(t, "submit", OutcomeSubmit.String())
	assert.Equal(t, "ignored", OutcomeIgnored.String())
}
