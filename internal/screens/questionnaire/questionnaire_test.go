package questionnaire

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/screen"
	"github.com/abhisek/momentum/internal/telemetry"
	"github.com/abhisek/momentum/internal/ui/layout"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var (
	enter    = specialKey(tea.KeyEnter)
	space    = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	tab      = specialKey(tea.KeyTab)
	shiftTab = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
)

// stubScreen stands in for the results screen.
type stubScreen struct{ profile *coach.Profile }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "results" }
func (s *stubScreen) Title() string                           { return "Results" }

func newScreen(t *testing.T, collab coach.Collaborator, opts Options) (*Screen, *questionnaire.Navigator) {
	t.Helper()
	nav := questionnaire.NewNavigator(questionnaire.NewAnswers(questionnaire.DefaultCatalog()))
	s := New(nav, collab, opts)
	s.Init()
	return s, nav
}

// answerChoices fills every single choice step so that Enter walks
// straight to the terminal step.
func answerChoices(t *testing.T, a *questionnaire.Answers) {
	t.Helper()
	for field, option := range map[string]string{
		"chronotype":       "Early morning",
		"habit_count":      "1-2",
		"setback_reaction": "adjust approach and try again",
	} {
		step, ok := a.Catalog().Lookup(field)
		require.True(t, ok)
		require.True(t, a.Choose(step, option))
	}
}

func send(t *testing.T, s screen.Screen, msgs ...tea.Msg) (screen.Screen, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, m := range msgs {
		s, cmd = s.Update(m)
	}
	return s, cmd
}

func typeText(t *testing.T, s screen.Screen, text string) screen.Screen {
	t.Helper()
	for _, r := range text {
		s, _ = s.Update(keyPress(r))
	}
	return s
}

// advanceTo presses Enter until the navigator reaches field.
func advanceTo(t *testing.T, s screen.Screen, nav *questionnaire.Navigator, field string) screen.Screen {
	t.Helper()
	for i := 0; i < nav.Len() && nav.Step().Field != field; i++ {
		s, _ = s.Update(enter)
	}
	require.Equal(t, field, nav.Step().Field)
	return s
}

// submitted runs cmd and returns the submission result it produces,
// skipping spinner ticks.
func submitted(t *testing.T, cmd tea.Cmd) submittedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case submittedMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if m, ok := c().(submittedMsg); ok {
				return m
			}
		}
	}
	t.Fatal("command did not produce a submission result")
	return submittedMsg{}
}

func TestScreen_TitleAndStatus(t *testing.T) {
	s, _ := newScreen(t, coach.NewSampleMock(), Options{})
	assert.Equal(t, "Questionnaire", s.Title())
	assert.Equal(t, "Step 1/12", s.Status())
}

func TestScreen_FreeTextIsStored(t *testing.T) {
	s, nav := newScreen(t, coach.NewSampleMock(), Options{})
	typeText(t, s, "running")
	assert.Equal(t, "running", nav.Answers().Text("energizing_activities"))

	send(t, s, enter)
	assert.Equal(t, 1, nav.Index())

	send(t, s, shiftTab)
	assert.Equal(t, 0, nav.Index())
	assert.Equal(t, "running", s.inputs[0].Value(), "input is restored from the answers")
}

func TestScreen_RefusesUnansweredChoice(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.MustNewMetrics(reg)
	s, nav := newScreen(t, coach.NewSampleMock(), Options{Metrics: m})

	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "chronotype")
	scr, _ = send(t, scr, enter)

	assert.Equal(t, "chronotype", nav.Step().Field, "cursor stays put")
	assert.Contains(t, scr.View(80, 30), "Pick one option to continue.")

	expected := `
# HELP momentum_questionnaire_step_refusals_total Forward navigation refused by the step validator.
# TYPE momentum_questionnaire_step_refusals_total counter
momentum_questionnaire_step_refusals_total{field="chronotype"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "momentum_questionnaire_step_refusals_total"))

	send(t, scr, specialKey(tea.KeyDown), space, enter)
	chosen, ok := nav.Answers().Choice("chronotype")
	require.True(t, ok)
	assert.Equal(t, "Late morning", chosen)
	assert.Equal(t, "morning_routine", nav.Step().Field)
}

func TestScreen_SelectionLimit(t *testing.T) {
	s, nav := newScreen(t, coach.NewSampleMock(), Options{})
	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "skills")

	down := specialKey(tea.KeyDown)
	scr, _ = send(t, scr, space, down, space, down, space, down, space)

	step := nav.Step()
	assert.Equal(t, "3/3", nav.Answers().SelectionCount(step))
	assert.False(t, nav.Answers().Selected(step, "Marketing"))
	assert.Contains(t, scr.View(80, 30), "You can pick up to 3.")

	// Removing one frees a slot.
	scr, _ = send(t, scr, specialKey(tea.KeyUp), space, down, down, space)
	assert.False(t, nav.Answers().Selected(step, "Writing"))
	assert.True(t, nav.Answers().Selected(step, "Marketing"))
	assert.NotContains(t, scr.View(80, 30), "You can pick up to")
}

func TestScreen_NumericPair(t *testing.T) {
	s, nav := newScreen(t, coach.NewSampleMock(), Options{})
	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "focus_hours")

	scr, _ = send(t, scr, specialKey(tea.KeyUp), specialKey(tea.KeyUp))
	scr, _ = send(t, scr, tab, specialKey(tea.KeyDown))

	a := nav.Answers()
	assert.Equal(t, 3.0, a.Number("weekday_hours"))
	assert.Equal(t, 1.5, a.Number("weekend_hours"))

	view := scr.View(80, 30)
	assert.Contains(t, view, "Weekday hours")
	assert.Contains(t, view, "Weekend hours")
}

func TestScreen_BoundedScaleClamps(t *testing.T) {
	s, nav := newScreen(t, coach.NewSampleMock(), Options{})
	answerChoices(t, nav.Answers())
	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "commitment_level")

	for range 10 {
		scr, _ = send(t, scr, specialKey(tea.KeyUp))
	}
	assert.Equal(t, 10, nav.Answers().Integer("commitment_level"))
}

func TestScreen_ConditionalDuration(t *testing.T) {
	s, nav := newScreen(t, coach.NewSampleMock(), Options{})
	answerChoices(t, nav.Answers())
	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "morning_routine")

	scr = typeText(t, scr, "none")
	assert.NotContains(t, scr.View(80, 30), "Duration (minutes)")
	scr, _ = send(t, scr, tab)
	assert.Equal(t, 0, s.focus, "the hidden duration field is not a tab stop")

	for range 4 {
		scr, _ = send(t, scr, specialKey(tea.KeyBackspace))
	}
	scr = typeText(t, scr, "stretch")
	assert.Contains(t, scr.View(80, 30), "Duration (minutes)")

	scr, _ = send(t, scr, tab)
	require.Equal(t, 1, s.focus)
	typeText(t, scr, "2x5")

	n, ok := nav.Answers().OptionalInt("morning_routine_duration")
	require.True(t, ok)
	assert.Equal(t, 25, n)
	assert.Equal(t, "stretch", nav.Answers().Text("morning_routine"))
}

func TestScreen_SubmitReplacesWithResults(t *testing.T) {
	mock := coach.NewSampleMock()
	var gotNav *questionnaire.Navigator
	s, nav := newScreen(t, mock, Options{
		OnProfile: func(nav *questionnaire.Navigator, p *coach.Profile) screen.Screen {
			gotNav = nav
			return &stubScreen{profile: p}
		},
	})
	answerChoices(t, nav.Answers())

	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "commitment_level")
	scr, cmd := send(t, scr, enter)
	require.Equal(t, questionnaire.PhaseSubmitting, nav.Phase())
	assert.Contains(t, scr.View(80, 30), "Submitting your answers")

	// A second Enter while the request is out is ignored.
	_, again := send(t, scr, enter)
	assert.Nil(t, again)

	msg := submitted(t, cmd)
	require.NoError(t, msg.Err)
	next, _ := send(t, scr, msg)

	stub, ok := next.(*stubScreen)
	require.True(t, ok, "got %T", next)
	assert.Equal(t, coach.SampleProfileID, stub.profile.ID)
	assert.Same(t, nav, gotNav)
	assert.Equal(t, questionnaire.PhaseProfileReady, nav.Phase())
	assert.Equal(t, coach.SampleProfileID, nav.ProfileID())
	assert.Equal(t, 1, mock.SubmitCount())
	require.Len(t, mock.Submissions, 1)
	assert.Equal(t, 16, mock.Submissions[0].Len())
}

func TestScreen_SubmitFailureCanBeRetried(t *testing.T) {
	mock := coach.NewMock(
		coach.MockProfile{Err: &coach.Error{Op: coach.OpSubmit, StatusCode: 500, Err: errors.New("boom")}},
		coach.MockProfile{Profile: coach.SampleProfile()},
	)
	var got *coach.Profile
	s, nav := newScreen(t, mock, Options{
		OnProfile: func(_ *questionnaire.Navigator, p *coach.Profile) screen.Screen {
			got = p
			return &stubScreen{profile: p}
		},
	})
	answerChoices(t, nav.Answers())

	var scr screen.Screen = s
	scr = advanceTo(t, scr, nav, "commitment_level")
	scr, _ = send(t, scr, specialKey(tea.KeyUp))

	scr, cmd := send(t, scr, enter)
	scr, _ = send(t, scr, submitted(t, cmd))

	assert.Equal(t, questionnaire.PhaseAnswering, nav.Phase())
	assert.Equal(t, "commitment_level", nav.Step().Field)
	assert.Equal(t, 6, nav.Answers().Integer("commitment_level"), "answers survive the failure")
	var subErr *coach.SubmissionError
	assert.ErrorAs(t, nav.LastError(), &subErr)
	assert.Contains(t, scr.View(80, 30), "Press Enter to try again")

	scr, cmd = send(t, scr, enter)
	next, _ := send(t, scr, submitted(t, cmd))
	assert.IsType(t, &stubScreen{}, next)
	require.NotNil(t, got)
	assert.Equal(t, 2, mock.SubmitCount())
	v, _ := mock.Submissions[1].Value("commitment_level")
	assert.Equal(t, 6, v)
}

func TestScreen_KeyHints(t *testing.T) {
	s, nav := newScreen(t, coach.NewSampleMock(), Options{})
	answerChoices(t, nav.Answers())

	descriptions := func() []string {
		var out []string
		for _, h := range s.KeyHints() {
			out = append(out, h.Description)
		}
		return out
	}
	assert.Equal(t, []string{"Next"}, descriptions())

	advanceTo(t, s, nav, "commitment_level")
	assert.Equal(t, []string{"Adjust", "Submit", "Back"}, descriptions())
	assert.IsType(t, []layout.KeyHint{}, s.KeyHints())
}
