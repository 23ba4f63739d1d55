// Package questionnaire is the screen that walks the user through the
// catalog one step at a time and submits the answers.
package questionnaire

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/screen"
	"github.com/abhisek/momentum/internal/telemetry"
	"github.com/abhisek/momentum/internal/ui/components"
	"github.com/abhisek/momentum/internal/ui/layout"
)

// Options configures the screen.
type Options struct {
	Context context.Context
	Metrics *telemetry.Metrics
	Logger  *slog.Logger

	// OnProfile builds the screen that takes this one's place in the
	// router once a profile has been received.
	OnProfile func(nav *questionnaire.Navigator, p *coach.Profile) screen.Screen
}

// Screen implements screen.Screen for the questionnaire.
type Screen struct {
	nav    *questionnaire.Navigator
	collab coach.Collaborator
	opts   Options

	checklist components.Checklist
	inputs    []components.TextInput
	focus     int // focused input, or numeric slot
	notice    string
	spinner   components.Spinner
	width     int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the screen over nav. Submissions go to collab.
func New(nav *questionnaire.Navigator, collab coach.Collaborator, opts Options) *Screen {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Screen{nav: nav, collab: collab, opts: opts, width: layout.MinWidth}
	s.loadStep()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.focusCmd()
}

func (s *Screen) Title() string {
	return "Questionnaire"
}

// Status shows the step counter.
func (s *Screen) Status() string {
	return fmt.Sprintf("Step %d/%d", s.nav.Index()+1, s.nav.Len())
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.nav.Phase() == questionnaire.PhaseSubmitting {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{}
	switch s.nav.Step().Kind {
	case questionnaire.KindSingleChoice:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Move"}, layout.KeyHint{Key: "Space", Description: "Choose"})
	case questionnaire.KindMultiChoice:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Move"}, layout.KeyHint{Key: "Space", Description: "Toggle"})
	case questionnaire.KindNumericPair:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Adjust"}, layout.KeyHint{Key: "Tab", Description: "Switch"})
	case questionnaire.KindBoundedScale:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Adjust"})
	case questionnaire.KindConditionalNumber, questionnaire.KindPriorityList:
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next field"})
	case questionnaire.KindFreeText:
	}
	label := "Next"
	if s.nav.IsTerminal() {
		label = "Submit"
	}
	hints = append(hints, layout.KeyHint{Key: "Enter", Description: label})
	if s.nav.Index() > 0 {
		hints = append(hints, layout.KeyHint{Key: "Shift+Tab", Description: "Back"})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		return s.handleSubmitted(msg)

	case components.SpinnerTickMsg:
		if s.nav.Phase() == questionnaire.PhaseSubmitting {
			return s, s.spinner.Advance()
		}
		return s, nil

	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.sizeInputs()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.nav.Phase() != questionnaire.PhaseAnswering {
		return s, nil
	}

	step := s.nav.Step()
	switch msg.String() {
	case "enter":
		return s.next()
	case "shift+tab":
		return s.previous()
	case "right":
		if !s.editingText() {
			return s.next()
		}
	case "left":
		if !s.editingText() {
			return s.previous()
		}
	case "tab":
		if n := s.fieldCount(); n > 1 {
			s.focus = (s.focus + 1) % n
			return s, s.focusCmd()
		}
		return s, nil
	}

	s.notice = ""
	a := s.nav.Answers()
	switch step.Kind {
	case questionnaire.KindSingleChoice, questionnaire.KindMultiChoice:
		var opt string
		var pressed bool
		s.checklist, opt, pressed = s.checklist.Update(msg)
		if !pressed {
			return s, nil
		}
		if step.Kind == questionnaire.KindSingleChoice {
			a.Choose(step, opt)
		} else if !a.Toggle(step, opt) {
			s.notice = fmt.Sprintf("You can pick up to %d.", step.MaxSelections)
		}
		return s, nil

	case questionnaire.KindNumericPair, questionnaire.KindBoundedScale:
		slots := step.AnswerSlots()
		slot := slots[min(s.focus, len(slots)-1)]
		switch msg.String() {
		case "up", "+", "=", "k":
			a.Nudge(step, slot, 1)
		case "down", "-", "j":
			a.Nudge(step, slot, -1)
		}
		return s, nil

	case questionnaire.KindFreeText, questionnaire.KindConditionalNumber, questionnaire.KindPriorityList:
		if len(s.inputs) == 0 {
			return s, nil
		}
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		s.store()
		return s, cmd

	default:
		panic(fmt.Sprintf("questionnaire screen: unhandled kind %v", step.Kind))
	}
}

// store writes the text inputs of the active step into the answers.
func (s *Screen) store() {
	step := s.nav.Step()
	a := s.nav.Answers()
	switch step.Kind {
	case questionnaire.KindFreeText:
		a.Set(step.Field, questionnaire.Text(s.inputs[0].Value()))
	case questionnaire.KindConditionalNumber:
		a.Set(step.Slots[0], questionnaire.Text(s.inputs[0].Value()))
		a.SetOptionalIntText(step, s.inputs[1].Value())
	case questionnaire.KindPriorityList:
		for i, in := range s.inputs {
			a.SetPriority(step, i, in.Value())
		}
	case questionnaire.KindSingleChoice, questionnaire.KindMultiChoice, questionnaire.KindNumericPair, questionnaire.KindBoundedScale:
	}
}

func (s *Screen) next() (screen.Screen, tea.Cmd) {
	step := s.nav.Step()
	switch out := s.nav.Next(); out {
	case questionnaire.OutcomeRefused:
		s.notice = questionnaire.BlockReason(step, s.nav.Answers())
		s.opts.Metrics.IncStepRefusal(step.Field)
		s.opts.Logger.Debug("step refused", "field", step.Field)
		return s, nil
	case questionnaire.OutcomeAdvanced:
		s.notice = ""
		s.loadStep()
		return s, s.focusCmd()
	case questionnaire.OutcomeSubmit:
		s.notice = ""
		sub, _ := s.nav.Pending()
		return s, tea.Batch(s.submitCmd(sub), s.spinner.Tick())
	case questionnaire.OutcomeIgnored:
		return s, nil
	default:
		panic(fmt.Sprintf("questionnaire screen: unhandled outcome %v", out))
	}
}

func (s *Screen) previous() (screen.Screen, tea.Cmd) {
	if !s.nav.Previous() {
		return s, nil
	}
	s.notice = ""
	s.loadStep()
	return s, s.focusCmd()
}

func (s *Screen) submitCmd(sub questionnaire.Submission) tea.Cmd {
	ctx, collab := s.opts.Context, s.collab
	return func() tea.Msg {
		p, err := coach.Submit(ctx, collab, sub)
		return submittedMsg{Profile: p, Err: err}
	}
}

func (s *Screen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.nav.ResolveSubmission("", msg.Err)
		return s, s.focusCmd()
	}
	s.nav.ResolveSubmission(msg.Profile.ID, nil)
	if s.opts.OnProfile == nil {
		return s, nil
	}
	next := s.opts.OnProfile(s.nav, msg.Profile)
	return next, next.Init()
}

// loadStep builds the widgets for the active step from the stored
// answers.
func (s *Screen) loadStep() {
	step := s.nav.Step()
	a := s.nav.Answers()
	s.focus = 0
	s.inputs = nil

	switch step.Kind {
	case questionnaire.KindFreeText:
		in := components.NewTextInput("", "Type your answer...", false, 0)
		in.SetValue(a.Text(step.Field))
		s.inputs = []components.TextInput{in}
	case questionnaire.KindSingleChoice:
		s.checklist = components.NewChecklist(step.Options, false)
		if c, ok := a.Choice(step.Field); ok {
			s.checklist.Focus(c)
		}
	case questionnaire.KindMultiChoice:
		s.checklist = components.NewChecklist(step.Options, true)
	case questionnaire.KindNumericPair, questionnaire.KindBoundedScale:
	case questionnaire.KindConditionalNumber:
		text := components.NewTextInput(slotLabel(step, 0), "e.g. stretch, journal, coffee", false, 0)
		text.SetValue(a.Text(step.Slots[0]))
		num := components.NewTextInput(slotLabel(step, 1), "minutes", true, 3)
		if n, ok := a.OptionalInt(step.Slots[1]); ok {
			num.SetValue(strconv.Itoa(n))
		}
		s.inputs = []components.TextInput{text, num}
	case questionnaire.KindPriorityList:
		for i, slot := range step.Slots {
			in := components.NewTextInput(slotLabel(step, i), "", false, 0)
			in.SetValue(a.Text(slot))
			s.inputs = append(s.inputs, in)
		}
	default:
		panic(fmt.Sprintf("questionnaire screen: unhandled kind %v", step.Kind))
	}
	s.sizeInputs()
}

func (s *Screen) sizeInputs() {
	w := layout.ContentWidth(s.width) - 24
	for i := range s.inputs {
		s.inputs[i].SetWidth(max(w, 10))
	}
}

// focusCmd focuses the input under s.focus and blurs the others.
func (s *Screen) focusCmd() tea.Cmd {
	var cmd tea.Cmd
	for i := range s.inputs {
		if i == s.focus {
			cmd = s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
	return cmd
}

// fieldCount is the number of Tab stops on the active step.
func (s *Screen) fieldCount() int {
	step := s.nav.Step()
	switch step.Kind {
	case questionnaire.KindNumericPair:
		return len(step.Slots)
	case questionnaire.KindConditionalNumber:
		if !questionnaire.ConditionalActive(s.inputs[0].Value()) {
			return 1
		}
	}
	return len(s.inputs)
}

// editingText reports whether arrow keys belong to a text field.
func (s *Screen) editingText() bool {
	return len(s.inputs) > 0
}

func slotLabel(step questionnaire.Step, i int) string {
	if i < len(step.SlotLabels) {
		return step.SlotLabels[i]
	}
	if i < len(step.Slots) {
		return step.Slots[i]
	}
	return "Level"
}
