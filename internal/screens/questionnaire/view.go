package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/ui/components"
	"github.com/abhisek/momentum/internal/ui/layout"
	"github.com/abhisek/momentum/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	w := layout.ContentWidth(width)
	step := s.nav.Step()

	var b strings.Builder

	bar := components.NewProgressBar(s.Status(), s.nav.Progress(), true, w)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Prompt.Width(w).Render(step.Prompt))
	b.WriteString("\n")
	if step.Hint != "" {
		b.WriteString(theme.Hint.Render(step.Hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.nav.Answers() != nil {
		b.WriteString(s.renderInput(step, w))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.WarnBanner.Render(s.notice))
		b.WriteString("\n")
	}

	switch s.nav.Phase() {
	case questionnaire.PhaseSubmitting:
		b.WriteString("\n")
		b.WriteString(theme.PendingLine.Render(s.spinner.View() + " Submitting your answers..."))
		b.WriteString("\n")
	case questionnaire.PhaseAnswering:
		if err := s.nav.LastError(); err != nil {
			b.WriteString("\n")
			b.WriteString(theme.ErrorBanner.Width(w).Render(
				fmt.Sprintf("Submission failed: %v\nYour answers are kept. Press Enter to try again.", err)))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *Screen) renderInput(step questionnaire.Step, width int) string {
	a := s.nav.Answers()
	switch step.Kind {
	case questionnaire.KindFreeText:
		return s.inputs[0].View() + "\n"

	case questionnaire.KindSingleChoice:
		chosen, _ := a.Choice(step.Field)
		return s.checklist.View(func(o string) bool { return o == chosen })

	case questionnaire.KindMultiChoice:
		view := s.checklist.View(func(o string) bool { return a.Selected(step, o) })
		return view + "\n" + theme.Hint.Render("Selected: "+a.SelectionCount(step)) + "\n"

	case questionnaire.KindNumericPair, questionnaire.KindBoundedScale:
		var lo, hi float64
		if step.Range != nil {
			lo, hi = step.Range.Min, step.Range.Max
		}
		var b strings.Builder
		for i, slot := range step.AnswerSlots() {
			sl := components.Slider{
				Label:   slotLabel(step, i),
				Min:     lo,
				Max:     hi,
				Focused: i == s.focus,
				Width:   width,
			}
			if step.Kind == questionnaire.KindBoundedScale {
				sl.Value = float64(a.Integer(slot))
			} else {
				sl.Value = a.Number(slot)
			}
			b.WriteString(sl.View())
			b.WriteString("\n")
		}
		return b.String()

	case questionnaire.KindConditionalNumber:
		out := s.inputs[0].View() + "\n"
		if questionnaire.ConditionalActive(s.inputs[0].Value()) {
			out += s.inputs[1].View() + "\n"
		}
		return out

	case questionnaire.KindPriorityList:
		var b strings.Builder
		for _, in := range s.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		return b.String()

	default:
		panic(fmt.Sprintf("questionnaire screen: unhandled kind %v", step.Kind))
	}
}
