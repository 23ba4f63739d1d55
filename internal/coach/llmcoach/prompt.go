package llmcoach

import (
	"fmt"
	"strings"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
)

const scoringSystemPrompt = `You are a productivity coach assessing a questionnaire about a person's goals, energy and habits. You score them on six axes and assign one archetype.`

func buildScoringUserMessage(sub questionnaire.Submission) string {
	var b strings.Builder

	b.WriteString("Questionnaire Answers:\n")
	writeAnswers(&b, sub)

	b.WriteString(`
Axes:
- purpose_clarity: how specific and motivated the stated problems and 12-month outcomes are
- energy_chronotype: alertness window, morning routine and the hours available
- focus_capacity: absorbing activities and available hours, reduced by distractions
- habit_foundation: habits already kept and how concrete the key habit change is
- mindset: reaction to setbacks and commitment level
- skill_fit: how well the chosen skills line up with the outcomes

Instructions:
1. Score every axis from 0 to 100. Missing answers lower the related axes.
2. Pick "Purpose-driven + High Energy + High Focus" when purpose_clarity >= 60, energy_chronotype >= 70 and focus_capacity >= 60.
3. Otherwise pick "Low Energy / Low Habit + Wants Change" when habit_foundation < 40 and energy_chronotype < 60.
4. Otherwise pick "Exploratory + Moderate Energy + Moderate Habit".`)

	return b.String()
}

const planSystemPrompt = `You are a productivity coach writing a realistic twelve month plan for one person. The plan must respect their energy window, available hours and existing habits.`

func buildPlanUserMessage(p *coach.Profile, sub questionnaire.Submission) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Archetype: %s\n", p.Archetype))
	b.WriteString("\nProfile Scores:\n")
	for _, s := range p.Axes.Ordered() {
		b.WriteString(fmt.Sprintf("- %s: %.0f\n", s.Key.Label(), s.Score))
	}

	b.WriteString("\nQuestionnaire Answers:\n")
	writeAnswers(&b, sub)

	b.WriteString(`
Instructions:
1. Base the yearly goal on the first priority outcome.
2. Give exactly three pillars. One of them must address the key habit change.
3. Suggest two to four daily time blocks inside the most alert period. Durations are whole minutes and must fit the hours available.
4. Build a habit stack of two or three habits, each with a cue, action, reward and a way to track it.
5. Scale ambition to the archetype: micro-habits for low energy, experiments for exploratory profiles, deep work for high energy.
6. Keep the justification to two sentences and cite the scores.`)

	return b.String()
}

func writeAnswers(b *strings.Builder, sub questionnaire.Submission) {
	for _, k := range sub.Keys() {
		v, _ := sub.Value(k)
		b.WriteString(fmt.Sprintf("- %s: %s\n", k, formatAnswer(v)))
	}
}

func formatAnswer(v any) string {
	switch x := v.(type) {
	case nil:
		return "(not answered)"
	case string:
		if x == "" {
			return "(not answered)"
		}
		return x
	case []string:
		if len(x) == 0 {
			return "(none)"
		}
		return strings.Join(x, ", ")
	default:
		return fmt.Sprint(x)
	}
}
