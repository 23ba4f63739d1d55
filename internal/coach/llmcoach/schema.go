package llmcoach

import (
	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/llm"
)

// Archetypes a profile is assigned to.
var Archetypes = []string{
	"Purpose-driven + High Energy + High Focus",
	"Exploratory + Moderate Energy + Moderate Habit",
	"Low Energy / Low Habit + Wants Change",
}

func axisProperties() map[string]any {
	props := make(map[string]any, len(coach.AllAxes))
	for _, k := range coach.AllAxes {
		props[string(k)] = map[string]any{
			"type":        "number",
			"minimum":     0,
			"maximum":     100,
			"description": k.Label() + " score from 0 to 100",
		}
	}
	return props
}

func axisKeys() []any {
	out := make([]any, len(coach.AllAxes))
	for i, k := range coach.AllAxes {
		out[i] = string(k)
	}
	return out
}

func archetypeEnum() []any {
	out := make([]any, len(Archetypes))
	for i, a := range Archetypes {
		out[i] = a
	}
	return out
}

// ScoresSchema defines the JSON schema for questionnaire scoring.
var ScoresSchema = &llm.Schema{
	Name:        "profile-scores",
	Description: "Six axis scores and the archetype they imply",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"axes": map[string]any{
				"type":                 "object",
				"properties":           axisProperties(),
				"required":             axisKeys(),
				"additionalProperties": false,
			},
			"archetype": map[string]any{
				"type": "string",
				"enum": archetypeEnum(),
			},
		},
		"required":             []any{"axes", "archetype"},
		"additionalProperties": false,
	},
}

// PlanSchema defines the JSON schema for plan writing.
var PlanSchema = &llm.Schema{
	Name:        "coaching-plan",
	Description: "A twelve month plan with templates, time blocks and a habit stack",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"yearly_goal": map[string]any{
				"type":        "string",
				"description": "One sentence goal for the next 12 months",
			},
			"pillars": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    3,
				"maxItems":    3,
				"description": "Exactly three pillars supporting the goal",
			},
			"monthly_template": map[string]any{"type": "string"},
			"weekly_template":  map[string]any{"type": "string"},
			"daily_template":   map[string]any{"type": "string"},
			"suggested_time_blocks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"time":     map[string]any{"type": "string", "description": "Start time as HH:MM"},
						"activity": map[string]any{"type": "string"},
						"duration": map[string]any{"type": "integer", "description": "Minutes"},
						"type": map[string]any{
							"type": "string",
							"enum": []any{"routine", "deep_work", "practice", "break", "review"},
						},
					},
					"required":             []any{"time", "activity", "duration", "type"},
					"additionalProperties": false,
				},
			},
			"habit_stack": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":     map[string]any{"type": "string"},
						"cue":      map[string]any{"type": "string"},
						"action":   map[string]any{"type": "string"},
						"reward":   map[string]any{"type": "string"},
						"tracking": map[string]any{"type": "string"},
					},
					"required":             []any{"name", "cue", "action", "reward", "tracking"},
					"additionalProperties": false,
				},
			},
			"justification": map[string]any{
				"type":        "string",
				"description": "Why this plan fits the profile, citing the axis scores",
			},
		},
		"required": []any{
			"yearly_goal", "pillars", "monthly_template", "weekly_template",
			"daily_template", "suggested_time_blocks", "habit_stack", "justification",
		},
		"additionalProperties": false,
	},
}
