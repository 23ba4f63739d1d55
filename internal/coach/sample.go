package coach

// SampleProfileID identifies the profile returned by SampleProfile.
const SampleProfileID = "0b4f3c1e-5d1a-4f8e-9a57-3f6c2e7d9b10"

// SampleProfile returns a fixed profile used by the sample mock and in
// tests.
func SampleProfile() *Profile {
	return &Profile{
		ID:        SampleProfileID,
		Archetype: "Purpose-driven + High Energy + High Focus",
		Axes: Axes{
			AxisPurposeClarity:   78,
			AxisEnergyChronotype: 85,
			AxisFocusCapacity:    70,
			AxisHabitFoundation:  62,
			AxisMindset:          90,
			AxisSkillFit:         55,
		},
		CreatedAt: "2025-01-06T09:30:00Z",
	}
}

// SamplePlan returns a fixed plan for profileID.
func SamplePlan(profileID string) *PlanResult {
	return &PlanResult{
		ID:        "7e21a9d4-0c3b-4b6e-8f12-a5d9c4e8b301",
		ProfileID: profileID,
		CreatedAt: "2025-01-06T09:31:00Z",
		Plan: Plan{
			YearlyGoal: "Launch a coding bootcamp through systematic skill building and focused execution",
			Pillars: []string{
				"Master Programming/Coding through daily practice",
				"Build sustainable systems around daily coding practice",
				"Maintain high-energy routines and deep work blocks",
			},
			MonthlyTemplate: "Monthly theme focus with weekly milestones and habit tracking",
			WeeklyTemplate:  "Weekly planning with 2-3 focus sessions and daily micro-habits",
			DailyTemplate:   "Morning routine, deep work or practice, evening reflection",
			SuggestedTimeBlocks: []TimeBlock{
				{Time: "05:30", Duration: 30, Activity: "Morning routine + planning", Type: "routine"},
				{Time: "06:00", Duration: 90, Activity: "Deep work block 1", Type: "deep_work"},
				{Time: "18:00", Duration: 60, Activity: "Skill practice", Type: "practice"},
			},
			HabitStack: []Habit{
				{
					Name:     "Morning Startup",
					Cue:      "After waking up",
					Action:   "Drink water + 5-minute planning",
					Reward:   "Favorite morning beverage",
					Tracking: "Daily checkbox",
				},
				{
					Name:     "Coding Practice",
					Cue:      "After Deep work block 1",
					Action:   "10 minutes of daily coding practice",
					Reward:   "Track progress + celebration",
					Tracking: "Weekly streak counter",
				},
			},
			Justification: "High purpose clarity and energy support an ambitious, focused plan.",
		},
	}
}
