package coach

import (
	"encoding/json"
	"fmt"
	"slices"
)

// AxisKey names one dimension of a productivity profile.
type AxisKey string

const (
	AxisPurposeClarity   AxisKey = "purpose_clarity"
	AxisEnergyChronotype AxisKey = "energy_chronotype"
	AxisFocusCapacity    AxisKey = "focus_capacity"
	AxisHabitFoundation  AxisKey = "habit_foundation"
	AxisMindset          AxisKey = "mindset"
	AxisSkillFit         AxisKey = "skill_fit"
)

// AllAxes lists the profile axes in display order.
var AllAxes = []AxisKey{
	AxisPurposeClarity,
	AxisEnergyChronotype,
	AxisFocusCapacity,
	AxisHabitFoundation,
	AxisMindset,
	AxisSkillFit,
}

// Label returns a human-readable name for the axis.
func (k AxisKey) Label() string {
	switch k {
	case AxisPurposeClarity:
		return "Purpose clarity"
	case AxisEnergyChronotype:
		return "Energy & chronotype"
	case AxisFocusCapacity:
		return "Focus capacity"
	case AxisHabitFoundation:
		return "Habit foundation"
	case AxisMindset:
		return "Mindset"
	case AxisSkillFit:
		return "Skill fit"
	}
	return string(k)
}

// Axes maps each axis to a score in [0, 100]. Axes the client does not
// know about are kept as received.
type Axes map[AxisKey]float64

// AxisScore is one entry of Axes.Ordered.
type AxisScore struct {
	Key   AxisKey
	Score float64
}

// Ordered returns the known axes in display order followed by any unknown
// axes in key order.
func (a Axes) Ordered() []AxisScore {
	out := make([]AxisScore, 0, len(a))
	seen := make(map[AxisKey]bool, len(AllAxes))
	for _, k := range AllAxes {
		seen[k] = true
		if v, ok := a[k]; ok {
			out = append(out, AxisScore{Key: k, Score: v})
		}
	}
	var rest []AxisKey
	for k := range a {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		out = append(out, AxisScore{Key: k, Score: a[k]})
	}
	return out
}

// Profile is the scoring collaborator's answer to a submission.
type Profile struct {
	ID        string `json:"id"`
	Archetype string `json:"archetype"`
	Axes      Axes   `json:"axes"`
	CreatedAt string `json:"created_at,omitempty"`

	// Extra holds every key the collaborator sent that has no field above,
	// so the profile can be re-encoded without loss.
	Extra map[string]json.RawMessage `json:"-"`
}

type profileFields Profile

func (p *Profile) UnmarshalJSON(data []byte) error {
	var f profileFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	extra, err := splitExtra(data, "id", "archetype", "axes", "created_at")
	if err != nil {
		return err
	}
	f.Extra = extra
	*p = Profile(f)
	return nil
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return mergeExtra(profileFields(p), p.Extra)
}

// PlanResult is the planning collaborator's answer for a profile.
type PlanResult struct {
	ID        string `json:"id,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`
	Plan      Plan   `json:"plan"`
	CreatedAt string `json:"created_at,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type planResultFields PlanResult

func (r *PlanResult) UnmarshalJSON(data []byte) error {
	var f planResultFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	extra, err := splitExtra(data, "id", "profile_id", "plan", "created_at")
	if err != nil {
		return err
	}
	f.Extra = extra
	*r = PlanResult(f)
	return nil
}

func (r PlanResult) MarshalJSON() ([]byte, error) {
	return mergeExtra(planResultFields(r), r.Extra)
}

// Plan is the body of a generated plan.
type Plan struct {
	YearlyGoal          string      `json:"yearly_goal"`
	Pillars             []string    `json:"pillars"`
	MonthlyTemplate     string      `json:"monthly_template"`
	WeeklyTemplate      string      `json:"weekly_template"`
	DailyTemplate       string      `json:"daily_template"`
	SuggestedTimeBlocks []TimeBlock `json:"suggested_time_blocks"`
	HabitStack          []Habit     `json:"habit_stack"`
	Justification       string      `json:"justification"`

	Extra map[string]json.RawMessage `json:"-"`
}

type planFields Plan

func (p *Plan) UnmarshalJSON(data []byte) error {
	var f planFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	extra, err := splitExtra(data,
		"yearly_goal", "pillars", "monthly_template", "weekly_template",
		"daily_template", "suggested_time_blocks", "habit_stack", "justification")
	if err != nil {
		return err
	}
	f.Extra = extra
	*p = Plan(f)
	return nil
}

func (p Plan) MarshalJSON() ([]byte, error) {
	return mergeExtra(planFields(p), p.Extra)
}

// TimeBlock is a suggested slot in the daily schedule. Duration is in
// minutes.
type TimeBlock struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Duration int    `json:"duration"`
	Type     string `json:"type,omitempty"`
}

// Habit is one entry of a habit stack.
type Habit struct {
	Name     string `json:"name"`
	Cue      string `json:"cue"`
	Action   string `json:"action"`
	Reward   string `json:"reward"`
	Tracking string `json:"tracking"`
}

// splitExtra returns the members of the JSON object data whose keys are
// not listed in known, or nil when there are none.
func splitExtra(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra encodes v and adds the extra members. Known fields win over
// extra members with the same key.
func mergeExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(base, &all); err != nil {
		return nil, fmt.Errorf("merge extra fields: %w", err)
	}
	for k, raw := range extra {
		if _, ok := all[k]; !ok {
			all[k] = raw
		}
	}
	return json.Marshal(all)
}
