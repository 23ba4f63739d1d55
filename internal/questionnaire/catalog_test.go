package questionnaire

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 12, c.Len())

	wantSlots := []string{
		"energizing_activities", "passionate_problems", "skills",
		"weekday_hours", "weekend_hours", "chronotype",
		"morning_routine", "morning_routine_duration",
		"habit_count", "setback_reaction",
		"outcome_1", "outcome_2", "outcome_3",
		"key_habit_change", "distractions", "commitment_level",
	}
	assert.Equal(t, wantSlots, c.Slots())

	skills, ok := c.Lookup("skills")
	require.True(t, ok)
	assert.Equal(t, KindMultiChoice, skills.Kind)
	assert.Equal(t, 3, skills.MaxSelections)

	scale, ok := c.Lookup("commitment_level")
	require.True(t, ok)
	assert.Equal(t, 1.0, scale.Range.Min)
	assert.Equal(t, 10.0, scale.Range.Max)
}

func TestCatalog_StepReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	s := c.Step(2)
	s.Options[0] = "mutated"
	s.Range = &Range{Min: 0, Max: 1, Step: 1}

	again := c.Step(2)
	assert.Equal(t, "Programming/Coding", again.Options[0])
	assert.Nil(t, again.Range)
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	steps := []Step{{Field: "a", Kind: KindSingleChoice, Options: []string{"x", "y"}}}
	c, err := NewCatalog(steps)
	require.NoError(t, err)

	steps[0].Options[0] = "changed"
	assert.Equal(t, "x", c.Step(0).Options[0])
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		want  string
	}{
		{
			name:  "empty",
			steps: nil,
			want:  "no steps",
		},
		{
			name: "duplicate field",
			steps: []Step{
				{Field: "a", Kind: KindFreeText},
				{Field: "a", Kind: KindFreeText},
			},
			want: `duplicate step field: "a"`,
		},
		{
			name:  "choice without options",
			steps: []Step{{Field: "c", Kind: KindSingleChoice}},
			want:  "has no options",
		},
		{
			name:  "max selections above options",
			steps: []Step{{Field: "m", Kind: KindMultiChoice, Options: []string{"x"}, MaxSelections: 2}},
			want:  "max_selections 2",
		},
		{
			name:  "scale without range",
			steps: []Step{{Field: "s", Kind: KindBoundedScale}},
			want:  "needs a range",
		},
		{
			name:  "inverted range",
			steps: []Step{{Field: "s", Kind: KindBoundedScale, Range: &Range{Min: 5, Max: 1, Step: 1}}},
			want:  "must be below max",
		},
		{
			name:  "priority list with two slots",
			steps: []Step{{Field: "p", Kind: KindPriorityList, Slots: []string{"p1", "p2"}}},
			want:  "needs 3 slots",
		},
		{
			name: "slot collides with field",
			steps: []Step{
				{Field: "weekday_hours", Kind: KindFreeText},
				{Field: "hours", Kind: KindNumericPair, Slots: []string{"weekday_hours", "weekend_hours"}, Range: &Range{Min: 0, Max: 1, Step: 1}},
			},
			want: `slot "weekday_hours" used by both`,
		},
		{
			name:  "missing kind",
			steps: []Step{{Field: "k"}},
			want:  "unknown kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.steps)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog_UnknownKind(t *testing.T) {
	doc := "steps:\n  - field: x\n    prompt: X?\n    kind: essay\n"
	_, err := LoadCatalog(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown step kind "essay"`)
}

func TestLoadCatalog_UnknownField(t *testing.T) {
	doc := "steps:\n  - field: x\n    kind: free_text\n    colour: blue\n"
	_, err := LoadCatalog(strings.NewReader(doc))
	require.Error(t, err)
}

func TestRange_Clamp(t *testing.T) {
	r := Range{Min: 0, Max: 12, Step: 0.5, Default: 4}
	tests := []struct {
		in, want float64
	}{
		{-3, 0},
		{0, 0},
		{2.3, 2.5},
		{2.2, 2},
		{11.9, 12},
		{40, 12},
		{math.Inf(1), 12},
		{math.Inf(-1), 0},
		{math.NaN(), 4},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	noDefault := Range{Min: 1, Max: 10, Step: 1, Default: math.NaN()}
	if got := noDefault.Clamp(math.NaN()); got != 1 {
		t.Errorf("Clamp(NaN) without a usable default = %v, want 1", got)
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	for k := KindFreeText; k <= KindBoundedScale; k++ {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var got Kind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got)
	}
}
