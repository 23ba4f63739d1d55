package questionnaire

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the answer type of a step. The set is closed: every switch over
// Kind must handle all values and panic on anything else.
type Kind int

const (
	kindInvalid           Kind = iota
	KindFreeText                      // Free prose, empty allowed
	KindSingleChoice                  // Exactly one of Options
	KindMultiChoice                   // Subset of Options, bounded by MaxSelections
	KindNumericPair                   // Two independent bounded numbers
	KindConditionalNumber             // Text plus an integer solicited only for a real answer
	KindPriorityList                  // Three ordered short answers
	KindBoundedScale                  // One integer within Range
)

var kindNames = map[Kind]string{
	KindFreeText:          "free_text",
	KindSingleChoice:      "single_choice",
	KindMultiChoice:       "multi_choice",
	KindNumericPair:       "numeric_pair",
	KindConditionalNumber: "conditional_number",
	KindPriorityList:      "priority_list",
	KindBoundedScale:      "bounded_scale",
}

// String returns the catalog name of the kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a catalog name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown step kind %q", s)
}

// UnmarshalYAML decodes a kind from its catalog name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a kind as its catalog name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// MarshalText encodes a kind as its catalog name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its catalog name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// PriorityListSize is the number of entries in a priority list step.
const PriorityListSize = 3

// Range bounds a numeric input. Values are clamped into [Min, Max] and
// snapped to multiples of Step from Min.
type Range struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Step    float64 `yaml:"step" json:"step"`
	Default float64 `yaml:"default" json:"default"`
}

// Clamp constrains v into the range, snapped to the step increment.
// NaN has no place in the range and becomes the default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		v = r.Default
	}
	if math.IsNaN(v) || v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Step > 0 {
		n := (v - r.Min) / r.Step
		// round half up
		steps := float64(int64(n + 0.5))
		v = r.Min + steps*r.Step
		if v > r.Max {
			v = r.Max
		}
	}
	return v
}

// Step is one question in the catalog.
type Step struct {
	// Field names the step. For simple kinds it is also the answer slot.
	Field string `yaml:"field" json:"field"`

	Prompt string `yaml:"prompt" json:"prompt"`
	Hint   string `yaml:"hint,omitempty" json:"hint,omitempty"`
	Kind   Kind   `yaml:"kind" json:"kind"`

	// Options is the ordered set of labels for choice kinds.
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`

	// MaxSelections bounds a multi choice step. Zero means unbounded.
	MaxSelections int `yaml:"max_selections,omitempty" json:"max_selections,omitempty"`

	// Range bounds numeric kinds and the numeric sub-field of a
	// conditional step.
	Range *Range `yaml:"range,omitempty" json:"range,omitempty"`

	// Slots lists the answer slots owned by a composite step, in order.
	// NumericPair: two numbers; ConditionalNumber: text then integer;
	// PriorityList: three entries. Empty for simple kinds.
	Slots []string `yaml:"slots,omitempty" json:"slots,omitempty"`

	// SlotLabels are input labels for composite slots.
	SlotLabels []string `yaml:"slot_labels,omitempty" json:"slot_labels,omitempty"`
}

// AnswerSlots returns the answer slots this step writes, in order.
func (s Step) AnswerSlots() []string {
	if len(s.Slots) == 0 {
		return []string{s.Field}
	}
	out := make([]string, len(s.Slots))
	copy(out, s.Slots)
	return out
}

// HasOption reports whether option is one of the step's labels.
func (s Step) HasOption(option string) bool {
	for _, o := range s.Options {
		if o == option {
			return true
		}
	}
	return false
}

func (s Step) clone() Step {
	c := s
	c.Options = append([]string(nil), s.Options...)
	c.Slots = append([]string(nil), s.Slots...)
	c.SlotLabels = append([]string(nil), s.SlotLabels...)
	if s.Range != nil {
		r := *s.Range
		c.Range = &r
	}
	return c
}

// Catalog is the immutable, ordered list of steps for a session.
type Catalog struct {
	steps []Step
	slots []string
}

// NewCatalog validates steps and builds a Catalog. The steps are copied;
// later changes to the argument do not affect the catalog.
func NewCatalog(steps []Step) (*Catalog, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}
	c := &Catalog{steps: make([]Step, len(steps))}
	for i, s := range steps {
		c.steps[i] = s.clone()
		c.slots = append(c.slots, s.AnswerSlots()...)
	}
	return c, nil
}

// Len returns the number of steps.
func (c *Catalog) Len() int {
	return len(c.steps)
}

// Step returns a copy of the step at index i. It panics if i is out of range.
func (c *Catalog) Step(i int) Step {
	return c.steps[i].clone()
}

// Steps returns a copy of every step in order.
func (c *Catalog) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.clone()
	}
	return out
}

// Slots returns every answer slot in catalog order.
func (c *Catalog) Slots() []string {
	return append([]string(nil), c.slots...)
}

// Lookup finds a step by field name.
func (c *Catalog) Lookup(field string) (Step, bool) {
	for _, s := range c.steps {
		if s.Field == field {
			return s.clone(), true
		}
	}
	return Step{}, false
}

// stepOwning returns the step that owns the given answer slot.
func (c *Catalog) stepOwning(slot string) (Step, bool) {
	for _, s := range c.steps {
		for _, sl := range s.AnswerSlots() {
			if sl == slot {
				return s, true
			}
		}
	}
	return Step{}, false
}

type catalogFile struct {
	Steps []Step `yaml:"steps"`
}

// LoadCatalog parses a YAML catalog document and validates it.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(doc.Steps)
}

//go:embed catalog.yaml
var defaultCatalogYAML string

// DefaultCatalog returns the built-in twelve step self-assessment.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(strings.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("questionnaire: invalid built-in catalog: %v", err))
	}
	return c
}

// validateSteps performs all structural checks on the given steps.
// Returns a combined error describing all problems found, or nil if valid.
func validateSteps(steps []Step) error {
	var errs []string

	if len(steps) == 0 {
		errs = append(errs, "catalog has no steps")
	}

	fields := make(map[string]bool, len(steps))
	slots := make(map[string]string)

	for i, s := range steps {
		if s.Field == "" {
			errs = append(errs, fmt.Sprintf("step %d has no field", i))
		}
		if fields[s.Field] {
			errs = append(errs, fmt.Sprintf("duplicate step field: %q", s.Field))
		}
		fields[s.Field] = true

		for _, sl := range s.AnswerSlots() {
			if owner, ok := slots[sl]; ok && owner != s.Field {
				errs = append(errs, fmt.Sprintf("slot %q used by both %q and %q", sl, owner, s.Field))
			}
			slots[sl] = s.Field
		}

		errs = append(errs, validateKind(s)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateKind(s Step) []string {
	var errs []string
	needSlots := func(n int) {
		if len(s.Slots) != n {
			errs = append(errs, fmt.Sprintf("step %q (%s) needs %d slots, has %d", s.Field, s.Kind, n, len(s.Slots)))
		}
	}
	needRange := func() {
		switch {
		case s.Range == nil:
			errs = append(errs, fmt.Sprintf("step %q (%s) needs a range", s.Field, s.Kind))
		case s.Range.Min >= s.Range.Max:
			errs = append(errs, fmt.Sprintf("step %q range min %v must be below max %v", s.Field, s.Range.Min, s.Range.Max))
		case s.Range.Step <= 0:
			errs = append(errs, fmt.Sprintf("step %q range step must be positive", s.Field))
		}
	}
	needOptions := func() {
		if len(s.Options) == 0 {
			errs = append(errs, fmt.Sprintf("step %q (%s) has no options", s.Field, s.Kind))
		}
		seen := make(map[string]bool, len(s.Options))
		for _, o := range s.Options {
			if seen[o] {
				errs = append(errs, fmt.Sprintf("step %q repeats option %q", s.Field, o))
			}
			seen[o] = true
		}
	}

	switch s.Kind {
	case KindFreeText:
		needSlots(0)
	case KindSingleChoice:
		needSlots(0)
		needOptions()
	case KindMultiChoice:
		needSlots(0)
		needOptions()
		if s.MaxSelections < 0 || s.MaxSelections > len(s.Options) {
			errs = append(errs, fmt.Sprintf("step %q max_selections %d outside [0, %d]", s.Field, s.MaxSelections, len(s.Options)))
		}
	case KindNumericPair:
		needSlots(2)
		needRange()
	case KindConditionalNumber:
		needSlots(2)
		needRange()
	case KindPriorityList:
		needSlots(PriorityListSize)
	case KindBoundedScale:
		needSlots(0)
		needRange()
	default:
		errs = append(errs, fmt.Sprintf("step %q has unknown kind %d", s.Field, int(s.Kind)))
	}
	return errs
}
