package questionnaire

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a stored answer. The concrete types below are the only
// implementations.
type Value interface {
	isValue()
}

// Text is free prose or one entry of a priority list.
type Text string

// Choice is a single choice answer. The empty Choice means unset.
type Choice string

// Selection is the set of options picked for a multi choice step.
type Selection []string

// Number is one half of a numeric pair.
type Number float64

// Integer is a bounded scale answer.
type Integer int

// OptionalInt is the numeric sub-field of a conditional step.
type OptionalInt struct {
	Value int
	Valid bool
}

func (Text) isValue()        {}
func (Choice) isValue()      {}
func (Selection) isValue()   {}
func (Number) isValue()      {}
func (Integer) isValue()     {}
func (OptionalInt) isValue() {}

// Answers is the answer store: one value per answer slot of a catalog.
// It is owned by a single session and is not safe for concurrent use.
type Answers struct {
	catalog *Catalog
	values  map[string]Value
}

// NewAnswers creates a store populated with the catalog defaults.
func NewAnswers(c *Catalog) *Answers {
	a := &Answers{catalog: c, values: make(map[string]Value, len(c.slots))}
	for _, s := range c.steps {
		for i, slot := range s.AnswerSlots() {
			a.values[slot] = defaultValue(s, i)
		}
	}
	return a
}

func defaultValue(s Step, slotIndex int) Value {
	switch s.Kind {
	case KindFreeText, KindPriorityList:
		return Text("")
	case KindSingleChoice:
		return Choice("")
	case KindMultiChoice:
		return Selection(nil)
	case KindNumericPair:
		return Number(s.Range.Clamp(s.Range.Default))
	case KindConditionalNumber:
		if slotIndex == 0 {
			return Text("")
		}
		return OptionalInt{}
	case KindBoundedScale:
		return Integer(int(s.Range.Clamp(s.Range.Default)))
	default:
		panic(fmt.Sprintf("questionnaire: unhandled kind %v", s.Kind))
	}
}

// Set replaces the value stored for field. No validation is performed so
// partially typed input is never rejected.
func (a *Answers) Set(field string, v Value) {
	a.values[field] = v
}

// Get returns the value for field, or the catalog default when nothing
// has been stored. It returns nil for a field the catalog does not know.
func (a *Answers) Get(field string) Value {
	if v, ok := a.values[field]; ok && v != nil {
		return v
	}
	s, ok := a.catalog.stepOwning(field)
	if !ok {
		return nil
	}
	for i, slot := range s.AnswerSlots() {
		if slot == field {
			return defaultValue(s, i)
		}
	}
	return nil
}

// Text returns a text slot, or "" when unset or of another type.
func (a *Answers) Text(field string) string {
	if v, ok := a.Get(field).(Text); ok {
		return string(v)
	}
	return ""
}

// Choice returns a single choice slot and whether it is set.
func (a *Answers) Choice(field string) (string, bool) {
	if v, ok := a.Get(field).(Choice); ok && v != "" {
		return string(v), true
	}
	return "", false
}

// Selection returns a copy of a multi choice slot.
func (a *Answers) Selection(field string) []string {
	if v, ok := a.Get(field).(Selection); ok {
		return append([]string(nil), v...)
	}
	return nil
}

// Number returns a numeric pair slot.
func (a *Answers) Number(field string) float64 {
	if v, ok := a.Get(field).(Number); ok {
		return float64(v)
	}
	return 0
}

// Integer returns a bounded scale slot.
func (a *Answers) Integer(field string) int {
	if v, ok := a.Get(field).(Integer); ok {
		return int(v)
	}
	return 0
}

// OptionalInt returns the numeric sub-field of a conditional step as
// stored, without applying the suppression rule.
func (a *Answers) OptionalInt(field string) (int, bool) {
	if v, ok := a.Get(field).(OptionalInt); ok && v.Valid {
		return v.Value, true
	}
	return 0, false
}

// Choose sets a single choice answer. Options not listed by the step are
// refused and leave the store unchanged.
func (a *Answers) Choose(s Step, option string) bool {
	if s.Kind != KindSingleChoice || !s.HasOption(option) {
		return false
	}
	a.values[s.Field] = Choice(option)
	return true
}

// Toggle adds option to a multi choice answer, or removes it when it is
// already selected. Adding beyond MaxSelections is a no-op and returns
// false; removal always succeeds.
func (a *Answers) Toggle(s Step, option string) bool {
	if s.Kind != KindMultiChoice || !s.HasOption(option) {
		return false
	}
	current := a.Selection(s.Field)
	for i, o := range current {
		if o == option {
			a.values[s.Field] = Selection(append(current[:i], current[i+1:]...))
			return true
		}
	}
	if s.MaxSelections > 0 && len(current) >= s.MaxSelections {
		return false
	}
	a.values[s.Field] = Selection(append(current, option))
	return true
}

// Selected reports whether option is part of a multi choice answer.
func (a *Answers) Selected(s Step, option string) bool {
	for _, o := range a.Selection(s.Field) {
		if o == option {
			return true
		}
	}
	return false
}

// SelectionCount renders the selection counter shown next to a multi
// choice step, e.g. "2/3", or just the count when unbounded.
func (a *Answers) SelectionCount(s Step) string {
	n := len(a.Selection(s.Field))
	if s.MaxSelections > 0 {
		return fmt.Sprintf("%d/%d", n, s.MaxSelections)
	}
	return strconv.Itoa(n)
}

// SetNumber stores a numeric answer for one of the step's slots, clamped
// into the step range. Numeric pairs store a Number, scales an Integer.
func (a *Answers) SetNumber(s Step, slot string, v float64) bool {
	if s.Range == nil || !ownsSlot(s, slot) {
		return false
	}
	v = s.Range.Clamp(v)
	switch s.Kind {
	case KindNumericPair:
		a.values[slot] = Number(v)
	case KindBoundedScale:
		a.values[slot] = Integer(int(v))
	case KindFreeText, KindSingleChoice, KindMultiChoice, KindConditionalNumber, KindPriorityList:
		return false
	default:
		panic(fmt.Sprintf("questionnaire: unhandled kind %v", s.Kind))
	}
	return true
}

// Nudge moves a numeric slot by delta increments of the step size.
func (a *Answers) Nudge(s Step, slot string, delta int) bool {
	if s.Range == nil {
		return false
	}
	var cur float64
	switch s.Kind {
	case KindNumericPair:
		cur = a.Number(slot)
	case KindBoundedScale:
		cur = float64(a.Integer(slot))
	default:
		return false
	}
	return a.SetNumber(s, slot, cur+float64(delta)*s.Range.Step)
}

// SetOptionalIntText parses raw as the numeric sub-field of a conditional
// step. Input that is not a whole number stores the field as absent.
func (a *Answers) SetOptionalIntText(s Step, raw string) bool {
	if s.Kind != KindConditionalNumber || len(s.Slots) != 2 {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		a.values[s.Slots[1]] = OptionalInt{}
		return true
	}
	if s.Range != nil {
		n = int(s.Range.Clamp(float64(n)))
	}
	a.values[s.Slots[1]] = OptionalInt{Value: n, Valid: true}
	return true
}

// SetPriority sets entry rank (0-based) of a priority list step.
func (a *Answers) SetPriority(s Step, rank int, text string) bool {
	if s.Kind != KindPriorityList || rank < 0 || rank >= len(s.Slots) {
		return false
	}
	a.values[s.Slots[rank]] = Text(text)
	return true
}

// Clone returns a deep copy of the store sharing the same catalog.
func (a *Answers) Clone() *Answers {
	c := &Answers{catalog: a.catalog, values: make(map[string]Value, len(a.values))}
	for k, v := range a.values {
		if sel, ok := v.(Selection); ok {
			v = append(Selection(nil), sel...)
		}
		c.values[k] = v
	}
	return c
}

// Catalog returns the catalog the store was created for.
func (a *Answers) Catalog() *Catalog {
	return a.catalog
}

func ownsSlot(s Step, slot string) bool {
	for _, sl := range s.AnswerSlots() {
		if sl == slot {
			return true
		}
	}
	return false
}
