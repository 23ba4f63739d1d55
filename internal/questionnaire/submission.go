package questionnaire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Submission is the flat record sent to the scoring collaborator: one key
// per answer slot, in catalog order. It is immutable once assembled.
type Submission struct {
	keys   []string
	values map[string]any
}

// Assemble converts a store into a Submission. It is pure and
// deterministic: identical store contents produce identical submissions.
//
// The numeric sub-field of a conditional step is emitted as null whenever
// its text is empty or "none", whatever number was stored earlier.
func Assemble(a *Answers) Submission {
	c := a.Catalog()
	sub := Submission{values: make(map[string]any, len(c.slots))}

	put := func(k string, v any) {
		sub.keys = append(sub.keys, k)
		sub.values[k] = v
	}

	for _, s := range c.steps {
		switch s.Kind {
		case KindFreeText:
			put(s.Field, a.Text(s.Field))
		case KindSingleChoice:
			if v, ok := a.Choice(s.Field); ok {
				put(s.Field, v)
			} else {
				put(s.Field, nil)
			}
		case KindMultiChoice:
			put(s.Field, orderedSelection(s, a.Selection(s.Field)))
		case KindNumericPair:
			for _, slot := range s.Slots {
				put(slot, a.Number(slot))
			}
		case KindConditionalNumber:
			text := a.Text(s.Slots[0])
			put(s.Slots[0], text)
			n, ok := a.OptionalInt(s.Slots[1])
			if ok && ConditionalActive(text) {
				put(s.Slots[1], n)
			} else {
				put(s.Slots[1], nil)
			}
		case KindPriorityList:
			for _, slot := range s.Slots {
				put(slot, a.Text(slot))
			}
		case KindBoundedScale:
			put(s.Field, a.Integer(s.Field))
		default:
			panic(fmt.Sprintf("questionnaire: unhandled kind %v", s.Kind))
		}
	}
	return sub
}

// orderedSelection returns the selected options in catalog option order,
// dropping anything the step does not list.
func orderedSelection(s Step, selected []string) []string {
	picked := make(map[string]bool, len(selected))
	for _, o := range selected {
		picked[o] = true
	}
	out := make([]string, 0, len(selected))
	for _, o := range s.Options {
		if picked[o] {
			out = append(out, o)
		}
	}
	return out
}

// Keys returns the payload keys in catalog order.
func (s Submission) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s Submission) Len() int {
	return len(s.keys)
}

// Value returns the value for key. A suppressed or unset field is present
// with a nil value.
func (s Submission) Value(key string) (any, bool) {
	v, ok := s.values[key]
	if sel, isSel := v.([]string); isSel {
		v = append([]string{}, sel...)
	}
	return v, ok
}

// Map returns a copy of the payload as a map.
func (s Submission) Map() map[string]any {
	out := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		out[k], _ = s.Value(k)
	}
	return out
}

// MarshalJSON encodes the payload as a JSON object with keys in catalog
// order.
func (s Submission) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
