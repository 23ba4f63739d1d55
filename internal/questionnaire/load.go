package questionnaire

import (
	"errors"
	"fmt"
	"io"
	"math"
	"maps"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadAnswers reads a YAML mapping of answer slots into a new store for c.
// An empty document yields the catalog defaults.
func LoadAnswers(c *Catalog, r io.Reader) (*Answers, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	a := NewAnswers(c)
	if err := a.Apply(raw); err != nil {
		return nil, err
	}
	return a, nil
}

// Apply stores values keyed by answer slot through the same edit
// operations an interactive session uses, so option membership and
// selection limits hold. A priority list may also be given as a list under
// its field name. Every problem is reported, joined.
func (a *Answers) Apply(values map[string]any) error {
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := a.apply(key, values[key]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (a *Answers) apply(key string, v any) error {
	s, ok := a.catalog.stepOwning(key)
	if !ok {
		return a.applyList(key, v)
	}

	switch s.Kind {
	case KindFreeText, KindPriorityList:
		text, err := asString(v)
		if err != nil {
			return err
		}
		a.Set(key, Text(text))

	case KindSingleChoice:
		if v == nil {
			a.Set(key, Choice(""))
			return nil
		}
		option, err := asString(v)
		if err != nil {
			return err
		}
		if !a.Choose(s, option) {
			return fmt.Errorf("%q is not one of the options", option)
		}

	case KindMultiChoice:
		items, err := asList(v)
		if err != nil {
			return err
		}
		a.Set(key, Selection(nil))
		for _, item := range items {
			option, err := asString(item)
			if err != nil {
				return err
			}
			if !s.HasOption(option) {
				return fmt.Errorf("%q is not one of the options", option)
			}
			if a.Selected(s, option) {
				continue
			}
			// Past the limit Toggle refuses, the same as a keypress in the
			// TUI; the first MaxSelections entries are kept.
			a.Toggle(s, option)
		}

	case KindNumericPair, KindBoundedScale:
		n, err := asNumber(v)
		if err != nil {
			return err
		}
		a.SetNumber(s, key, n)

	case KindConditionalNumber:
		if key == s.Slots[0] {
			text, err := asString(v)
			if err != nil {
				return err
			}
			a.Set(key, Text(text))
			return nil
		}
		if v == nil {
			a.Set(key, OptionalInt{})
			return nil
		}
		a.SetOptionalIntText(s, fmt.Sprint(v))

	default:
		panic(fmt.Sprintf("questionnaire: unhandled kind %v", s.Kind))
	}
	return nil
}

// applyList handles a priority list given under its field name.
func (a *Answers) applyList(field string, v any) error {
	s, ok := a.catalog.Lookup(field)
	if !ok || s.Kind != KindPriorityList {
		return errors.New("unknown answer")
	}
	items, err := asList(v)
	if err != nil {
		return err
	}
	if len(items) > len(s.Slots) {
		return fmt.Errorf("at most %d entries allowed", len(s.Slots))
	}
	for i, item := range items {
		text, err := asString(item)
		if err != nil {
			return err
		}
		a.SetPriority(s, i, text)
	}
	return nil
}

func asString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

func asList(v any) ([]any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}

func asNumber(v any) (float64, error) {
	n, err := parseNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("expected a finite number, got %v", n)
	}
	return n, nil
}

func parseNumber(v any) (float64, error) {
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
