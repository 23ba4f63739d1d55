package questionnaire

import (
	"fmt"
	"strings"
)

// noneSentinel is the answer that means "no routine" for a conditional step.
const noneSentinel = "none"

// CanAdvance decides whether the step's answer is well formed enough to
// move past it. Only an unset single choice blocks; every other kind is
// constrained at edit time and always advances.
func CanAdvance(s Step, a *Answers) bool {
	switch s.Kind {
	case KindFreeText:
		return true
	case KindSingleChoice:
		_, ok := a.Choice(s.Field)
		return ok
	case KindMultiChoice:
		return true
	case KindNumericPair, KindBoundedScale:
		return true
	case KindConditionalNumber:
		return true
	case KindPriorityList:
		return true
	default:
		panic(fmt.Sprintf("questionnaire: unhandled kind %v", s.Kind))
	}
}

// BlockReason explains why CanAdvance refused the step, or "" when it
// would not.
func BlockReason(s Step, a *Answers) string {
	if CanAdvance(s, a) {
		return ""
	}
	switch s.Kind {
	case KindSingleChoice:
		return "Pick one option to continue."
	case KindFreeText, KindMultiChoice, KindNumericPair, KindBoundedScale, KindConditionalNumber, KindPriorityList:
		return ""
	default:
		panic(fmt.Sprintf("questionnaire: unhandled kind %v", s.Kind))
	}
}

// ConditionalActive reports whether the text half of a conditional step
// solicits its numeric sub-field: the text must be non-empty and not
// "none" (case-insensitive, surrounding space ignored).
func ConditionalActive(text string) bool {
	t := strings.TrimSpace(text)
	return t != "" && !strings.EqualFold(t, noneSentinel)
}
