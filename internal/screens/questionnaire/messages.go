package questionnaire

import "github.com/abhisek/momentum/internal/coach"

// submittedMsg carries the outcome of a submission request.
type submittedMsg struct {
	Profile *coach.Profile
	Err     error
}
