package questionnaire

// Phase is the lifecycle stage of a questionnaire session.
type Phase int

const (
	PhaseAnswering    Phase = iota // Moving through the steps
	PhaseSubmitting                // Submission sent, awaiting the profile
	PhaseProfileReady              // Profile received, answers discarded
	PhasePlanPending               // Plan requested, awaiting the plan
	PhasePlanReady                 // Plan received
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitting:
		return "submitting"
	case PhaseProfileReady:
		return "profile_ready"
	case PhasePlanPending:
		return "plan_pending"
	case PhasePlanReady:
		return "plan_ready"
	}
	return "unknown"
}

// Outcome is the result of a Next event.
type Outcome int

const (
	OutcomeRefused  Outcome = iota // The validator blocked the step; cursor unchanged
	OutcomeAdvanced                // Cursor moved forward by one
	OutcomeSubmit                  // Terminal step completed; a submission is now pending
	OutcomeIgnored                 // Not answering (e.g. a submission is in flight)
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRefused:
		return "refused"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeSubmit:
		return "submit"
	case OutcomeIgnored:
		return "ignored"
	}
	return "unknown"
}

// Navigator is the cursor over a catalog together with the request state
// of the session. It performs no I/O: a pending submission or plan request
// is resolved by the caller through ResolveSubmission and ResolvePlan.
type Navigator struct {
	catalog *Catalog
	answers *Answers
	index   int
	phase   Phase

	pending   Submission
	profileID string
	lastErr   error
}

// NewNavigator starts a session at the first step of the answers' catalog.
func NewNavigator(a *Answers) *Navigator {
	return &Navigator{catalog: a.Catalog(), answers: a}
}

// Index returns the cursor position.
func (n *Navigator) Index() int { return n.index }

// Len returns the number of steps.
func (n *Navigator) Len() int { return n.catalog.Len() }

// Step returns the active step.
func (n *Navigator) Step() Step { return n.catalog.Step(n.index) }

// Phase returns the current lifecycle stage.
func (n *Navigator) Phase() Phase { return n.phase }

// Answers returns the answer store, or nil once the profile has been
// received and the answers discarded.
func (n *Navigator) Answers() *Answers { return n.answers }

// Catalog returns the catalog being navigated.
func (n *Navigator) Catalog() *Catalog { return n.catalog }

// IsTerminal reports whether the cursor is on the last step.
func (n *Navigator) IsTerminal() bool { return n.index == n.catalog.Len()-1 }

// Progress returns (Index+1)/Len.
func (n *Navigator) Progress() float64 {
	return float64(n.index+1) / float64(n.catalog.Len())
}

// ProfileID returns the identifier of the received profile, if any.
func (n *Navigator) ProfileID() string { return n.profileID }

// LastError returns the failure of the most recent external request, or
// nil. It is cleared when a new request starts.
func (n *Navigator) LastError() error { return n.lastErr }

// Previous moves back one step. It is a no-op at the first step and
// outside the answering phase.
func (n *Navigator) Previous() bool {
	if n.phase != PhaseAnswering || n.index == 0 {
		return false
	}
	n.index--
	return true
}

// Next advances past the active step when the validator allows it. At the
// terminal step it assembles the submission and enters PhaseSubmitting
// instead of moving the cursor.
func (n *Navigator) Next() Outcome {
	if n.phase != PhaseAnswering {
		return OutcomeIgnored
	}
	if !CanAdvance(n.Step(), n.answers) {
		return OutcomeRefused
	}
	if !n.IsTerminal() {
		n.index++
		return OutcomeAdvanced
	}
	n.pending = Assemble(n.answers)
	n.phase = PhaseSubmitting
	n.lastErr = nil
	return OutcomeSubmit
}

// Pending returns the submission awaiting a response.
func (n *Navigator) Pending() (Submission, bool) {
	if n.phase != PhaseSubmitting {
		return Submission{}, false
	}
	return n.pending, true
}

// ResolveSubmission completes the pending submission. On success the
// session moves to PhaseProfileReady and the answers are discarded. On
// failure it returns to the terminal step with the answers intact so the
// same Next can be retried.
func (n *Navigator) ResolveSubmission(profileID string, err error) {
	if n.phase != PhaseSubmitting {
		return
	}
	n.pending = Submission{}
	if err != nil {
		n.phase = PhaseAnswering
		n.lastErr = err
		return
	}
	n.profileID = profileID
	n.answers = nil
	n.phase = PhaseProfileReady
}

// BeginPlan starts a plan request for the received profile. It returns
// false when no profile exists or a plan request is already in flight.
func (n *Navigator) BeginPlan() (string, bool) {
	if n.phase != PhaseProfileReady && n.phase != PhasePlanReady {
		return "", false
	}
	n.phase = PhasePlanPending
	n.lastErr = nil
	return n.profileID, true
}

// ResolvePlan completes the pending plan request. A failure leaves the
// session in PhaseProfileReady.
func (n *Navigator) ResolvePlan(err error) {
	if n.phase != PhasePlanPending {
		return
	}
	if err != nil {
		n.phase = PhaseProfileReady
		n.lastErr = err
		return
	}
	n.phase = PhasePlanReady
}
