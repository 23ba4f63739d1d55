// Package results shows the received profile and requests the coaching
// plan.
package results

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/router"
	"github.com/abhisek/momentum/internal/screen"
	"github.com/abhisek/momentum/internal/ui/components"
	"github.com/abhisek/momentum/internal/ui/layout"
	"github.com/abhisek/momentum/internal/ui/theme"
)

const (
	itemGenerate = "Generate plan"
	itemView     = "View plan"
	itemRestart  = "Start over"
	itemQuit     = "Quit"
)

// planMsg carries the outcome of a plan request.
type planMsg struct {
	Result *coach.PlanResult
	Err    error
}

// Options configures the screen.
type Options struct {
	Context context.Context
	Logger  *slog.Logger

	// OnPlan builds the screen pushed when a plan is available.
	OnPlan func(r *coach.PlanResult) screen.Screen

	// OnRestart builds a fresh questionnaire. The item is hidden when nil.
	OnRestart func() screen.Screen
}

// Screen implements screen.Screen for the profile results.
type Screen struct {
	nav     *questionnaire.Navigator
	collab  coach.Collaborator
	profile *coach.Profile
	plan    *coach.PlanResult
	opts    Options

	menu    components.Menu
	spinner components.Spinner
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the results screen for profile. nav must already hold the
// profile, i.e. be in PhaseProfileReady.
func New(nav *questionnaire.Navigator, collab coach.Collaborator, profile *coach.Profile, opts Options) *Screen {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Screen{nav: nav, collab: collab, profile: profile, opts: opts}

	items := []components.MenuItem{
		{Label: itemGenerate, Key: "g", Action: func() tea.Cmd { return s.requestPlan() }},
		{Label: itemView, Key: "v", Action: func() tea.Cmd { return s.showPlan() }, Disabled: true},
	}
	if opts.OnRestart != nil {
		items = append(items, components.MenuItem{Label: itemRestart, Key: "n", Action: func() tea.Cmd {
			next := opts.OnRestart()
			return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
		}})
	}
	items = append(items, components.MenuItem{Label: itemQuit, Key: "q", Action: func() tea.Cmd { return tea.Quit }})
	s.menu = components.NewMenu(items)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Your Profile"
}

// Status reflects the plan request.
func (s *Screen) Status() string {
	switch s.nav.Phase() {
	case questionnaire.PhasePlanPending:
		return "Planning..."
	case questionnaire.PhasePlanReady:
		return "Plan ready"
	default:
		return "Profile ready"
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.nav.Phase() == questionnaire.PhasePlanPending {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "g", Description: "Plan"},
	}
	if s.plan != nil {
		hints = append(hints, layout.KeyHint{Key: "v", Description: "View"})
	}
	return append(hints, layout.KeyHint{Key: "q", Description: "Quit"})
}

// Plan returns the most recent plan, or nil.
func (s *Screen) Plan() *coach.PlanResult {
	return s.plan
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planMsg:
		return s.handlePlan(msg)

	case components.SpinnerTickMsg:
		if s.nav.Phase() == questionnaire.PhasePlanPending {
			return s, s.spinner.Advance()
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.nav.Phase() == questionnaire.PhasePlanPending {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) requestPlan() tea.Cmd {
	id, ok := s.nav.BeginPlan()
	if !ok {
		return nil
	}
	ctx, collab := s.opts.Context, s.collab
	return tea.Batch(func() tea.Msg {
		r, err := coach.RequestPlan(ctx, collab, id)
		return planMsg{Result: r, Err: err}
	}, s.spinner.Tick())
}

func (s *Screen) handlePlan(msg planMsg) (screen.Screen, tea.Cmd) {
	s.nav.ResolvePlan(msg.Err)
	if msg.Err != nil {
		s.opts.Logger.Warn("plan request failed", "profile_id", s.profile.ID, "error", msg.Err)
		s.plan = nil
		s.menu.SetDisabled(itemView, true)
		return s, nil
	}
	s.plan = msg.Result
	s.menu.SetDisabled(itemView, false)
	return s, s.showPlan()
}

func (s *Screen) showPlan() tea.Cmd {
	if s.plan == nil || s.opts.OnPlan == nil {
		return nil
	}
	next := s.opts.OnPlan(s.plan)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *Screen) View(width, height int) string {
	w := layout.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render(s.profile.Archetype))
	b.WriteString("\n")
	meta := "Profile " + s.profile.ID
	if s.profile.CreatedAt != "" {
		meta += " · " + s.profile.CreatedAt
	}
	b.WriteString(theme.Hint.Render(meta))
	b.WriteString("\n\n")

	labelWidth := 0
	axes := s.profile.Axes.Ordered()
	for _, a := range axes {
		labelWidth = max(labelWidth, lipgloss.Width(a.Key.Label()))
	}
	for _, a := range axes {
		bar := components.ProgressBar{
			Label:      a.Key.Label(),
			LabelWidth: labelWidth,
			Percent:    min(max(a.Score/100, 0), 1),
			Width:      w,
			Suffix:     fmt.Sprintf("%3.0f", a.Score),
			Fill:       components.AxisColor(a.Score),
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch s.nav.Phase() {
	case questionnaire.PhasePlanPending:
		b.WriteString(theme.PendingLine.Render(s.spinner.View() + " Writing your coaching plan..."))
		b.WriteString("\n\n")
	case questionnaire.PhaseProfileReady:
		if err := s.nav.LastError(); err != nil {
			b.WriteString(theme.ErrorBanner.Width(w).Render(
				fmt.Sprintf("Plan generation failed: %v\nYour profile is kept. Press g to try again.", err)))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(s.menu.View())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
