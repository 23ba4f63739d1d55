// Package plan shows a coaching plan rendered as markdown.
package plan

import (
	"fmt"
	"math"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/report"
	"github.com/abhisek/momentum/internal/router"
	"github.com/abhisek/momentum/internal/screen"
	"github.com/abhisek/momentum/internal/ui/layout"
	"github.com/abhisek/momentum/internal/ui/theme"
)

// Screen is a scrollable view of one plan.
type Screen struct {
	result *coach.PlanResult
	style  string

	vp viewport.Model
	// renderedWidth is the width the viewport content was rendered for.
	renderedWidth int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the screen. style is a glamour standard style name, or ""
// to pick one from the terminal background.
func New(r *coach.PlanResult, style string) *Screen {
	return &Screen{result: r, style: style, vp: viewport.New()}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Coaching Plan"
}

// Status shows how far the plan has been scrolled, or nothing when it
// fits on screen.
func (s *Screen) Status() string {
	if s.vp.Height() == 0 || s.vp.TotalLineCount() <= s.vp.Height() {
		return ""
	}
	return fmt.Sprintf("%d%%", int(math.Round(100*s.vp.ScrollPercent())))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "q", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "home", "g":
			s.vp.GotoTop()
			return s, nil
		case "end", "G":
			s.vp.GotoBottom()
			return s, nil
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

// render refreshes the viewport content when the width changes.
func (s *Screen) render(width int) {
	if s.renderedWidth == width {
		return
	}
	r, err := report.NewRenderer(width, s.style)
	if err != nil {
		r = nil
	}
	s.vp.SetContent(r.Render(report.PlanMarkdown(s.result)))
	s.renderedWidth = width
}

func (s *Screen) View(width, height int) string {
	if s.result == nil {
		return theme.Hint.Render("No plan yet.")
	}
	w := layout.ContentWidth(width)
	s.render(w)
	s.vp.SetWidth(w)
	s.vp.SetHeight(max(height-2, 1))
	s.vp.SetYOffset(s.vp.YOffset())
	return lipgloss.NewStyle().Padding(1, 2).Render(s.vp.View())
}
