// Package report renders profiles and plans as markdown for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/abhisek/momentum/internal/coach"
)

// ProfileMarkdown describes a profile: archetype and axis scores.
func ProfileMarkdown(p *coach.Profile) string {
	var b strings.Builder
	b.WriteString("# Your profile\n\n")
	fmt.Fprintf(&b, "**Archetype:** %s\n\n", p.Archetype)
	b.WriteString("| Axis | Score |\n|---|---:|\n")
	for _, s := range p.Axes.Ordered() {
		fmt.Fprintf(&b, "| %s | %.0f |\n", s.Key.Label(), s.Score)
	}
	return b.String()
}

// PlanMarkdown describes a plan section by section. Empty sections are
// left out.
func PlanMarkdown(r *coach.PlanResult) string {
	p := r.Plan
	var b strings.Builder
	b.WriteString("# Your plan\n\n")
	if p.YearlyGoal != "" {
		fmt.Fprintf(&b, "## Yearly goal\n\n%s\n\n", p.YearlyGoal)
	}
	if len(p.Pillars) > 0 {
		b.WriteString("## Pillars\n\n")
		for i, pillar := range p.Pillars {
			fmt.Fprintf(&b, "%d. %s\n", i+1, pillar)
		}
		b.WriteString("\n")
	}

	templates := []struct{ title, body string }{
		{"Monthly", p.MonthlyTemplate},
		{"Weekly", p.WeeklyTemplate},
		{"Daily", p.DailyTemplate},
	}
	var wrote bool
	for _, t := range templates {
		if t.body == "" {
			continue
		}
		if !wrote {
			b.WriteString("## Rhythm\n\n")
			wrote = true
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", t.title, t.body)
	}
	if wrote {
		b.WriteString("\n")
	}

	if len(p.SuggestedTimeBlocks) > 0 {
		b.WriteString("## Time blocks\n\n| Time | Minutes | Activity | Type |\n|---|---:|---|---|\n")
		for _, tb := range p.SuggestedTimeBlocks {
			fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", tb.Time, tb.Duration, escapeCell(tb.Activity), tb.Type)
		}
		b.WriteString("\n")
	}

	if len(p.HabitStack) > 0 {
		b.WriteString("## Habit stack\n\n")
		for _, h := range p.HabitStack {
			fmt.Fprintf(&b, "### %s\n\n", h.Name)
			fmt.Fprintf(&b, "- Cue: %s\n- Action: %s\n- Reward: %s\n- Tracking: %s\n\n", h.Cue, h.Action, h.Reward, h.Tracking)
		}
	}

	if p.Justification != "" {
		fmt.Fprintf(&b, "## Why this plan\n\n%s\n", p.Justification)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Renderer turns markdown into styled terminal text.
type Renderer struct {
	r *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at width. Style "" picks one
// from the terminal background; "notty" produces plain text.
func NewRenderer(width int, style string) (*Renderer, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Renderer{r: r}, nil
}

// Render styles md. If rendering fails the markdown is returned as is.
func (r *Renderer) Render(md string) string {
	if r == nil || r.r == nil {
		return md
	}
	out, err := r.r.Render(md)
	if err != nil {
		return md
	}
	return out
}
