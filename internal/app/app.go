package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/router"
	"github.com/abhisek/momentum/internal/screen"
	"github.com/abhisek/momentum/internal/screens/plan"
	qscreen "github.com/abhisek/momentum/internal/screens/questionnaire"
	"github.com/abhisek/momentum/internal/screens/results"
	"github.com/abhisek/momentum/internal/telemetry"
	"github.com/abhisek/momentum/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Catalog      *questionnaire.Catalog
	Collaborator coach.Collaborator
	Metrics      *telemetry.Metrics
	Logger       *slog.Logger

	// MarkdownStyle is the glamour style for the plan; "" auto-detects.
	MarkdownStyle string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting a fresh questionnaire.
func newAppModel(ctx context.Context, opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	f := &flow{ctx: ctx, opts: opts}
	return AppModel{
		router: router.New(f.questionnaire()),
	}
}

// flow builds the screens of one run and links them together.
type flow struct {
	ctx  context.Context
	opts Options
}

func (f *flow) questionnaire() screen.Screen {
	nav := questionnaire.NewNavigator(questionnaire.NewAnswers(f.opts.Catalog))
	f.opts.Logger.Info("questionnaire started", "steps", nav.Len())
	return qscreen.New(nav, f.opts.Collaborator, qscreen.Options{
		Context:   f.ctx,
		Metrics:   f.opts.Metrics,
		Logger:    f.opts.Logger,
		OnProfile: f.results,
	})
}

func (f *flow) results(nav *questionnaire.Navigator, p *coach.Profile) screen.Screen {
	f.opts.Logger.Info("profile received", "profile_id", p.ID, "archetype", p.Archetype)
	return results.New(nav, f.opts.Collaborator, p, results.Options{
		Context:   f.ctx,
		Logger:    f.opts.Logger,
		OnPlan:    f.plan,
		OnRestart: f.questionnaire,
	})
}

func (f *flow) plan(r *coach.PlanResult) screen.Screen {
	return plan.New(r, f.opts.MarkdownStyle)
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		footerHints = append(footerHints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(dedupe(footerHints), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// dedupe drops repeated keys, keeping the first hint for each.
func dedupe(hints []layout.KeyHint) []layout.KeyHint {
	seen := make(map[string]bool, len(hints))
	out := hints[:0:0]
	for _, h := range hints {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		out = append(out, h)
	}
	return out
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Catalog == nil {
		opts.Catalog = questionnaire.DefaultCatalog()
	}
	if opts.Collaborator == nil {
		return fmt.Errorf("app: no collaborator configured")
	}
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
