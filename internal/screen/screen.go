// Package screen defines what the router needs from a TUI screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/momentum/internal/ui/layout"
)

// Screen is one page of the TUI: the questionnaire, the results or the plan.
type Screen interface {
	Init() tea.Cmd

	// Update may return a different screen, which replaces this one on
	// the router stack.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	Title() string
}

// KeyHintProvider screens list their keys in the footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider screens show a short status on the right of the header.
type StatusProvider interface {
	Status() string
}
