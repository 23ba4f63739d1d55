package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/ui/theme"
)

// MenuItem represents a single item in a menu.
type MenuItem struct {
	Label string

	// Key is an optional shortcut that triggers the item directly.
	Key string

	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical action menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// SetDisabled enables or disables the item labelled label.
func (m *Menu) SetDisabled(label string, disabled bool) {
	for i := range m.Items {
		if m.Items[i].Label == label {
			m.Items[i].Disabled = disabled
		}
	}
}

// Update handles keyboard navigation and shortcuts.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			return m, m.Items[m.Selected].run()
		}
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == key {
				m.Selected = i
				return m, item.run()
			}
		}
	}

	return m, nil
}

func (item MenuItem) run() tea.Cmd {
	if item.Action == nil || item.Disabled {
		return nil
	}
	return item.Action()
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Key != "" {
			label += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (" + item.Key + ")")
		}
		switch {
		case item.Disabled:
			b.WriteString(theme.Disabled.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ ") + theme.Selected.Render(label))
		default:
			b.WriteString(theme.Unselected.Render("    ") + theme.Unselected.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
