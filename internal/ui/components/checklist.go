package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/ui/theme"
)

// Checklist is a cursor over a list of options. It does not own the
// selection: the caller marks options and reacts to Space.
type Checklist struct {
	Options []string
	Cursor  int

	// Multi renders check boxes instead of radio buttons.
	Multi bool
}

// NewChecklist creates a checklist with the cursor on the first option.
func NewChecklist(options []string, multi bool) Checklist {
	return Checklist{Options: options, Multi: multi}
}

// Update moves the cursor. It reports the option under the cursor when
// Space is pressed.
func (c Checklist) Update(msg tea.Msg) (Checklist, string, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Options) == 0 {
		return c, "", false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		return c, c.Options[c.Cursor], true
	}
	return c, "", false
}

// Focus moves the cursor to option, if present.
func (c *Checklist) Focus(option string) {
	for i, o := range c.Options {
		if o == option {
			c.Cursor = i
			return
		}
	}
}

// View renders the options. marked reports whether an option is chosen.
func (c Checklist) View(marked func(string) bool) string {
	var b strings.Builder
	for i, opt := range c.Options {
		box := "( )"
		if c.Multi {
			box = "[ ]"
		}
		if marked(opt) {
			box = "(•)"
			if c.Multi {
				box = "[x]"
			}
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == c.Cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(prefix + box + " " + opt))
		b.WriteString("\n")
	}
	return b.String()
}
