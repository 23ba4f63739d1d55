package components

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/ui/theme"
)

// Slider shows a bounded number as a bar with its value.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Focused  bool
	Width    int
}

// View renders the slider on one line.
func (s Slider) View() string {
	label := s.Label
	style := theme.Disabled
	if s.Focused {
		label = "▸ " + label
		style = theme.Selected
	} else {
		label = "  " + label
	}

	frac := 0.0
	if s.Max > s.Min {
		frac = (s.Value - s.Min) / (s.Max - s.Min)
	}
	bar := NewProgressBar("", frac, false, s.Width/2)
	return style.Render(fmt.Sprintf("%-18s", label)) + " " +
		bar.View() + "  " +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(formatNumber(s.Value))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
