package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/momentum/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	// LabelWidth pads the label so bars in a column line up.
	LabelWidth int

	// Suffix replaces the percentage text when set.
	Suffix string

	// Fill overrides the filled color.
	Fill color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	suffix := p.Suffix
	if suffix == "" && p.ShowPercent {
		suffix = fmt.Sprintf("%d%%", int(p.Percent*100))
	}
	suffixWidth := 0
	if suffix != "" {
		suffixWidth = lipgloss.Width(suffix) + 2
	}

	barWidth := p.Width - lipgloss.Width(result) - suffixWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if suffix != "" {
		result += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	}
	return result
}

// AxisColor picks a fill color for a score in [0, 100].
func AxisColor(score float64) color.Color {
	switch {
	case score >= 70:
		return theme.Success
	case score >= 40:
		return theme.Secondary
	default:
		return theme.Accent
	}
}
