package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestRenderFooter_DropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Shift+Tab", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}

	wide := RenderFooter(hints, 100)
	assert.Contains(t, wide, "Quit")

	narrow := RenderFooter(hints, 30)
	assert.Contains(t, narrow, "Next")
	assert.NotContains(t, narrow, "Quit")
}

func TestRenderFrame_Height(t *testing.T) {
	header := RenderHeader("Questionnaire", "Step 1/12", 80)
	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Next"}}, 80)
	content := strings.Repeat("line\n", 100)

	frame := RenderFrame(header, content, footer, 80, 24)
	assert.Equal(t, 24, lipgloss.Height(frame))
	assert.Contains(t, frame, "Step 1/12")
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 20, ContentWidth(10))
	assert.Equal(t, 74, ContentWidth(80))
	assert.Equal(t, 90, ContentWidth(200))
}
