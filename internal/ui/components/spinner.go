package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// SpinnerTickMsg advances every Spinner that is running.
type SpinnerTickMsg time.Time

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a frame counter driven by SpinnerTickMsg.
type Spinner struct {
	frame int
}

// Tick schedules the next frame.
func (Spinner) Tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Advance moves to the next frame and schedules another tick.
func (s *Spinner) Advance() tea.Cmd {
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s.Tick()
}

// View returns the current frame.
func (s Spinner) View() string {
	return spinnerFrames[s.frame]
}
