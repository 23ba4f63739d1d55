package plan

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/router"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestScreen_RendersPlan(t *testing.T) {
	r := coach.SamplePlan(coach.SampleProfileID)
	s := New(r, "notty")

	view := s.View(100, 200)
	if !strings.Contains(view, r.Plan.YearlyGoal) {
		t.Errorf("view does not contain the yearly goal:\n%s", view)
	}
	for _, p := range r.Plan.Pillars {
		if !strings.Contains(view, p) {
			t.Errorf("view does not contain pillar %q", p)
		}
	}
	if s.Status() != "" {
		t.Errorf("Status = %q, want empty when everything fits", s.Status())
	}
}

func TestScreen_Scrolls(t *testing.T) {
	s := New(coach.SamplePlan(coach.SampleProfileID), "notty")
	s.View(80, 10)
	if s.vp.TotalLineCount() <= s.vp.Height() {
		t.Fatalf("plan fits in %d lines, cannot test scrolling", s.vp.Height())
	}
	if s.Status() != "0%" {
		t.Errorf("Status = %q, want 0%%", s.Status())
	}

	s.Update(specialKey(tea.KeyDown))
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if got := s.vp.YOffset(); got != 2 {
		t.Errorf("offset = %d, want 2", got)
	}

	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyUp))
	if got := s.vp.YOffset(); got != 0 {
		t.Errorf("offset = %d, want 0", got)
	}

	s.Update(specialKey(tea.KeyEnd))
	if !s.vp.AtBottom() {
		t.Errorf("offset = %d, want the bottom", s.vp.YOffset())
	}
	if s.Status() != "100%" {
		t.Errorf("Status = %q, want 100%%", s.Status())
	}

	s.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	if !s.vp.AtTop() {
		t.Error("g should jump to the top")
	}
}

func TestScreen_ResizeKeepsOffsetInRange(t *testing.T) {
	s := New(coach.SamplePlan(coach.SampleProfileID), "notty")
	s.View(80, 10)
	s.Update(specialKey(tea.KeyEnd))

	s.View(80, 200)
	if !s.vp.AtTop() {
		t.Errorf("offset = %d after growing the window, want 0", s.vp.YOffset())
	}
}

func TestScreen_QuitPops(t *testing.T) {
	s := New(coach.SamplePlan(coach.SampleProfileID), "notty")
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
}

func TestScreen_NilPlan(t *testing.T) {
	s := New(nil, "notty")
	if !strings.Contains(s.View(80, 20), "No plan yet.") {
		t.Error("expected placeholder text")
	}
}
