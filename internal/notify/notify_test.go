package notify

import (
	"strings"
	"testing"

	"habit-planner/internal/pomodoro"
)

func TestPhaseMessage(t *testing.T) {
	cases := []struct {
		tr        pomodoro.Transition
		wantTitle string
		wantText  string
	}{
		{pomodoro.Transition{From: pomodoro.ModeFocus, To: pomodoro.ModeShortBreak, Session: 1}, "Focus complete", "Session 1 of 4"},
		{pomodoro.Transition{From: pomodoro.ModeFocus, To: pomodoro.ModeLongBreak, Session: 4}, "Focus complete", "long break"},
		{pomodoro.Transition{From: pomodoro.ModeShortBreak, To: pomodoro.ModeFocus, Session: 1}, "Break over", "session 2 of 4"},
		{pomodoro.Transition{From: pomodoro.ModeLongBreak, To: pomodoro.ModeDone, Session: 4}, "All sessions done", "4 focus sessions"},
	}
	for _, tc := range cases {
		title, text := PhaseMessage(tc.tr, 4)
		if title != tc.wantTitle || !strings.Contains(text, tc.wantText) {
			t.Errorf("PhaseMessage(%+v) = %q, %q", tc.tr, title, text)
		}
	}
}

func TestNewDisabledDiscards(t *testing.T) {
	n := New(false)
	if _, ok := n.(Discard); !ok {
		t.Fatalf("New(false) = %T", n)
	}
	if err := n.Notify("a", "b"); err != nil {
		t.Error(err)
	}
}
