package pomodoro

import (
	"errors"
	"testing"
)

func runPhase(t *testing.T, tm *Timer) Transition {
	t.Helper()
	tm.Start()
	for i := 0; i < 24*60*60; i++ {
		if tr, ok := tm.Tick(); ok {
			return tr
		}
	}
	t.Fatal("phase never finished")
	return Transition{}
}

func TestTimerFullCycle(t *testing.T) {
	tm := NewTimer(Settings{FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 2, Sessions: 5})

	var got []Mode
	for tm.Snapshot().Mode != ModeDone {
		tr := runPhase(t, tm)
		got = append(got, tr.To)
		if tm.Snapshot().Running {
			t.Fatal("timer kept running after a transition")
		}
	}

	want := []Mode{
		ModeShortBreak, ModeFocus,
		ModeShortBreak, ModeFocus,
		ModeShortBreak, ModeFocus,
		ModeLongBreak, ModeFocus,
		ModeShortBreak, ModeDone,
	}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, got[i], want[i])
		}
	}
	if s := tm.Snapshot(); s.Session != 5 {
		t.Errorf("final session = %d", s.Session)
	}
}

func TestTimerTickCountsDown(t *testing.T) {
	tm := NewTimer(SettingsFromPlan(Plan{Sessions: 2, FocusMinutes: 25, BreakMinutes: 5}))
	if _, ok := tm.Tick(); ok {
		t.Fatal("paused timer transitioned")
	}
	if tm.Snapshot().RemainingSeconds != 25*60 {
		t.Fatal("paused timer counted down")
	}

	tm.Start()
	for i := 0; i < 61; i++ {
		tm.Tick()
	}
	s := tm.Snapshot()
	if s.RemainingSeconds != 25*60-61 {
		t.Errorf("remaining = %d", s.RemainingSeconds)
	}
	if s.Clock() != "23:59" {
		t.Errorf("clock = %s", s.Clock())
	}
}

func TestTimerBreakLengths(t *testing.T) {
	tm := NewTimer(Settings{FocusMinutes: 1, ShortBreakMinutes: 3, LongBreakMinutes: 9, Sessions: 4})
	runPhase(t, tm)
	if s := tm.Snapshot(); s.Mode != ModeShortBreak || s.RemainingSeconds != 180 {
		t.Errorf("after focus: %+v", s)
	}
}

func TestTimerResetAndToggle(t *testing.T) {
	tm := NewTimer(Settings{FocusMinutes: 2, ShortBreakMinutes: 1, LongBreakMinutes: 1, Sessions: 1})
	if !tm.Toggle() {
		t.Fatal("toggle did not start")
	}
	tm.Tick()
	tm.Reset()
	s := tm.Snapshot()
	if s.Running || s.RemainingSeconds != 120 {
		t.Errorf("after reset: %+v", s)
	}
}

func TestTimerDoneIgnoresStart(t *testing.T) {
	tm := NewTimer(Settings{FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1, Sessions: 1})
	runPhase(t, tm)
	runPhase(t, tm)
	if tm.Snapshot().Mode != ModeDone {
		t.Fatalf("mode = %s", tm.Snapshot().Mode)
	}
	tm.Start()
	if tm.Snapshot().Running {
		t.Error("done timer started")
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := (Settings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15}).Validate(); err == nil {
		t.Error("zero sessions accepted")
	}
	if err := SettingsFromPlan(Plan{Sessions: 2, FocusMinutes: 25, BreakMinutes: 5}).Validate(); err != nil {
		t.Errorf("valid settings rejected: %v", err)
	}
}

func TestSettingsInput(t *testing.T) {
	tests := []struct {
		in      string
		want    Settings
		wantErr bool
	}{
		{in: "50/10/3", want: Settings{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 15, Sessions: 3}},
		{in: " 25/5/4/20 ", want: Settings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 20, Sessions: 4}},
		{in: "90", want: Settings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, Sessions: 3}},
		{in: "25/5", wantErr: true},
		{in: "25/x/4", wantErr: true},
		{in: "25/5/0", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SettingsInput(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidBudget) {
				t.Errorf("SettingsInput(%q) err = %v, want ErrInvalidBudget", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("SettingsInput(%q) = %+v, %v; want %+v", tt.in, got, err, tt.want)
		}
	}
}
