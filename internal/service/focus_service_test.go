package service

import (
	"errors"
	"testing"

	"habit-planner/internal/pomodoro"
)

func TestFocusServiceReportsTransitions(t *testing.T) {
	var events []FocusEvent
	svc := NewFocusService(func(ev FocusEvent) { events = append(events, ev) })

	settings := pomodoro.Settings{FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1, Sessions: 1}
	if _, err := svc.Begin("42", settings); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 60; i++ {
		svc.Tick()
	}
	if len(events) != 1 {
		t.Fatalf("events = %+v", events)
	}
	ev := events[0]
	if ev.Owner != "42" || ev.Transition.From != pomodoro.ModeFocus || ev.Transition.To != pomodoro.ModeShortBreak {
		t.Errorf("event = %+v", ev)
	}

	// The timer pauses after a transition.
	svc.Tick()
	if len(events) != 1 {
		t.Fatalf("paused timer kept ticking")
	}

	if _, err := svc.Toggle("42"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		svc.Tick()
	}
	if len(events) != 2 || events[1].Snapshot.Mode != pomodoro.ModeDone {
		t.Fatalf("events = %+v", events)
	}
	if _, err := svc.Snapshot("42"); !errors.Is(err, ErrNoFocusSession) {
		t.Errorf("finished timer should be dropped, err = %v", err)
	}
}

func TestFocusServiceControls(t *testing.T) {
	svc := NewFocusService(nil)
	if _, err := svc.Toggle("7"); !errors.Is(err, ErrNoFocusSession) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.Begin("7", pomodoro.Settings{}); !errors.Is(err, pomodoro.ErrInvalidBudget) {
		t.Errorf("err = %v", err)
	}

	plan, _ := pomodoro.Suggest(60)
	snap, err := svc.Begin("7", pomodoro.SettingsFromPlan(plan))
	if err != nil || !snap.Running || snap.RemainingSeconds != 25*60 {
		t.Fatalf("snapshot = %+v, %v", snap, err)
	}
	svc.Tick()
	snap, _ = svc.Reset("7")
	if snap.Running || snap.RemainingSeconds != 25*60 {
		t.Errorf("reset = %+v", snap)
	}
	if !svc.Stop("7") || svc.Stop("7") {
		t.Errorf("stop should report the removed timer once")
	}
}
