package service

import (
	"sort"
	"sync"

	"habit-planner/internal/pomodoro"
)

// FocusEvent reports a phase change of one owner's timer.
type FocusEvent struct {
	Owner      string
	Transition pomodoro.Transition
	Snapshot   pomodoro.Snapshot
}

// FocusService keeps one pomodoro timer per owner. Tick is meant to be
// driven once per second by the scheduler.
type FocusService struct {
	onChange func(FocusEvent)

	mu     sync.Mutex
	timers map[string]*pomodoro.Timer
}

func NewFocusService(onChange func(FocusEvent)) *FocusService {
	return &FocusService{onChange: onChange, timers: make(map[string]*pomodoro.Timer)}
}

// Begin replaces the owner's timer with a running one for settings.
func (s *FocusService) Begin(owner string, settings pomodoro.Settings) (pomodoro.Snapshot, error) {
	if err := settings.Validate(); err != nil {
		return pomodoro.Snapshot{}, err
	}
	timer := pomodoro.NewTimer(settings)
	timer.Start()

	s.mu.Lock()
	s.timers[owner] = timer
	s.mu.Unlock()
	return timer.Snapshot(), nil
}

// Toggle starts or pauses the owner's timer.
func (s *FocusService) Toggle(owner string) (pomodoro.Snapshot, error) {
	return s.with(owner, func(t *pomodoro.Timer) { t.Toggle() })
}

// Reset restarts the current phase, paused.
func (s *FocusService) Reset(owner string) (pomodoro.Snapshot, error) {
	return s.with(owner, func(t *pomodoro.Timer) { t.Reset() })
}

func (s *FocusService) Snapshot(owner string) (pomodoro.Snapshot, error) {
	return s.with(owner, func(*pomodoro.Timer) {})
}

// Stop discards the owner's timer.
func (s *FocusService) Stop(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[owner]
	delete(s.timers, owner)
	return ok
}

// Tick advances every running timer by one second. Finished timers are
// dropped after their last transition has been reported.
func (s *FocusService) Tick() {
	var events []FocusEvent

	s.mu.Lock()
	owners := make([]string, 0, len(s.timers))
	for owner := range s.timers {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	for _, owner := range owners {
		timer := s.timers[owner]
		tr, changed := timer.Tick()
		if !changed {
			continue
		}
		snap := timer.Snapshot()
		events = append(events, FocusEvent{Owner: owner, Transition: tr, Snapshot: snap})
		if snap.Mode == pomodoro.ModeDone {
			delete(s.timers, owner)
		}
	}
	s.mu.Unlock()

	if s.onChange == nil {
		return
	}
	for _, ev := range events {
		s.onChange(ev)
	}
}

func (s *FocusService) with(owner string, fn func(*pomodoro.Timer)) (pomodoro.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer, ok := s.timers[owner]
	if !ok {
		return pomodoro.Snapshot{}, ErrNoFocusSession
	}
	fn(timer)
	return timer.Snapshot(), nil
}
