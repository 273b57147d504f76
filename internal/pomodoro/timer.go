package pomodoro

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the phase of the countdown.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
	ModeDone       Mode = "done"
)

const (
	LongBreakMinutes = 15
	LongBreakEvery   = 4
)

// Settings are the durations the timer runs with.
type Settings struct {
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
	Sessions          int
}

// SettingsFromPlan adopts a suggestion with the default long break.
func SettingsFromPlan(p Plan) Settings {
	return Settings{
		FocusMinutes:      p.FocusMinutes,
		ShortBreakMinutes: p.BreakMinutes,
		LongBreakMinutes:  LongBreakMinutes,
		Sessions:          p.Sessions,
	}
}

// Validate rejects settings that would never count down.
func (s Settings) Validate() error {
	if s.FocusMinutes <= 0 || s.ShortBreakMinutes <= 0 || s.LongBreakMinutes <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidBudget)
	}
	if s.Sessions <= 0 {
		return fmt.Errorf("%w: at least one session is required", ErrInvalidBudget)
	}
	return nil
}

// ParseSettings reads a custom setup written as focus/break/sessions with an
// optional fourth long-break value, e.g. "50/10/3" or "25/5/4/20".
func ParseSettings(input string) (Settings, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 3 && len(parts) != 4 {
		return Settings{}, fmt.Errorf("%w: expected focus/break/sessions", ErrInvalidBudget)
	}
	values := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %q is not a number", ErrInvalidBudget, p)
		}
		values[i] = n
	}
	s := Settings{
		FocusMinutes:      values[0],
		ShortBreakMinutes: values[1],
		LongBreakMinutes:  LongBreakMinutes,
		Sessions:          values[2],
	}
	if len(values) == 4 {
		s.LongBreakMinutes = values[3]
	}
	return s, s.Validate()
}

// SettingsInput accepts either a time budget ("90") or a custom setup.
func SettingsInput(input string) (Settings, error) {
	if strings.Contains(input, "/") {
		return ParseSettings(input)
	}
	plan, err := SuggestInput(input)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFromPlan(plan), nil
}

func (s Settings) minutes(m Mode) int {
	switch m {
	case ModeShortBreak:
		return s.ShortBreakMinutes
	case ModeLongBreak:
		return s.LongBreakMinutes
	case ModeFocus:
		return s.FocusMinutes
	default:
		return 0
	}
}

// Transition describes a phase change produced by Tick.
type Transition struct {
	From    Mode
	To      Mode
	Session int
}

// Snapshot is a read-only view of the timer.
type Snapshot struct {
	Mode             Mode
	Session          int
	TotalSessions    int
	RemainingSeconds int
	PhaseSeconds     int
	Running          bool
}

// Progress is the elapsed fraction of the current phase.
func (s Snapshot) Progress() float64 {
	if s.PhaseSeconds == 0 {
		return 1
	}
	return float64(s.PhaseSeconds-s.RemainingSeconds) / float64(s.PhaseSeconds)
}

// Clock renders the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.RemainingSeconds/60, s.RemainingSeconds%60)
}

// Timer is a focus/break countdown. It is not safe for concurrent use.
type Timer struct {
	settings  Settings
	mode      Mode
	session   int
	remaining int
	running   bool
}

// NewTimer starts paused at the first focus session.
func NewTimer(s Settings) *Timer {
	return &Timer{
		settings:  s,
		mode:      ModeFocus,
		session:   1,
		remaining: s.FocusMinutes * 60,
	}
}

func (t *Timer) Start() {
	if t.mode != ModeDone {
		t.running = true
	}
}

func (t *Timer) Pause() { t.running = false }

// Toggle flips between running and paused and reports the new state.
func (t *Timer) Toggle() bool {
	if t.running {
		t.Pause()
	} else {
		t.Start()
	}
	return t.running
}

// Reset stops the timer and restores the full length of the current phase.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.settings.minutes(t.mode) * 60
}

// Tick advances one second. When the phase reaches zero the timer moves to
// the next phase, pauses, and returns the transition.
func (t *Timer) Tick() (Transition, bool) {
	if !t.running || t.mode == ModeDone {
		return Transition{}, false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return Transition{}, false
	}
	return t.advance(), true
}

func (t *Timer) advance() Transition {
	tr := Transition{From: t.mode, Session: t.session}
	t.running = false

	if t.mode == ModeFocus {
		if t.session%LongBreakEvery == 0 {
			t.mode = ModeLongBreak
		} else {
			t.mode = ModeShortBreak
		}
	} else if t.session >= t.settings.Sessions {
		t.mode = ModeDone
	} else {
		t.session++
		t.mode = ModeFocus
	}

	t.remaining = t.settings.minutes(t.mode) * 60
	tr.To = t.mode
	return tr
}

func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		Mode:             t.mode,
		Session:          t.session,
		TotalSessions:    t.settings.Sessions,
		RemainingSeconds: t.remaining,
		PhaseSeconds:     t.settings.minutes(t.mode) * 60,
		Running:          t.running,
	}
}
