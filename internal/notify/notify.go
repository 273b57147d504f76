// Package notify raises desktop notifications when a pomodoro phase ends.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"habit-planner/internal/pomodoro"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop uses the OS notification center. Alert also plays a sound.
type Desktop struct {
	Sound bool
}

func (d Desktop) Notify(title, message string) error {
	if d.Sound {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(string, string) error { return nil }

// New returns a desktop notifier when enabled and Discard otherwise.
func New(enabled bool) Notifier {
	if enabled {
		return Desktop{Sound: true}
	}
	return Discard{}
}

// PhaseMessage describes what comes after a transition.
func PhaseMessage(tr pomodoro.Transition, total int) (title, message string) {
	switch tr.To {
	case pomodoro.ModeShortBreak:
		return "Focus complete", fmt.Sprintf("Session %d of %d done. Take a short break.", tr.Session, total)
	case pomodoro.ModeLongBreak:
		return "Focus complete", fmt.Sprintf("Session %d of %d done. Time for a long break.", tr.Session, total)
	case pomodoro.ModeFocus:
		return "Break over", fmt.Sprintf("Ready for session %d of %d.", tr.Session+1, total)
	case pomodoro.ModeDone:
		return "All sessions done", fmt.Sprintf("You finished %d focus sessions.", total)
	default:
		return "Pomodoro", string(tr.To)
	}
}
