package service

import "errors"

var (
	// ErrInvalidInput marks input rejected before any state change.
	ErrInvalidInput       = errors.New("invalid input")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingProfile     = errors.New("all profile fields are required")
)

// invalid builds an error that matches ErrInvalidInput and reads as msg.
func invalid(msg string) error {
	return &inputError{msg: msg}
}

type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

// ErrNoFocusSession is returned when an owner has no running pomodoro.
var ErrNoFocusSession = errors.New("no focus session")
