// Package navigation tracks the active section and routes the global "add"
// action to whichever composer that section owns.
package navigation

import (
	"errors"
	"fmt"
	"sync"
)

// Section is a top-level screen.
type Section string

const (
	SectionAgenda   Section = "agenda"
	SectionPomodoro Section = "pomodoro"
	SectionJournal  Section = "journal"
	SectionProfile  Section = "profile"
)

// Sections lists the sections in menu order.
var Sections = []Section{SectionAgenda, SectionPomodoro, SectionJournal, SectionProfile}

// Command is an action another component asks the navigation layer to run.
type Command string

const (
	OpenTaskComposer Command = "open_task_composer"
	OpenNoteComposer Command = "open_note_composer"
)

// Handler runs a command on behalf of one owner.
type Handler func(owner string) error

var (
	ErrAddUnavailable = errors.New("add is not available in this section")
	ErrNoHandler      = errors.New("no handler registered")
)

// Controller keeps the current section per owner and dispatches commands
// to explicitly registered handlers.
type Controller struct {
	mu       sync.Mutex
	current  map[string]Section
	handlers map[Command]Handler
}

func NewController() *Controller {
	return &Controller{
		current:  make(map[string]Section),
		handlers: make(map[Command]Handler),
	}
}

// Register binds a handler to a command, replacing any previous one.
func (c *Controller) Register(cmd Command, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[cmd] = h
}

// Unregister removes the handler for cmd.
func (c *Controller) Unregister(cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, cmd)
}

func (c *Controller) Navigate(owner string, s Section) error {
	if !valid(s) {
		return fmt.Errorf("unknown section %q", s)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current[owner] = s
	return nil
}

// Current defaults to the agenda.
func (c *Controller) Current(owner string) Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.current[owner]; ok {
		return s
	}
	return SectionAgenda
}

// AddCommand resolves the "add" action for a section.
func AddCommand(s Section) (Command, error) {
	switch s {
	case SectionPomodoro:
		return "", ErrAddUnavailable
	case SectionJournal:
		return OpenNoteComposer, nil
	default:
		return OpenTaskComposer, nil
	}
}

// PressAdd runs the add action for the owner's current section and returns
// the command that was dispatched.
func (c *Controller) PressAdd(owner string) (Command, error) {
	cmd, err := AddCommand(c.Current(owner))
	if err != nil {
		return "", err
	}
	return cmd, c.Dispatch(owner, cmd)
}

// Dispatch runs the handler registered for cmd.
func (c *Controller) Dispatch(owner string, cmd Command) error {
	c.mu.Lock()
	h, ok := c.handlers[cmd]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", cmd, ErrNoHandler)
	}
	return h(owner)
}

func valid(s Section) bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}
