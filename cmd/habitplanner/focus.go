package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"habit-planner/internal/config"
	"habit-planner/internal/notify"
	"habit-planner/internal/pomodoro"
)

var focusCmd = &cobra.Command{
	Use:   "focus <minutes | focus/break/sessions[/long]>",
	Short: "Run a pomodoro countdown in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := pomodoro.SettingsInput(args[0])
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		m := newFocusModel(settings, notify.New(cfg.Notifications))
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type focusModel struct {
	sessions int
	timer    *pomodoro.Timer
	bar      progress.Model
	notifier notify.Notifier
	last     string
}

func newFocusModel(settings pomodoro.Settings, n notify.Notifier) focusModel {
	timer := pomodoro.NewTimer(settings)
	timer.Start()
	return focusModel{
		sessions: settings.Sessions,
		timer:    timer,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		notifier: n,
	}
}

func (m focusModel) Init() tea.Cmd { return tick() }

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.timer.Toggle()
		case "r":
			m.timer.Reset()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil
	case tickMsg:
		if tr, changed := m.timer.Tick(); changed {
			title, body := notify.PhaseMessage(tr, m.sessions)
			m.last = body
			if err := m.notifier.Notify(title, body); err != nil {
				log.Printf("[warn] notify: %v", err)
			}
		}
		return m, tick()
	}
	return m, nil
}

var modeTitles = map[pomodoro.Mode]string{
	pomodoro.ModeFocus:      "Focus",
	pomodoro.ModeShortBreak: "Short break",
	pomodoro.ModeLongBreak:  "Long break",
	pomodoro.ModeDone:       "Done",
}

func (m focusModel) View() string {
	snap := m.timer.Snapshot()
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("%s · session %d/%d", modeTitles[snap.Mode], snap.Session, snap.TotalSessions)))
	sb.WriteString("\n\n")
	sb.WriteString(theme.Value.Render(snap.Clock()))
	if !snap.Running && snap.Mode != pomodoro.ModeDone {
		sb.WriteString(" " + theme.Hint.Render("paused"))
	}
	sb.WriteString("\n")
	sb.WriteString(m.bar.ViewAs(snap.Progress()))
	if m.last != "" {
		sb.WriteString("\n\n" + theme.Success.Render(m.last))
	}
	sb.WriteString("\n\n" + theme.Hint.Render("space start/pause · r reset · q quit"))
	return theme.Box.Render(sb.String()) + "\n"
}
