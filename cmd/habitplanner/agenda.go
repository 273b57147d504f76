package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"habit-planner/internal/config"
	"habit-planner/internal/model"
	"habit-planner/internal/service"
)

var (
	agendaOwner  string
	agendaFormat string
)

var agendaCmd = &cobra.Command{
	Use:   "agenda [YYYY-MM-DD]",
	Short: "Show the tasks scheduled on a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		day := time.Now().In(cfg.Location())
		if len(args) == 1 {
			if day, err = model.ParseDate(args[0]); err != nil {
				return err
			}
		}

		db, closeDB, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		ws := openWorkspace(cmd.Context(), cfg, db, agendaOwner)
		view := buildAgenda(day, ws.Tasks.Day(model.FormatDate(day)))
		return writeAgenda(cmd.OutOrStdout(), view, agendaFormat)
	},
}

func init() {
	agendaCmd.Flags().StringVar(&agendaOwner, "owner", localOwner, "key-value scope to read (a Telegram user id for bot data)")
	agendaCmd.Flags().StringVar(&agendaFormat, "format", "text", "output format: text, json or yaml")
}

type agendaView struct {
	Date  string        `json:"date" yaml:"date"`
	Done  int           `json:"done" yaml:"done"`
	Total int           `json:"total" yaml:"total"`
	Tasks []agendaEntry `json:"tasks" yaml:"tasks"`
}

type agendaEntry struct {
	Type        string   `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	Time        string   `json:"time,omitempty" yaml:"time,omitempty"`
	Repeats     string   `json:"repeats,omitempty" yaml:"repeats,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string   `json:"color" yaml:"color"`
	Done        bool     `json:"done" yaml:"done"`
	Subtasks    []string `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

func buildAgenda(day time.Time, tasks []model.Task) agendaView {
	view := agendaView{Date: model.FormatDate(day), Total: len(tasks), Tasks: make([]agendaEntry, 0, len(tasks))}
	for _, t := range tasks {
		if t.Done {
			view.Done++
		}
		entry := agendaEntry{
			Type:        t.Type,
			Title:       t.DisplayTitle(),
			Time:        t.Time,
			Description: strings.TrimSpace(t.Description),
			Color:       t.DisplayColor(),
			Done:        t.Done,
		}
		if t.Frequency != "" && t.Frequency != model.FrequencyOnce {
			entry.Repeats = service.FrequencyLabel(t)
		}
		for _, st := range t.Subtasks {
			mark := "[ ]"
			if st.Done {
				mark = "[x]"
			}
			entry.Subtasks = append(entry.Subtasks, mark+" "+st.Text)
		}
		view.Tasks = append(view.Tasks, entry)
	}
	return view
}

func writeAgenda(w io.Writer, view agendaView, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, err := io.WriteString(w, renderAgenda(view)+"\n")
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderAgenda(view agendaView) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Agenda " + view.Date))
	sb.WriteByte('\n')
	if len(view.Tasks) == 0 {
		sb.WriteString(theme.Hint.Render("nothing planned"))
		return theme.Box.Render(sb.String())
	}
	for _, e := range view.Tasks {
		check := "○"
		title := theme.Value.Render(e.Title)
		if e.Done {
			check = theme.Success.Render("✓")
			title = theme.Label.Render(e.Title)
		}
		clock := "     "
		if e.Time != "" {
			clock = e.Time
		}
		sb.WriteString(fmt.Sprintf("\n%s %s %s %s", check, theme.Label.Render(clock), swatch(e.Color), title))
		if e.Repeats != "" {
			sb.WriteString(" " + theme.Hint.Render("↻ "+e.Repeats))
		}
		for _, st := range e.Subtasks {
			sb.WriteString("\n        " + theme.Hint.Render(st))
		}
		if e.Description != "" {
			sb.WriteString("\n        " + theme.Label.Render(e.Description))
		}
	}
	sb.WriteString(fmt.Sprintf("\n\n%s %d/%d", theme.Label.Render("done"), view.Done, view.Total))
	return theme.Box.Render(sb.String())
}
