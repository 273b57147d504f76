package main

import "github.com/charmbracelet/lipgloss"

type palette struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Hint    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Box     lipgloss.Style
}

var theme = palette{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:   lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Hint:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
}

// swatch renders a small block in a task's colour.
func swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
