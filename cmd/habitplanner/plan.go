package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"habit-planner/internal/pomodoro"
)

var planCmd = &cobra.Command{
	Use:   "plan <minutes>",
	Short: "Suggest focus sessions for a time budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		plan, err := pomodoro.SuggestInput(args[0])
		if err != nil {
			fmt.Fprintln(out, theme.Error.Render("Enter a positive number of minutes."))
			return nil
		}
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Plan for %s min", args[0])))
		fmt.Fprintf(out, "%s %d\n", theme.Label.Render("sessions"), plan.Sessions)
		fmt.Fprintf(out, "%s %d min\n", theme.Label.Render("focus   "), plan.FocusMinutes)
		fmt.Fprintf(out, "%s %d min\n", theme.Label.Render("break   "), plan.BreakMinutes)
		return nil
	},
}
