package service

import (
	"strings"
	"testing"
	"time"

	"habit-planner/internal/model"
)

func TestDailySummaryOrdersAndEscapes(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{Type: model.TypeCustom, Title: "Call <mom>"},
		{Type: "run", Time: "18:00", Done: true},
		{Type: "water", Time: "07:30", Frequency: model.FrequencyDaily},
	}

	out := NewReminderService().DailySummary(day, tasks)

	if !strings.Contains(out, "Call &lt;mom&gt;") {
		t.Errorf("title not escaped:\n%s", out)
	}
	water := strings.Index(out, "Drink water")
	run := strings.Index(out, "Run")
	custom := strings.Index(out, "Call")
	if !(water < run && run < custom) {
		t.Errorf("unexpected order:\n%s", out)
	}
	if !strings.Contains(out, "1 of 3 done") || !strings.Contains(out, "every day") {
		t.Errorf("summary:\n%s", out)
	}
}

func TestDailySummaryEmptyDay(t *testing.T) {
	out := NewReminderService().DailySummary(time.Now(), nil)
	if !strings.Contains(out, "nothing planned") {
		t.Errorf("summary = %q", out)
	}
}

func TestFrequencyLabel(t *testing.T) {
	cases := []struct {
		task model.Task
		want string
	}{
		{model.Task{Type: "run", Frequency: model.FrequencyWeekly}, "every week"},
		{model.Task{Type: model.TypeShopping, Frequency: model.FrequencyWeekly}, "every 8 days"},
		{model.Task{Frequency: model.FrequencySpecificDays, DaysOfWeek: []int{1, 5}}, "Mon, Fri"},
		{model.Task{}, "once"},
	}
	for _, tc := range cases {
		if got := FrequencyLabel(tc.task); got != tc.want {
			t.Errorf("FrequencyLabel(%+v) = %q, want %q", tc.task, got, tc.want)
		}
	}
}
