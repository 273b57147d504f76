package service

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"habit-planner/internal/model"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct{}

func NewReminderService() *ReminderService {
	return &ReminderService{}
}

// DailySummary renders one day of tasks as Telegram HTML. Timed tasks come
// first in clock order, the rest keep their display order.
func (s *ReminderService) DailySummary(day time.Time, tasks []model.Task) string {
	ordered := append([]model.Task(nil), tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		switch {
		case ordered[i].Time == "":
			return false
		case ordered[j].Time == "":
			return true
		default:
			return ordered[i].Time < ordered[j].Time
		}
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily agenda</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", day.Format("Monday, Jan 2 2006")))

	if len(ordered) == 0 {
		builder.WriteString("— nothing planned for today\n")
		return strings.TrimSpace(builder.String())
	}

	done := 0
	for _, task := range ordered {
		if task.Done {
			done++
		}
		builder.WriteString(FormatTask(task))
	}
	builder.WriteString(fmt.Sprintf("\n✅ %d of %d done", done, len(ordered)))

	return strings.TrimSpace(builder.String())
}

// FormatTask renders a single instance as an HTML block ending in a newline.
func FormatTask(task model.Task) string {
	var sb strings.Builder

	check := "⬜"
	if task.Done {
		check = "✅"
	}
	kind := model.LookupType(task.Type)
	sb.WriteString(fmt.Sprintf("%s %s %s", check, kind.Icon, html.EscapeString(task.DisplayTitle())))
	if task.Type != model.TypeCustom && strings.TrimSpace(task.Title) != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(kind.Label)))
	}

	if task.Time != "" {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s", task.Time))
	}
	if task.Frequency != "" && task.Frequency != model.FrequencyOnce {
		sb.WriteString(fmt.Sprintf(" · 🔁 %s", FrequencyLabel(task)))
	}
	if len(task.Subtasks) > 0 {
		finished := 0
		for _, st := range task.Subtasks {
			if st.Done {
				finished++
			}
		}
		sb.WriteString(fmt.Sprintf("\n   ☑️ %d/%d subtasks", finished, len(task.Subtasks)))
	}
	if len(task.ShoppingList) > 0 {
		sb.WriteString(fmt.Sprintf("\n   🛒 %d items · %.2f", len(task.ShoppingList), task.ShoppingTotal()))
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(desc)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

var weekdayShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FrequencyLabel describes the recurrence rule of a task.
func FrequencyLabel(task model.Task) string {
	switch task.Frequency {
	case model.FrequencyDaily:
		return "every day"
	case model.FrequencyWeekly:
		if task.Type == model.TypeShopping {
			return "every 8 days"
		}
		return "every week"
	case model.FrequencyBiweekly:
		return "every 15 days"
	case model.FrequencyMonthly:
		return "every month"
	case model.FrequencyYearly:
		return "every year"
	case model.FrequencySpecificDays:
		names := make([]string, 0, len(task.DaysOfWeek))
		for _, d := range task.DaysOfWeek {
			if d >= 0 && d < len(weekdayShort) {
				names = append(names, weekdayShort[d])
			}
		}
		return strings.Join(names, ", ")
	default:
		return "once"
	}
}
