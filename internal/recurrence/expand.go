// Package recurrence turns a task template and a frequency rule into dated
// task instances.
package recurrence

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"habit-planner/internal/model"
)

// Occurrence counts per frequency.
const (
	DailyOccurrences    = 365
	WeeklyOccurrences   = 52
	BiweeklyOccurrences = 26
	MonthlyOccurrences  = 24
	YearlyOccurrences   = 10
	SpecificDaysWeeks   = 26
)

const (
	weeklyPeriodDays   = 7
	shoppingPeriodDays = 8
	biweeklyPeriodDays = 15
)

// Occurrence is one template materialised onto a calendar date.
type Occurrence struct {
	Date time.Time
	Task model.Task
}

// DateKey returns the store key of the occurrence.
func (o Occurrence) DateKey() string {
	return model.FormatDate(o.Date)
}

// Expand generates the occurrences of tpl starting at start, sorted by date.
// An unknown frequency behaves like once. Empty days with specificDays yields
// nothing.
func Expand(tpl model.Task, start time.Time, freq model.Frequency, days []int) []Occurrence {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var out []Occurrence
	if freq == model.FrequencySpecificDays {
		out = expandWeekdays(tpl, start, days)
	} else {
		count, step := schedule(tpl, freq)
		out = make([]Occurrence, 0, count)
		for i := 0; i < count; i++ {
			task := instance(tpl)
			if freq == model.FrequencyYearly && tpl.Type == model.TypeBirthday {
				bumpAge(&task, i)
			}
			out = append(out, Occurrence{Date: step(start, i), Task: task})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func schedule(tpl model.Task, freq model.Frequency) (int, func(time.Time, int) time.Time) {
	everyDays := func(n int) func(time.Time, int) time.Time {
		return func(start time.Time, i int) time.Time { return start.AddDate(0, 0, i*n) }
	}

	switch freq {
	case model.FrequencyDaily:
		return DailyOccurrences, everyDays(1)
	case model.FrequencyWeekly:
		// Shopping repeats every 8 days instead of every week.
		if tpl.Type == model.TypeShopping {
			return WeeklyOccurrences, everyDays(shoppingPeriodDays)
		}
		return WeeklyOccurrences, everyDays(weeklyPeriodDays)
	case model.FrequencyBiweekly:
		return BiweeklyOccurrences, everyDays(biweeklyPeriodDays)
	case model.FrequencyMonthly:
		// AddDate normalises overflow: Jan 31 + 1 month is Mar 2 in 2024.
		return MonthlyOccurrences, func(start time.Time, i int) time.Time { return start.AddDate(0, i, 0) }
	case model.FrequencyYearly:
		return YearlyOccurrences, func(start time.Time, i int) time.Time { return start.AddDate(i, 0, 0) }
	default:
		return 1, everyDays(0)
	}
}

func expandWeekdays(tpl model.Task, start time.Time, days []int) []Occurrence {
	if len(days) == 0 {
		return nil
	}
	out := make([]Occurrence, 0, SpecificDaysWeeks*len(days))
	for w := 0; w < SpecificDaysWeeks; w++ {
		anchor := start.AddDate(0, 0, 7*w)
		base := int(anchor.Weekday())
		for _, dow := range days {
			if dow < 0 || dow > 6 {
				continue
			}
			diff := (dow - base + 7) % 7
			out = append(out, Occurrence{Date: anchor.AddDate(0, 0, diff), Task: instance(tpl)})
		}
	}
	return out
}

func instance(tpl model.Task) model.Task {
	task := tpl.Clone()
	task.Done = false
	return task
}

// bumpAge sets age to base+offset; non-numeric ages are left untouched.
func bumpAge(task *model.Task, offset int) {
	base, err := strconv.Atoi(strings.TrimSpace(task.Field("age")))
	if err != nil {
		return
	}
	task.SetField("age", strconv.Itoa(base+offset))
}

// Merge inserts occurrences into store, skipping dates that already hold a
// structurally equal instance. It returns the dates that received one.
func Merge(store model.TaskStore, occurrences []Occurrence) []string {
	var added []string
	for _, occ := range occurrences {
		key := occ.DateKey()
		if store.Insert(key, occ.Task) {
			added = append(added, key)
		}
	}
	return added
}
