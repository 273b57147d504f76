package service

import (
	"math"
	"time"

	"habit-planner/internal/model"
)

// maxStreakDays caps the backwards walk.
const maxStreakDays = 3650

// Stats is the profile summary.
type Stats struct {
	Total          int
	Completed      int
	Streak         int
	DaysRegistered int
}

// ComputeStats counts tasks over the whole store. A day is active when at
// least one of its tasks is done; the streak counts consecutive active days
// ending today, or ending yesterday when today has nothing done yet.
func ComputeStats(store model.TaskStore, registered, now time.Time) Stats {
	var st Stats
	active := make(map[string]bool)
	for date, tasks := range store {
		for _, t := range tasks {
			st.Total++
			if t.Done {
				st.Completed++
				active[date] = true
			}
		}
	}

	day := model.FormatDate(now)
	cursor, _ := model.ParseDate(day)
	if !active[day] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for active[model.FormatDate(cursor)] && st.Streak < maxStreakDays {
		st.Streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	st.DaysRegistered = 1
	if !registered.IsZero() {
		days := int(math.Ceil(math.Abs(now.Sub(registered).Hours()) / 24))
		if days > 0 {
			st.DaysRegistered = days
		}
	}
	return st
}
