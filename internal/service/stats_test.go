package service

import (
	"testing"
	"time"

	"habit-planner/internal/model"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	done := model.Task{Type: "run", Done: true}
	open := model.Task{Type: "read"}

	cases := []struct {
		name       string
		store      model.TaskStore
		registered time.Time
		want       Stats
	}{
		{
			name:  "empty",
			store: model.TaskStore{},
			want:  Stats{DaysRegistered: 1},
		},
		{
			name: "streak ending today",
			store: model.TaskStore{
				"2024-03-10": {done, open},
				"2024-03-09": {done},
				"2024-03-08": {done},
				"2024-03-06": {done},
			},
			registered: now.Add(-36 * time.Hour),
			want:       Stats{Total: 5, Completed: 4, Streak: 3, DaysRegistered: 2},
		},
		{
			name: "today pending keeps yesterday streak",
			store: model.TaskStore{
				"2024-03-10": {open},
				"2024-03-09": {done},
				"2024-03-08": {done},
			},
			registered: now.AddDate(0, 0, -10),
			want:       Stats{Total: 3, Completed: 2, Streak: 2, DaysRegistered: 10},
		},
		{
			name: "gap yesterday breaks streak",
			store: model.TaskStore{
				"2024-03-08": {done},
			},
			want: Stats{Total: 1, Completed: 1, DaysRegistered: 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeStats(tc.store, tc.registered, now); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
