package service

import (
	"context"
	"testing"
	"time"

	"habit-planner/internal/model"
	"habit-planner/internal/repository"
)

func TestWorkspacesAreIsolatedAndCached(t *testing.T) {
	stores := map[string]*memKV{}
	open := func(owner string) repository.KeyValueStore {
		if stores[owner] == nil {
			stores[owner] = newMemKV()
		}
		return stores[owner]
	}
	now := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	ws := NewWorkspaces(open, &fakeAuth{}, now)
	ctx := context.Background()

	a := ws.Get(ctx, "a")
	if ws.Get(ctx, "a") != a {
		t.Fatal("workspace not cached")
	}
	if _, err := a.Tasks.AddTask(ctx, model.Task{Type: "yoga", Done: true}, "2024-01-01"); err != nil {
		t.Fatal(err)
	}
	if len(ws.Get(ctx, "b").Tasks.Dates()) != 0 {
		t.Errorf("owners share tasks")
	}
	if stores["a"].data[model.KeyRegistrationDate] == "" {
		t.Errorf("registration date not recorded on load")
	}
	if st := a.Stats(); st.Total != 1 || st.Completed != 0 {
		t.Errorf("stats = %+v", st)
	}
}
