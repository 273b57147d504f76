package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"habit-planner/internal/model"
	"habit-planner/internal/repository"
)

func newTaskService(kv *memKV) *TaskService {
	return NewTaskService(repository.NewTaskStoreRepository(kv))
}

func TestAddTaskExpandsAndPersists(t *testing.T) {
	kv := newMemKV()
	svc := newTaskService(kv)
	ctx := context.Background()

	added, err := svc.AddTask(ctx, model.Task{Type: "run", Title: "Morning run", Time: "07:00", Frequency: model.FrequencyWeekly}, "2024-01-01")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(added) != 52 {
		t.Fatalf("added %d dates, want 52", len(added))
	}

	day := svc.Day("2024-01-08")
	if len(day) != 1 || day[0].SeriesID == "" {
		t.Fatalf("day = %+v", day)
	}

	var persisted model.TaskStore
	if err := json.Unmarshal([]byte(kv.data[model.KeyTasks]), &persisted); err != nil {
		t.Fatalf("decode persisted: %v", err)
	}
	if len(persisted) != 52 {
		t.Errorf("persisted %d dates, want 52", len(persisted))
	}

	again, err := svc.AddTask(ctx, model.Task{Type: "run", Title: "Morning run", Time: "07:00", Frequency: model.FrequencyWeekly}, "2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("second add inserted %d instances", len(again))
	}
}

func TestAddTaskRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		tpl  model.Task
		date string
	}{
		{"bad date", model.Task{Type: "run"}, "01/02/2024"},
		{"missing type", model.Task{Title: "x"}, "2024-01-01"},
		{"unknown type", model.Task{Type: "nap"}, "2024-01-01"},
		{"custom without title", model.Task{Type: model.TypeCustom}, "2024-01-01"},
		{"bad time", model.Task{Type: "run", Time: "25:00"}, "2024-01-01"},
		{"bad frequency", model.Task{Type: "run", Frequency: "hourly"}, "2024-01-01"},
		{"bad weekday", model.Task{Type: "run", Frequency: model.FrequencySpecificDays, DaysOfWeek: []int{7}}, "2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv := newMemKV()
			svc := newTaskService(kv)
			_, err := svc.AddTask(context.Background(), tc.tpl, tc.date)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if len(svc.Dates()) != 0 || len(kv.data) != 0 {
				t.Errorf("state changed after invalid input")
			}
		})
	}
}

func TestSpecificDaysWithoutDaysIsNoop(t *testing.T) {
	svc := newTaskService(newMemKV())
	added, err := svc.AddTask(context.Background(), model.Task{Type: "yoga", Frequency: model.FrequencySpecificDays}, "2024-01-03")
	if err != nil || len(added) != 0 {
		t.Fatalf("added = %v, err = %v", added, err)
	}
}

func TestPersistenceFailureIsNotSurfaced(t *testing.T) {
	kv := newMemKV()
	kv.failSet = true
	svc := newTaskService(kv)

	if _, err := svc.AddTask(context.Background(), model.Task{Type: "water"}, "2024-02-01"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(svc.Day("2024-02-01")) != 1 {
		t.Errorf("in-memory store not updated")
	}
}

func TestToggleDoneReportsDayComplete(t *testing.T) {
	svc := newTaskService(newMemKV())
	ctx := context.Background()
	_, _ = svc.AddTask(ctx, model.Task{Type: "water"}, "2024-02-01")
	_, _ = svc.AddTask(ctx, model.Task{Type: "read", Title: "Dune"}, "2024-02-01")

	done, complete, err := svc.ToggleDone(ctx, "2024-02-01", 0)
	if err != nil || !done || complete {
		t.Fatalf("first toggle = %v %v %v", done, complete, err)
	}
	done, complete, err = svc.ToggleDone(ctx, "2024-02-01", 1)
	if err != nil || !done || !complete {
		t.Fatalf("second toggle = %v %v %v", done, complete, err)
	}
	if _, _, err := svc.ToggleDone(ctx, "2024-02-01", 2); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestToggleSubtaskAssignsIDs(t *testing.T) {
	svc := newTaskService(newMemKV())
	ctx := context.Background()
	_, err := svc.AddTask(ctx, model.Task{Type: "house", Subtasks: []model.Subtask{{Text: "Dishes"}, {Text: "Floor"}}}, "2024-02-01")
	if err != nil {
		t.Fatal(err)
	}
	task := svc.Day("2024-02-01")[0]
	if task.Subtasks[0].ID == "" || task.Subtasks[0].ID == task.Subtasks[1].ID {
		t.Fatalf("subtask ids = %+v", task.Subtasks)
	}

	done, err := svc.ToggleSubtask(ctx, "2024-02-01", 0, task.Subtasks[1].ID)
	if err != nil || !done {
		t.Fatalf("toggle = %v, %v", done, err)
	}
	if !svc.Day("2024-02-01")[0].Subtasks[1].Done {
		t.Errorf("subtask not marked done")
	}
}

func TestDeleteOneAndAllRepetitions(t *testing.T) {
	svc := newTaskService(newMemKV())
	ctx := context.Background()
	_, _ = svc.AddTask(ctx, model.Task{Type: "gym", Time: "18:00", Frequency: model.FrequencyDaily}, "2024-01-01")
	_, _ = svc.AddTask(ctx, model.Task{Type: "read"}, "2024-01-02")

	removed, err := svc.DeleteOne(ctx, "2024-01-01", 0)
	if err != nil || removed.Type != "gym" {
		t.Fatalf("delete one = %+v, %v", removed, err)
	}
	if len(svc.Day("2024-01-01")) != 0 || len(svc.Day("2024-01-02")) != 2 {
		t.Fatalf("delete one touched other days")
	}

	n, err := svc.DeleteAllRepetitions(ctx, "2024-01-02", 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 364 {
		t.Errorf("removed %d, want 364", n)
	}
	dates := svc.Dates()
	if len(dates) != 1 || dates[0] != "2024-01-02" {
		t.Errorf("dates = %v", dates)
	}
}

func TestDeleteSeriesKeepsLookalikes(t *testing.T) {
	svc := newTaskService(newMemKV())
	ctx := context.Background()
	_, _ = svc.AddTask(ctx, model.Task{Type: "walk", Frequency: model.FrequencyBiweekly}, "2024-01-01")
	_, _ = svc.AddTask(ctx, model.Task{Type: "walk"}, "2024-01-02")

	series := svc.Day("2024-01-01")[0].SeriesID
	n, err := svc.DeleteSeries(ctx, series)
	if err != nil || n != 26 {
		t.Fatalf("delete series = %d, %v", n, err)
	}
	if len(svc.Day("2024-01-02")) != 1 {
		t.Errorf("unrelated task removed")
	}
	if _, err := svc.DeleteSeries(ctx, series); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestEditTaskReplacesOnlyOneInstance(t *testing.T) {
	svc := newTaskService(newMemKV())
	ctx := context.Background()
	_, _ = svc.AddTask(ctx, model.Task{Type: "read", Title: "Dune", Frequency: model.FrequencyWeekly}, "2024-01-01")
	series := svc.Day("2024-01-01")[0].SeriesID

	added, err := svc.EditTask(ctx, "2024-01-08", 0, model.Task{Type: "read", Title: "Dune Messiah"}, "2024-01-08")
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 1 {
		t.Fatalf("added = %v", added)
	}
	edited := svc.Day("2024-01-08")[0]
	if edited.Title != "Dune Messiah" || edited.SeriesID != series {
		t.Errorf("edited = %+v", edited)
	}
	if svc.Day("2024-01-15")[0].Title != "Dune" {
		t.Errorf("other occurrences changed")
	}

	if _, err := svc.EditTask(ctx, "2030-01-01", 0, model.Task{Type: "read"}, "2030-01-01"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestEditFromTemplateKeepsDetails(t *testing.T) {
	svc := newTaskService(newMemKV())
	ctx := context.Background()
	tpl := model.Task{
		Type:     model.TypeBirthday,
		Title:    "Mum",
		Color:    "#123456",
		Subtasks: []model.Subtask{{Text: "buy flowers"}, {Text: "call"}},
	}
	tpl.SetField("age", "60")
	if _, err := svc.AddTask(ctx, tpl, "2024-03-10"); err != nil {
		t.Fatal(err)
	}
	subID := svc.Day("2024-03-10")[0].Subtasks[0].ID
	if _, err := svc.ToggleSubtask(ctx, "2024-03-10", 0, subID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.ToggleDone(ctx, "2024-03-10", 0); err != nil {
		t.Fatal(err)
	}

	edit, err := svc.Template("2024-03-10", 0)
	if err != nil {
		t.Fatal(err)
	}
	if edit.Done {
		t.Errorf("template should start not done")
	}
	edit.Title = "Mom"
	if _, err := svc.EditTask(ctx, "2024-03-10", 0, edit, "2024-03-10"); err != nil {
		t.Fatal(err)
	}

	got := svc.Day("2024-03-10")[0]
	if got.Title != "Mom" || got.Color != "#123456" || got.Field("age") != "60" {
		t.Errorf("edited = %+v", got)
	}
	if len(got.Subtasks) != 2 || got.Subtasks[0].ID != subID || !got.Subtasks[0].Done || got.Subtasks[1].Done {
		t.Errorf("subtasks = %+v", got.Subtasks)
	}

	if _, err := svc.Template("2024-03-11", 0); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadRestoresStore(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()
	_, _ = newTaskService(kv).AddTask(ctx, model.Task{Type: "fruit"}, "2024-03-01")

	svc := newTaskService(kv)
	if err := svc.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if len(svc.Day("2024-03-01")) != 1 {
		t.Errorf("store not restored")
	}

	kv.data[model.KeyTasks] = "{not json"
	if err := svc.Load(ctx); err == nil {
		t.Errorf("expected decode error")
	}
	if len(svc.Dates()) != 0 {
		t.Errorf("broken document should leave an empty store")
	}
}
