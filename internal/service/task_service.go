package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
	"habit-planner/internal/repository"
)

// TaskService owns one user's task store. Every mutation updates memory
// first and then writes the whole document.
type TaskService struct {
	repo *repository.TaskStoreRepository

	mu    sync.Mutex
	store model.TaskStore
}

func NewTaskService(repo *repository.TaskStoreRepository) *TaskService {
	return &TaskService{repo: repo, store: model.TaskStore{}}
}

// Load replaces the in-memory store with the persisted one. On error the
// store starts empty.
func (s *TaskService) Load(ctx context.Context) error {
	store, err := s.repo.Load(ctx)
	if err != nil {
		store = model.TaskStore{}
	}
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	return err
}

// Day returns copies of the instances scheduled on date, in display order.
func (s *TaskService) Day(date string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.store[date]
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *TaskService) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Dates()
}

func (s *TaskService) Snapshot() model.TaskStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// AddTask expands tpl from date and merges every occurrence into the store.
// It returns the dates that received a new instance.
func (s *TaskService) AddTask(ctx context.Context, tpl model.Task, date string) ([]string, error) {
	tpl, start, err := prepare(tpl, date)
	if err != nil {
		return nil, err
	}
	if tpl.SeriesID == "" {
		tpl.SeriesID = uuid.NewString()
	}

	s.mu.Lock()
	added := recurrence.Merge(s.store, recurrence.Expand(tpl, start, tpl.Frequency, tpl.DaysOfWeek))
	snapshot := s.store.Clone()
	s.mu.Unlock()

	if len(added) > 0 {
		s.persist(ctx, snapshot)
	}
	return added, nil
}

// Template returns a copy of the instance at (date, index) to edit from.
// Subtasks, shopping items, fields and colour are kept; Done is cleared.
func (s *TaskService) Template(date string, index int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.store[date]
	if index < 0 || index >= len(tasks) {
		return model.Task{}, fmt.Errorf("%s #%d: %w", date, index, ErrTaskNotFound)
	}
	tpl := tasks[index].Clone()
	tpl.Done = false
	return tpl, nil
}

// EditTask removes the instance at (date, index) and expands tpl from
// newDate. Other occurrences of the old template stay untouched.
func (s *TaskService) EditTask(ctx context.Context, date string, index int, tpl model.Task, newDate string) ([]string, error) {
	tpl, start, err := prepare(tpl, newDate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	original, ok := s.store.RemoveAt(date, index)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s #%d: %w", date, index, ErrTaskNotFound)
	}
	if tpl.SeriesID == "" {
		tpl.SeriesID = original.SeriesID
	}
	if tpl.SeriesID == "" {
		tpl.SeriesID = uuid.NewString()
	}
	added := recurrence.Merge(s.store, recurrence.Expand(tpl, start, tpl.Frequency, tpl.DaysOfWeek))
	snapshot := s.store.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return added, nil
}

// ToggleDone flips the done flag and reports whether every task of that day
// is now done.
func (s *TaskService) ToggleDone(ctx context.Context, date string, index int) (done, dayComplete bool, err error) {
	s.mu.Lock()
	tasks := s.store[date]
	if index < 0 || index >= len(tasks) {
		s.mu.Unlock()
		return false, false, fmt.Errorf("%s #%d: %w", date, index, ErrTaskNotFound)
	}
	tasks[index].Done = !tasks[index].Done
	done = tasks[index].Done
	dayComplete = true
	for _, t := range tasks {
		if !t.Done {
			dayComplete = false
			break
		}
	}
	snapshot := s.store.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return done, dayComplete, nil
}

// ToggleSubtask flips one checklist entry of a single instance.
func (s *TaskService) ToggleSubtask(ctx context.Context, date string, index int, subtaskID string) (bool, error) {
	s.mu.Lock()
	tasks := s.store[date]
	if index < 0 || index >= len(tasks) {
		s.mu.Unlock()
		return false, fmt.Errorf("%s #%d: %w", date, index, ErrTaskNotFound)
	}
	subtasks := tasks[index].Subtasks
	pos := -1
	for i := range subtasks {
		if subtasks[i].ID == subtaskID {
			pos = i
			break
		}
	}
	if pos < 0 {
		s.mu.Unlock()
		return false, fmt.Errorf("subtask %q: %w", subtaskID, ErrTaskNotFound)
	}
	subtasks[pos].Done = !subtasks[pos].Done
	done := subtasks[pos].Done
	snapshot := s.store.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return done, nil
}

// DeleteOne removes only the instance at (date, index).
func (s *TaskService) DeleteOne(ctx context.Context, date string, index int) (model.Task, error) {
	s.mu.Lock()
	removed, ok := s.store.RemoveAt(date, index)
	if !ok {
		s.mu.Unlock()
		return model.Task{}, fmt.Errorf("%s #%d: %w", date, index, ErrTaskNotFound)
	}
	snapshot := s.store.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return removed, nil
}

// DeleteAllRepetitions removes every instance, on any date, structurally
// equal to the one at (date, index).
func (s *TaskService) DeleteAllRepetitions(ctx context.Context, date string, index int) (int, error) {
	s.mu.Lock()
	tasks := s.store[date]
	if index < 0 || index >= len(tasks) {
		s.mu.Unlock()
		return 0, fmt.Errorf("%s #%d: %w", date, index, ErrTaskNotFound)
	}
	removed := s.store.RemoveMatching(tasks[index].Key())
	snapshot := s.store.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return removed, nil
}

// DeleteSeries removes the instances created by one expansion.
func (s *TaskService) DeleteSeries(ctx context.Context, seriesID string) (int, error) {
	if strings.TrimSpace(seriesID) == "" {
		return 0, invalid("series id is required")
	}
	s.mu.Lock()
	removed := s.store.RemoveSeries(seriesID)
	snapshot := s.store.Clone()
	s.mu.Unlock()

	if removed == 0 {
		return 0, fmt.Errorf("series %s: %w", seriesID, ErrTaskNotFound)
	}
	s.persist(ctx, snapshot)
	return removed, nil
}

func (s *TaskService) persist(ctx context.Context, store model.TaskStore) {
	if err := s.repo.Save(ctx, store); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyTasks, err)
	}
}

// prepare validates a template and fills in generated identifiers.
func prepare(tpl model.Task, date string) (model.Task, time.Time, error) {
	start, err := model.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return tpl, start, invalid("date must be YYYY-MM-DD")
	}

	tpl.Type = strings.TrimSpace(tpl.Type)
	if tpl.Type == "" {
		return tpl, start, invalid("task type is required")
	}
	if !model.IsKnownType(tpl.Type) {
		return tpl, start, invalid(fmt.Sprintf("unknown task type %q", tpl.Type))
	}
	tpl.Title = strings.TrimSpace(tpl.Title)
	if tpl.Type == model.TypeCustom && tpl.Title == "" {
		return tpl, start, invalid("custom tasks need a title")
	}
	tpl.Time = strings.TrimSpace(tpl.Time)
	if tpl.Time != "" && !model.ValidClock(tpl.Time) {
		return tpl, start, invalid("time must be HH:MM")
	}

	freq, err := model.ParseFrequency(string(tpl.Frequency))
	if err != nil {
		return tpl, start, invalid(err.Error())
	}
	tpl.Frequency = freq
	if freq == model.FrequencySpecificDays {
		for _, d := range tpl.DaysOfWeek {
			if d < 0 || d > 6 {
				return tpl, start, invalid("weekdays must be between 0 (Sunday) and 6 (Saturday)")
			}
		}
	} else {
		tpl.DaysOfWeek = nil
	}
	if tpl.Type != model.TypeShopping {
		tpl.ShoppingList = nil
	}

	tpl = tpl.Clone()
	for i := range tpl.Subtasks {
		if tpl.Subtasks[i].ID == "" {
			tpl.Subtasks[i].ID = uuid.NewString()
		}
	}
	for i := range tpl.ShoppingList {
		if tpl.ShoppingList[i].ID == "" {
			tpl.ShoppingList[i].ID = uuid.NewString()
		}
	}
	return tpl, start, nil
}
