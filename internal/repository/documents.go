package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habit-planner/internal/model"
)

// KeyValueStore is the string-valued persistence collaborator. Values are
// always read and written whole.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// TaskStoreRepository persists the date-indexed task document.
type TaskStoreRepository struct {
	kv KeyValueStore
}

func NewTaskStoreRepository(kv KeyValueStore) *TaskStoreRepository {
	return &TaskStoreRepository{kv: kv}
}

// Load returns an empty store when nothing was saved yet.
func (r *TaskStoreRepository) Load(ctx context.Context) (model.TaskStore, error) {
	store := model.TaskStore{}
	raw, ok, err := r.kv.Get(ctx, model.KeyTasks)
	if err != nil || !ok || raw == "" {
		return store, err
	}
	if err := json.Unmarshal([]byte(raw), &store); err != nil {
		return model.TaskStore{}, fmt.Errorf("decode tasks: %w", err)
	}
	return store, nil
}

func (r *TaskStoreRepository) Save(ctx context.Context, store model.TaskStore) error {
	raw, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return r.kv.Set(ctx, model.KeyTasks, string(raw))
}

// JournalRepository persists notes, cover colour and journal title.
type JournalRepository struct {
	kv KeyValueStore
}

func NewJournalRepository(kv KeyValueStore) *JournalRepository {
	return &JournalRepository{kv: kv}
}

func (r *JournalRepository) LoadNotes(ctx context.Context) ([]model.JournalNote, error) {
	raw, ok, err := r.kv.Get(ctx, model.KeyJournalNotes)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var notes []model.JournalNote
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

func (r *JournalRepository) SaveNotes(ctx context.Context, notes []model.JournalNote) error {
	if notes == nil {
		notes = []model.JournalNote{}
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	return r.kv.Set(ctx, model.KeyJournalNotes, string(raw))
}

func (r *JournalRepository) LoadCover(ctx context.Context) (string, bool, error) {
	return r.kv.Get(ctx, model.KeyJournalCover)
}

func (r *JournalRepository) SaveCover(ctx context.Context, color string) error {
	return r.kv.Set(ctx, model.KeyJournalCover, color)
}

func (r *JournalRepository) LoadTitle(ctx context.Context) (string, bool, error) {
	return r.kv.Get(ctx, model.KeyJournalTitle)
}

func (r *JournalRepository) SaveTitle(ctx context.Context, title string) error {
	return r.kv.Set(ctx, model.KeyJournalTitle, title)
}

// AccountRepository mirrors the signed-in account in local persistence.
type AccountRepository struct {
	kv KeyValueStore
}

func NewAccountRepository(kv KeyValueStore) *AccountRepository {
	return &AccountRepository{kv: kv}
}

func (r *AccountRepository) Load(ctx context.Context) (model.LocalAccount, error) {
	var acc model.LocalAccount
	var err error
	if acc.Name, _, err = r.kv.Get(ctx, model.KeyUserName); err != nil {
		return acc, err
	}
	if acc.Email, _, err = r.kv.Get(ctx, model.KeyUserEmail); err != nil {
		return acc, err
	}
	loggedIn, _, err := r.kv.Get(ctx, model.KeyIsLoggedIn)
	if err != nil {
		return acc, err
	}
	acc.LoggedIn = loggedIn == "true"

	registered, ok, err := r.RegistrationDate(ctx)
	if err != nil {
		return acc, err
	}
	if ok {
		acc.RegisteredAt = registered
	}
	return acc, nil
}

// SaveSignIn writes user_name, user_email and is_logged_in=true.
func (r *AccountRepository) SaveSignIn(ctx context.Context, name, email string) error {
	if err := r.kv.Set(ctx, model.KeyUserName, name); err != nil {
		return err
	}
	if err := r.kv.Set(ctx, model.KeyUserEmail, email); err != nil {
		return err
	}
	return r.kv.Set(ctx, model.KeyIsLoggedIn, "true")
}

// Clear forgets the signed-in account but keeps the registration date.
func (r *AccountRepository) Clear(ctx context.Context) error {
	for _, key := range []string{model.KeyUserName, model.KeyUserEmail} {
		if err := r.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return r.kv.Set(ctx, model.KeyIsLoggedIn, "false")
}

func (r *AccountRepository) RegistrationDate(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := r.kv.Get(ctx, model.KeyRegistrationDate)
	if err != nil || !ok || raw == "" {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode registration date: %w", err)
	}
	return t, true, nil
}

func (r *AccountRepository) SaveRegistrationDate(ctx context.Context, at time.Time) error {
	return r.kv.Set(ctx, model.KeyRegistrationDate, at.UTC().Format(time.RFC3339Nano))
}
