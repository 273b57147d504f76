package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"habit-planner/internal/model"
)

func newTestKV(t *testing.T) *KVRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		t.Cleanup(func() { sqlDB.Close() })
	}
	return NewKVRepository(db)
}

func TestScopedKVRoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t).Scope("42")

	if _, ok, err := kv.Get(ctx, "tasks"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "tasks", "{}"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "tasks", `{"2024-01-01":[]}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := kv.Get(ctx, "tasks")
	if err != nil || !ok || got != `{"2024-01-01":[]}` {
		t.Fatalf("get = %q, %v, %v", got, ok, err)
	}
	if err := kv.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "tasks"); ok {
		t.Error("key survived delete")
	}
}

func TestScopedKVIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	repo := newTestKV(t)
	if err := repo.Scope("a").Set(ctx, "user_name", "Ana"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := repo.Scope("b").Get(ctx, "user_name"); ok {
		t.Error("owner b sees owner a's value")
	}
}

func TestTaskStoreRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskStoreRepository(newTestKV(t).Scope("local"))

	store, err := repo.Load(ctx)
	if err != nil || len(store) != 0 {
		t.Fatalf("empty load = %v, %v", store, err)
	}

	task := model.Task{Type: model.TypeBirthday, Title: "Ana", Time: "09:00"}
	task.SetField("age", "31")
	store["2024-05-10"] = []model.Task{task}
	if err := repo.Save(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded["2024-05-10"]; len(got) != 1 || got[0].Field("age") != "31" || got[0].Title != "Ana" {
		t.Errorf("loaded = %+v", got)
	}
}

func TestJournalRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewJournalRepository(newTestKV(t).Scope("local"))

	notes, err := repo.LoadNotes(ctx)
	if err != nil || notes != nil {
		t.Fatalf("empty notes = %v, %v", notes, err)
	}
	want := []model.JournalNote{{ID: "1", Title: "Hi", Content: "there", Color: model.NoteColors[0], Date: "today"}}
	if err := repo.SaveNotes(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := repo.LoadNotes(ctx)
	if err != nil || len(got) != 1 || got[0] != want[0] {
		t.Errorf("notes = %+v, %v", got, err)
	}

	if err := repo.SaveTitle(ctx, "Diary"); err != nil {
		t.Fatal(err)
	}
	if title, ok, _ := repo.LoadTitle(ctx); !ok || title != "Diary" {
		t.Errorf("title = %q, %v", title, ok)
	}
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestKV(t).Scope("local"))

	if err := repo.SaveSignIn(ctx, "Ana Diaz", "ana@example.com"); err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.SaveRegistrationDate(ctx, at); err != nil {
		t.Fatal(err)
	}

	acc, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !acc.LoggedIn || acc.Name != "Ana Diaz" || acc.Email != "ana@example.com" || !acc.RegisteredAt.Equal(at) {
		t.Errorf("account = %+v", acc)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	acc, _ = repo.Load(ctx)
	if acc.LoggedIn || acc.Name != "" || acc.RegisteredAt.IsZero() {
		t.Errorf("after clear = %+v", acc)
	}
}

func TestUserRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatal(err)
	}
	repo := NewUserRepository(db)

	first, err := repo.UpsertFromTelegram(ctx, TelegramProfile{TelegramID: 7, ChatID: 70, FirstName: "Ana"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.UpsertFromTelegram(ctx, TelegramProfile{TelegramID: 7, ChatID: 71, FirstName: "Anna"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("upsert created a second user")
	}
	users, err := repo.ListAll(ctx)
	if err != nil || len(users) != 1 || users[0].FirstName != "Anna" || users[0].ChatID != 71 {
		t.Errorf("users = %+v, %v", users, err)
	}
	if _, err := repo.FindByTelegramID(ctx, 8); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByTelegramID(8) err = %v, want record not found", err)
	}
	found, err := repo.FindByTelegramID(ctx, 7)
	if err != nil || found.ChatID != 71 {
		t.Errorf("FindByTelegramID(7) = %+v, %v", found, err)
	}
}

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data/app.db", "data/app.db?" + sqlitePragmas},
		{"file:app.db?cache=shared", "file:app.db?cache=shared&" + sqlitePragmas},
		{"app.db?_busy_timeout=100", "app.db?_busy_timeout=100"},
	}
	for _, tt := range tests {
		if got := withPragmas(tt.in); got != tt.want {
			t.Errorf("withPragmas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !isMemoryDSN("file::memory:?cache=shared") || isMemoryDSN("app.db") {
		t.Error("isMemoryDSN misclassified")
	}
}

func TestNewDBInMemory(t *testing.T) {
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	kv := NewKVRepository(db).Scope("local")
	ctx := context.Background()
	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := kv.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Errorf("Get = %q %v %v", v, ok, err)
	}
}
