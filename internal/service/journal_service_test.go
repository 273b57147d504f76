package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"habit-planner/internal/model"
	"habit-planner/internal/repository"
)

func newJournal(kv *memKV, now time.Time) *JournalService {
	return NewJournalService(repository.NewJournalRepository(kv), func() time.Time { return now })
}

func TestJournalSaveCreatesNewestFirst(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()
	svc := newJournal(kv, time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC))

	first, ok, err := svc.Save(ctx, model.JournalNote{Content: "first thoughts"})
	if err != nil || !ok {
		t.Fatalf("save = %v, %v", ok, err)
	}
	if first.Title != UntitledNote || first.Color != model.NoteColors[0] || first.ID == "" {
		t.Errorf("note = %+v", first)
	}
	if first.Date != "Mon, May 6, 2024 09:30" {
		t.Errorf("date = %q", first.Date)
	}

	second, _, _ := svc.Save(ctx, model.JournalNote{Title: "Second"})
	notes := svc.Notes()
	if len(notes) != 2 || notes[0].ID != second.ID {
		t.Fatalf("notes = %+v", notes)
	}

	reloaded := newJournal(kv, time.Now())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Notes(); len(got) != 2 || got[1].ID != first.ID {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestJournalEmptyNoteIsIgnored(t *testing.T) {
	kv := newMemKV()
	svc := newJournal(kv, time.Now())
	_, ok, err := svc.Save(context.Background(), model.JournalNote{Title: "  ", Content: "\n"})
	if err != nil || ok {
		t.Fatalf("save = %v, %v", ok, err)
	}
	if len(svc.Notes()) != 0 || len(kv.data) != 0 {
		t.Errorf("empty note changed state")
	}
}

func TestJournalEditAndDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	svc := newJournal(newMemKV(), now)
	note, _, _ := svc.Save(ctx, model.JournalNote{Title: "Plan"})

	svc.now = func() time.Time { return now.Add(24 * time.Hour) }
	edited, ok, err := svc.Save(ctx, model.JournalNote{ID: note.ID, Title: "Plan v2", Content: "more", Color: model.NoteColors[2]})
	if err != nil || !ok {
		t.Fatal(err)
	}
	if edited.Date == note.Date {
		t.Errorf("edit did not refresh date")
	}
	if got, _ := svc.Note(note.ID); got.Title != "Plan v2" || got.Color != model.NoteColors[2] {
		t.Errorf("note = %+v", got)
	}

	if _, _, err := svc.Save(ctx, model.JournalNote{ID: "missing", Title: "x"}); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("err = %v", err)
	}
	if err := svc.Delete(ctx, note.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestJournalCoverAndTitle(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()
	svc := newJournal(kv, time.Now())

	if svc.Cover() != model.CoverColors[0] || svc.Title() != model.DefaultJournalTitle {
		t.Fatalf("defaults = %q %q", svc.Cover(), svc.Title())
	}
	if err := svc.SetCover(ctx, "#123456"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
	if err := svc.SetCover(ctx, model.CoverColors[3]); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetTitle(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
	if err := svc.SetTitle(ctx, "Dreams"); err != nil {
		t.Fatal(err)
	}
	if kv.data[model.KeyJournalCover] != model.CoverColors[3] || kv.data[model.KeyJournalTitle] != "Dreams" {
		t.Errorf("persisted = %v", kv.data)
	}
}
