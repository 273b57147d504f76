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
	"habit-planner/internal/repository"
)

const (
	UntitledNote = "Untitled"

	noteDateLayout = "Mon, Jan 2, 2006 15:04"
)

// JournalService keeps the notes newest first together with the journal
// cover colour and title.
type JournalService struct {
	repo *repository.JournalRepository
	now  func() time.Time

	mu    sync.Mutex
	notes []model.JournalNote
	cover string
	title string
}

func NewJournalService(repo *repository.JournalRepository, now func() time.Time) *JournalService {
	if now == nil {
		now = time.Now
	}
	return &JournalService{
		repo:  repo,
		now:   now,
		cover: model.CoverColors[0],
		title: model.DefaultJournalTitle,
	}
}

func (s *JournalService) Load(ctx context.Context) error {
	notes, err := s.repo.LoadNotes(ctx)
	if err != nil {
		return err
	}
	cover, hasCover, err := s.repo.LoadCover(ctx)
	if err != nil {
		return err
	}
	title, hasTitle, err := s.repo.LoadTitle(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	if hasCover && cover != "" {
		s.cover = cover
	}
	if hasTitle && title != "" {
		s.title = title
	}
	return nil
}

func (s *JournalService) Notes() []model.JournalNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.JournalNote(nil), s.notes...)
}

func (s *JournalService) Note(id string) (model.JournalNote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.JournalNote{}, false
}

// Save creates a note when note.ID is empty and edits the matching note
// otherwise. A note with neither title nor content is ignored and the
// returned flag is false.
func (s *JournalService) Save(ctx context.Context, note model.JournalNote) (model.JournalNote, bool, error) {
	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Content) == "" {
		return model.JournalNote{}, false, nil
	}
	if note.Color == "" {
		note.Color = model.NoteColors[0]
	}
	note.Date = s.now().Format(noteDateLayout)

	s.mu.Lock()
	if note.ID == "" {
		note.ID = uuid.NewString()
		if strings.TrimSpace(note.Title) == "" {
			note.Title = UntitledNote
		}
		s.notes = append([]model.JournalNote{note}, s.notes...)
	} else {
		pos := s.indexOf(note.ID)
		if pos < 0 {
			s.mu.Unlock()
			return model.JournalNote{}, false, fmt.Errorf("note %s: %w", note.ID, ErrNoteNotFound)
		}
		s.notes[pos] = note
	}
	snapshot := append([]model.JournalNote(nil), s.notes...)
	s.mu.Unlock()

	s.persistNotes(ctx, snapshot)
	return note, true, nil
}

func (s *JournalService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	pos := s.indexOf(id)
	if pos < 0 {
		s.mu.Unlock()
		return fmt.Errorf("note %s: %w", id, ErrNoteNotFound)
	}
	s.notes = append(s.notes[:pos:pos], s.notes[pos+1:]...)
	snapshot := append([]model.JournalNote(nil), s.notes...)
	s.mu.Unlock()

	s.persistNotes(ctx, snapshot)
	return nil
}

func (s *JournalService) Cover() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cover
}

// SetCover accepts only colours from the cover palette.
func (s *JournalService) SetCover(ctx context.Context, color string) error {
	color = strings.ToUpper(strings.TrimSpace(color))
	known := false
	for _, c := range model.CoverColors {
		if c == color {
			known = true
			break
		}
	}
	if !known {
		return invalid(fmt.Sprintf("unknown cover colour %q", color))
	}

	s.mu.Lock()
	s.cover = color
	s.mu.Unlock()

	if err := s.repo.SaveCover(ctx, color); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyJournalCover, err)
	}
	return nil
}

func (s *JournalService) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *JournalService) SetTitle(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("journal title is required")
	}

	s.mu.Lock()
	s.title = title
	s.mu.Unlock()

	if err := s.repo.SaveTitle(ctx, title); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyJournalTitle, err)
	}
	return nil
}

func (s *JournalService) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *JournalService) persistNotes(ctx context.Context, notes []model.JournalNote) {
	if err := s.repo.SaveNotes(ctx, notes); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyJournalNotes, err)
	}
}
