package model

// JournalNote is a single sticky note in the journal.
type JournalNote struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color"`
	// Date is a display string refreshed on every edit.
	Date string `json:"date"`
}

// NoteColors are the sticky-note palette; the first one is the default.
var NoteColors = []string{"#FFEB3B", "#FF8A80", "#80D8FF", "#CCFF90", "#CFD8DC", "#FFD180"}

// CoverColors are the journal cover palette; the first one is the default.
var CoverColors = []string{"#5D4037", "#1A237E", "#B71C1C", "#1B5E20", "#263238", "#4A148C"}

const DefaultJournalTitle = "My Journal"
