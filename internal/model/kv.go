package model

import "time"

// KVEntry is one string value of the local persistence collaborator.
type KVEntry struct {
	ID        uint   `gorm:"primaryKey"`
	Owner     string `gorm:"index:idx_kv_owner_key,unique;not null"`
	Key       string `gorm:"column:kv_key;index:idx_kv_owner_key,unique;not null"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Keys of the persisted documents.
const (
	KeyTasks            = "tasks"
	KeyJournalNotes     = "journal_notes"
	KeyJournalCover     = "journal_cover"
	KeyJournalTitle     = "journal_title"
	KeyUserName         = "user_name"
	KeyUserEmail        = "user_email"
	KeyIsLoggedIn       = "is_logged_in"
	KeyRegistrationDate = "registration_date"
)
