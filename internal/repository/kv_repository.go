package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habit-planner/internal/model"
)

// KVRepository stores string values per owner and key.
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Scope returns a view limited to one owner's keys.
func (r *KVRepository) Scope(owner string) *ScopedKV {
	return &ScopedKV{db: r.db, owner: owner}
}

// ScopedKV is the key-value store of a single owner.
type ScopedKV struct {
	db    *gorm.DB
	owner string
}

func (s *ScopedKV) Owner() string { return s.owner }

// Get returns the value and whether the key exists.
func (s *ScopedKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).Where("owner = ? AND kv_key = ?", s.owner, key).First(&entry).Error
	switch {
	case err == nil:
		return entry.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
}

// Set replaces the whole value stored under key.
func (s *ScopedKV) Set(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Owner: s.owner, Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *ScopedKV) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("owner = ? AND kv_key = ?", s.owner, key).
		Delete(&model.KVEntry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
