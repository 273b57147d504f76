package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habit-planner/internal/model"
)

// UserRepository keeps the Telegram accounts the bot has seen. The daily
// agenda is sent to every one of them.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// TelegramProfile is the subset of Telegram user data we keep.
type TelegramProfile struct {
	TelegramID int64
	ChatID     int64
	FirstName  string
	LastName   string
	Username   string
}

// UpsertFromTelegram records the latest chat and names for a Telegram id.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, p TelegramProfile) (*model.User, error) {
	row := model.User{
		TelegramID: p.TelegramID,
		ChatID:     p.ChatID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Username:   p.Username,
	}
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"chat_id", "first_name", "last_name", "username", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user %d: %w", p.TelegramID, err)
	}

	var user model.User
	if err := db.Where("telegram_id = ?", p.TelegramID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("reload user %d: %w", p.TelegramID, err)
	}
	return &user, nil
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user %d: %w", telegramID, err)
	}
	return &user, nil
}

// ListAll returns users in registration order.
func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
