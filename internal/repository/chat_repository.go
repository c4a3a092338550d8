package repository

import (
	"study_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Create(message *model.ChatMessage) error {
	return r.DB.Create(message).Error
}

// FindByUser returns the full conversation in chronological order.
func (r *ChatRepository) FindByUser(userID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// FindRecentByUser returns the newest limit messages in chronological
// order, the window the assistant prompt is built from.
func (r *ChatRepository) FindRecentByUser(userID uint, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) DeleteByUser(userID uint) error {
	return r.DB.
		Where("user_id = ?", userID).
		Delete(&model.ChatMessage{}).Error
}
