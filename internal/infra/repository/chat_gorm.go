package repository

import (
	"context"

	"foodcourt/internal/domain/model"

	"gorm.io/gorm"
)

type ChatMessageGormRepository struct {
	db *gorm.DB
}

func NewChatMessageGormRepository(db *gorm.DB) *ChatMessageGormRepository {
	return &ChatMessageGormRepository{db: db}
}

func (r *ChatMessageGormRepository) Create(ctx context.Context, m model.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	return nil
}
