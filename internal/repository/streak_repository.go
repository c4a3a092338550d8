package repository

import (
	"study_backend/internal/model"

	"gorm.io/gorm"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) FindByUser(userID uint) (*model.UserStreak, error) {
	var streak model.UserStreak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *StreakRepository) Create(streak *model.UserStreak) error {
	return r.DB.Create(streak).Error
}

func (r *StreakRepository) Save(streak *model.UserStreak) error {
	return r.DB.Save(streak).Error
}
