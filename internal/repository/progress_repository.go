package repository

import (
	"study_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndLesson(userID, lessonID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) Create(progress *model.UserProgress) error {
	return r.DB.Create(progress).Error
}

// TotalScore sums every lesson score the user has earned. Negative
// lesson scores count against the total.
func (r *ProgressRepository) TotalScore(userID uint) (int, error) {
	var total int
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&total).Error
	return total, err
}

// CountCompleted counts completed lessons among the given ids.
func (r *ProgressRepository) CountCompleted(userID uint, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND is_completed = ?", userID, lessonIDs, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// LeaderboardEntry is one ranked row of the XP standings.
type LeaderboardEntry struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	XP     int    `json:"xp"`
}

// TopByXP ranks users by summed score, highest first, excluding users
// with nothing earned.
func (r *ProgressRepository) TopByXP(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.DB.Model(&model.UserProgress{}).
		Select("user_progress.user_id AS user_id, users.name AS name, SUM(user_progress.score) AS xp").
		Joins("JOIN users ON users.id = user_progress.user_id").
		Group("user_progress.user_id, users.name").
		Having("SUM(user_progress.score) > 0").
		Order("xp DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
