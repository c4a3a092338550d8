package model

import "time"

// UserProgress records quiz outcomes per lesson. Completion is sticky:
// once a lesson is marked completed it stays completed, while the score
// keeps moving with every submission and may go negative.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	Score       int        `gorm:"default:0" json:"score"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
