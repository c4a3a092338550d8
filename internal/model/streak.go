package model

import "time"

// UserStreak tracks consecutive learning days. LastActivity holds a
// date truncated to midnight; comparisons are whole-day only.
// swagger:model UserStreak
type UserStreak struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak int       `gorm:"default:0" json:"currentStreak"`
	MaxStreak     int       `gorm:"default:0" json:"maxStreak"`
	LastActivity  time.Time `json:"lastActivity"`
}

func (UserStreak) TableName() string {
	return "user_streaks"
}
