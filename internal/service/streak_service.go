package service

import (
	"errors"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

type StreakService struct {
	StreakRepo *repository.StreakRepository
}

func NewStreakService(streakRepo *repository.StreakRepository) *StreakService {
	return &StreakService{StreakRepo: streakRepo}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Touch advances the user's streak for today. Same-day repeats are
// no-ops, a visit the day after the last one extends the streak, any
// longer gap resets it to one. MaxStreak only ever grows.
func (s *StreakService) Touch(userID uint) (*model.UserStreak, error) {
	today := midnight(time.Now())

	streak, err := s.StreakRepo.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		streak = &model.UserStreak{
			UserID:        userID,
			CurrentStreak: 1,
			MaxStreak:     1,
			LastActivity:  today,
		}
		if err := s.StreakRepo.Create(streak); err != nil {
			return nil, err
		}
		return streak, nil
	}

	last := midnight(streak.LastActivity)

	if last.Equal(today) {
		return streak, nil
	}

	if last.Equal(today.AddDate(0, 0, -1)) {
		streak.CurrentStreak++
	} else {
		streak.CurrentStreak = 1
	}

	if streak.CurrentStreak > streak.MaxStreak {
		streak.MaxStreak = streak.CurrentStreak
	}
	streak.LastActivity = today

	if err := s.StreakRepo.Save(streak); err != nil {
		return nil, err
	}
	return streak, nil
}

// Get returns the streak without touching it. Users without one get a
// zero-value streak.
func (s *StreakService) Get(userID uint) (*model.UserStreak, error) {
	streak, err := s.StreakRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserStreak{UserID: userID}, nil
		}
		return nil, err
	}
	return streak, nil
}
