package service

import (
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStreaks(db *gorm.DB) *StreakService {
	return NewStreakService(repository.NewStreakRepository(db))
}

func setLastActivity(t *testing.T, db *gorm.DB, userID uint, daysAgo int) {
	t.Helper()
	when := midnight(time.Now()).AddDate(0, 0, -daysAgo)
	require.NoError(t, db.Model(&model.UserStreak{}).
		Where("user_id = ?", userID).
		Update("last_activity", when).Error)
}

func TestTouch_FirstActivity(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newStreaks(db)

	streak, err := svc.Touch(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.MaxStreak)
}

func TestTouch_SameDayIsNoop(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newStreaks(db)

	_, err := svc.Touch(user.ID)
	require.NoError(t, err)

	streak, err := svc.Touch(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.MaxStreak)
}

func TestTouch_ConsecutiveDayExtends(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newStreaks(db)

	_, err := svc.Touch(user.ID)
	require.NoError(t, err)
	setLastActivity(t, db, user.ID, 1)

	streak, err := svc.Touch(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.MaxStreak)
}

func TestTouch_GapResets(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newStreaks(db)

	_, err := svc.Touch(user.ID)
	require.NoError(t, err)
	setLastActivity(t, db, user.ID, 1)
	_, err = svc.Touch(user.ID)
	require.NoError(t, err)

	// two days of silence
	setLastActivity(t, db, user.ID, 3)

	streak, err := svc.Touch(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	// the best run is kept
	assert.Equal(t, 2, streak.MaxStreak)
}

func TestGet_NoStreakYet(t *testing.T) {
	db := newTestDB(t)
	svc := newStreaks(db)

	streak, err := svc.Get(7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), streak.UserID)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.MaxStreak)
}
