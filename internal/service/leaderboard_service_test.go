package service

import (
	"context"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLeagues(t *testing.T) {
	tests := []struct {
		xp     int
		league string
		badge  string
		toNext int
	}{
		{0, "Beginner", "blue", 100},
		{99, "Beginner", "blue", 1},
		{100, "Bronze", "orange", 400},
		{499, "Bronze", "orange", 1},
		{500, "Silver", "gray", 500},
		{999, "Silver", "gray", 1},
		{1000, "Gold", "yellow", 0},
		{5000, "Gold", "yellow", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.league, LeagueFor(tt.xp), "league for %d", tt.xp)
		assert.Equal(t, tt.badge, BadgeColorFor(tt.xp), "badge for %d", tt.xp)
		assert.Equal(t, tt.toNext, XPToNextLeague(tt.xp), "xp to next for %d", tt.xp)
	}
}

// giveXP records a completed lesson with the given score so the user
// shows up in the standings.
func giveXP(t *testing.T, db *gorm.DB, userID, lessonID uint, score int) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserProgress{
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: true,
		Score:       score,
	}).Error)
}

func TestTop(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(repository.NewProgressRepository(db), nil)

	ana := seedUser(t, db, "ana", model.LangEnglish)
	ivan := seedUser(t, db, "ivan", model.LangRussian)
	bek := seedUser(t, db, "bek", model.LangKarakalpak)
	idle := seedUser(t, db, "idle", model.LangEnglish)

	seedCourse(t, db, ana.ID, model.LangEnglish, 3)

	giveXP(t, db, ana.ID, 1, 120)
	giveXP(t, db, ivan.ID, 2, 700)
	giveXP(t, db, bek.ID, 3, 30)
	_ = idle // no progress rows, must not appear

	board, err := svc.Top(context.Background(), ana.ID)
	require.NoError(t, err)

	require.Len(t, board.Rows, 3)
	assert.Equal(t, "ivan", board.Rows[0].Name)
	assert.Equal(t, 1, board.Rows[0].Rank)
	assert.Equal(t, "Silver", board.Rows[0].League)
	assert.Equal(t, "ana", board.Rows[1].Name)
	assert.True(t, board.Rows[1].IsCurrentUser)
	assert.Equal(t, "bek", board.Rows[2].Name)
	assert.Equal(t, "blue", board.Rows[2].BadgeColor)

	assert.Equal(t, 120, board.CurrentUserXP)
	assert.Equal(t, "Bronze", board.CurrentLeague)
	assert.Equal(t, 380, board.XPToNextLeague)
}

func TestTop_ExcludesNonPositiveXP(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(repository.NewProgressRepository(db), nil)

	ana := seedUser(t, db, "ana", model.LangEnglish)
	ivan := seedUser(t, db, "ivan", model.LangRussian)
	seedCourse(t, db, ana.ID, model.LangEnglish, 2)

	giveXP(t, db, ana.ID, 1, -10)
	giveXP(t, db, ivan.ID, 2, 10)

	board, err := svc.Top(context.Background(), ana.ID)
	require.NoError(t, err)

	require.Len(t, board.Rows, 1)
	assert.Equal(t, "ivan", board.Rows[0].Name)
	assert.Equal(t, -10, board.CurrentUserXP)
}

func TestTopN(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(repository.NewProgressRepository(db), nil)

	ana := seedUser(t, db, "ana", model.LangEnglish)
	ivan := seedUser(t, db, "ivan", model.LangRussian)
	seedCourse(t, db, ana.ID, model.LangEnglish, 2)

	giveXP(t, db, ana.ID, 1, 50)
	giveXP(t, db, ivan.ID, 2, 80)

	entries, err := svc.TopN(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ivan.ID, entries[0].UserID)
	assert.Equal(t, 80, entries[0].XP)
}
