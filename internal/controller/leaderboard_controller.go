package controller

import (
	"study_backend/internal/service"
	"study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const gamificationPreviewSize = 5

type LeaderboardController struct {
	Leaderboard *service.LeaderboardService
	Progress    *service.ProgressService
	Streaks     *service.StreakService
}

func NewLeaderboardController(leaderboard *service.LeaderboardService, progress *service.ProgressService, streaks *service.StreakService) *LeaderboardController {
	return &LeaderboardController{
		Leaderboard: leaderboard,
		Progress:    progress,
		Streaks:     streaks,
	}
}

// GetLeaderboard godoc
// @Summary Leaderboard
// @Description Returns the top 100 users by XP with league standings for the current user
// @Tags gamification
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Leaderboard} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	board, err := c.Leaderboard.Top(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, board)
}

// GetGamification godoc
// @Summary Gamification summary
// @Description Returns the user's XP, league, streak and a short leaderboard preview
// @Tags gamification
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/gamification [get]
func (c *LeaderboardController) GetGamification(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	xp, err := c.Progress.TotalXP(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	preview, err := c.Leaderboard.TopN(ctx.Request.Context(), gamificationPreviewSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	streak, err := c.Streaks.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"xp":             xp,
		"league":         service.LeagueFor(xp),
		"badgeColor":     service.BadgeColorFor(xp),
		"xpToNextLeague": service.XPToNextLeague(xp),
		"currentStreak":  streak.CurrentStreak,
		"maxStreak":      streak.MaxStreak,
		"topUsers":       preview,
	})
}
