package service

import (
	"context"
	"encoding/json"
	"study_backend/internal/repository"
	"study_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardLimit    = 100
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = time.Minute
)

// League thresholds. Beginner < 100 <= Bronze < 500 <= Silver < 1000 <= Gold.
const (
	bronzeXP = 100
	silverXP = 500
	goldXP   = 1000
)

type LeaderboardRow struct {
	Rank          int    `json:"rank"`
	UserID        uint   `json:"userId"`
	Name          string `json:"name"`
	XP            int    `json:"xp"`
	League        string `json:"league"`
	BadgeColor    string `json:"badgeColor"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}

type Leaderboard struct {
	Rows           []LeaderboardRow `json:"rows"`
	CurrentUserXP  int              `json:"currentUserXp"`
	CurrentLeague  string           `json:"currentLeague"`
	XPToNextLeague int              `json:"xpToNextLeague"`
}

type LeaderboardService struct {
	ProgressRepo *repository.ProgressRepository
	Redis        *redis.Client
}

func NewLeaderboardService(progressRepo *repository.ProgressRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		ProgressRepo: progressRepo,
		Redis:        rdb,
	}
}

func LeagueFor(xp int) string {
	switch {
	case xp >= goldXP:
		return "Gold"
	case xp >= silverXP:
		return "Silver"
	case xp >= bronzeXP:
		return "Bronze"
	default:
		return "Beginner"
	}
}

func BadgeColorFor(xp int) string {
	switch {
	case xp >= goldXP:
		return "yellow"
	case xp >= silverXP:
		return "gray"
	case xp >= bronzeXP:
		return "orange"
	default:
		return "blue"
	}
}

func XPToNextLeague(xp int) int {
	switch {
	case xp < bronzeXP:
		return bronzeXP - xp
	case xp < silverXP:
		return silverXP - xp
	case xp < goldXP:
		return goldXP - xp
	default:
		return 0
	}
}

// Top returns the ranked standings for the current user. Rows are
// cached briefly in redis since the query aggregates every user.
func (s *LeaderboardService) Top(ctx context.Context, currentUserID uint) (*Leaderboard, error) {
	entries, err := s.cachedEntries(ctx)
	if err != nil {
		return nil, err
	}

	board := &Leaderboard{Rows: make([]LeaderboardRow, 0, len(entries))}
	for i, e := range entries {
		board.Rows = append(board.Rows, LeaderboardRow{
			Rank:          i + 1,
			UserID:        e.UserID,
			Name:          e.Name,
			XP:            e.XP,
			League:        LeagueFor(e.XP),
			BadgeColor:    BadgeColorFor(e.XP),
			IsCurrentUser: e.UserID == currentUserID,
		})
	}

	currentXP, err := s.ProgressRepo.TotalScore(currentUserID)
	if err != nil {
		return nil, err
	}
	board.CurrentUserXP = currentXP
	board.CurrentLeague = LeagueFor(currentXP)
	board.XPToNextLeague = XPToNextLeague(currentXP)

	return board, nil
}

// TopN returns the first n rows for dashboard previews.
func (s *LeaderboardService) TopN(ctx context.Context, n int) ([]repository.LeaderboardEntry, error) {
	entries, err := s.cachedEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *LeaderboardService) cachedEntries(ctx context.Context) ([]repository.LeaderboardEntry, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []repository.LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.ProgressRepo.TopByXP(leaderboardLimit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("Leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}
