package service

import (
	"context"
	"fmt"
	"math"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/pkg/logger"

	"go.uber.org/zap"
)

type StatsStore interface {
	Get(ctx context.Context, userID string) (*model.UserStats, error)
	Save(ctx context.Context, stats *model.UserStats) error
	FindTopByXP(ctx context.Context, limit int) ([]model.UserStats, error)
}

type AttemptHistory interface {
	ListByUser(ctx context.Context, userID string) ([]model.AttemptRecord, error)
	DistinctUsers(ctx context.Context) ([]string, error)
}

type StatsService struct {
	stats       StatsStore
	attempts    AttemptHistory
	leaderboard Leaderboard
}

// leaderboard 可以为 nil，此时排行榜直接查数据库
func NewStatsService(stats StatsStore, attempts AttemptHistory, leaderboard Leaderboard) *StatsService {
	return &StatsService{stats: stats, attempts: attempts, leaderboard: leaderboard}
}

type StatsView struct {
	model.UserStats
	NextLevelXP int `json:"nextLevelXP"`
}

func newStatsView(s *model.UserStats) *StatsView {
	return &StatsView{UserStats: *s, NextLevelXP: NextLevelXP(s.Level)}
}

// StatsUpdate 一次作答结算后的统计变化
type StatsUpdate struct {
	Stats     *StatsView `json:"stats"`
	XPGained  int        `json:"xpGained"`
	LeveledUp bool       `json:"leveledUp"`
	NewLevel  int        `json:"newLevel,omitempty"`
}

func (s *StatsService) Get(ctx context.Context, userID string) (*StatsView, error) {
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newStatsView(stats), nil
}

// applyAttempt 累加一次作答；average 按已有次数滚动计算
func applyAttempt(stats *model.UserStats, attempt *model.AttemptRecord) int {
	gained := XPGained(attempt.Score, attempt.CorrectAnswers)
	total := float64(stats.AverageScore)*float64(stats.TotalQuizzes) + float64(attempt.Score)
	stats.TotalQuizzes++
	stats.AverageScore = math.Round(total/float64(stats.TotalQuizzes)*100) / 100
	stats.XP += gained
	stats.Level, _ = LevelForXP(stats.XP)
	return gained
}

func (s *StatsService) ApplyAttempt(ctx context.Context, attempt *model.AttemptRecord) (*StatsUpdate, error) {
	stats, err := s.stats.Get(ctx, attempt.UserID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	before := stats.Level
	gained := applyAttempt(stats, attempt)
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save stats: %w", err)
	}
	s.syncLeaderboard(ctx, stats)

	update := &StatsUpdate{
		Stats:    newStatsView(stats),
		XPGained: gained,
	}
	if stats.Level > before {
		update.LeveledUp = true
		update.NewLevel = stats.Level
		logger.Log.Info("user leveled up",
			zap.String("userID", stats.UserID),
			zap.Int("level", stats.Level),
			zap.Int("xp", stats.XP),
		)
	}
	return update, nil
}

// Replay 从作答历史重新计算统计，结果与逐次累加一致
func (s *StatsService) Replay(ctx context.Context, userID string) (*StatsView, error) {
	attempts, err := s.attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	stats := &model.UserStats{UserID: userID}
	for i := range attempts {
		applyAttempt(stats, &attempts[i])
	}

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save stats: %w", err)
	}
	s.syncLeaderboard(ctx, stats)
	return newStatsView(stats), nil
}

func (s *StatsService) ReplayAll(ctx context.Context) (int, error) {
	users, err := s.attempts.DistinctUsers(ctx)
	if err != nil {
		return 0, err
	}
	for i, u := range users {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.Replay(ctx, u); err != nil {
			return i, fmt.Errorf("replay %s: %w", u, err)
		}
	}
	return len(users), nil
}

// Leaderboard 优先读 redis。redis 条数不足时和数据库比对，
// 数据库更多说明 ZSet 缺数据（新开启或被清空），此时以数据库为准并回填
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var cached []LeaderboardEntry
	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, limit)
		if err != nil {
			logger.Log.Warn("leaderboard cache unavailable, reading database", zap.Error(err))
		} else if len(entries) >= limit {
			return entries, nil
		}
		cached = entries
	}

	top, err := s.stats.FindTopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 && len(cached) >= len(top) {
		return cached, nil
	}

	entries := make([]LeaderboardEntry, len(top))
	for i := range top {
		st := &top[i]
		entries[i] = LeaderboardEntry{Rank: i + 1, UserID: st.UserID, XP: st.XP, Level: st.Level}
		if cached != nil {
			s.syncLeaderboard(ctx, st)
		}
	}
	return entries, nil
}

// WarmLeaderboard 启动时把数据库中前 n 名写入 redis
func (s *StatsService) WarmLeaderboard(ctx context.Context, n int) (int, error) {
	if s.leaderboard == nil {
		return 0, nil
	}
	top, err := s.stats.FindTopByXP(ctx, n)
	if err != nil {
		return 0, err
	}
	for i := range top {
		if err := s.leaderboard.UpdateXP(ctx, top[i].UserID, top[i].XP); err != nil {
			return i, err
		}
	}
	return len(top), nil
}

func (s *StatsService) syncLeaderboard(ctx context.Context, stats *model.UserStats) {
	if s.leaderboard == nil {
		return
	}
	if err := s.leaderboard.UpdateXP(ctx, stats.UserID, stats.XP); err != nil {
		logger.Log.Warn("update leaderboard failed", zap.String("userID", stats.UserID), zap.Error(err))
	}
}
