package service

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const leaderboardXPKey = "leaderboard:xp"

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
}

type Leaderboard interface {
	UpdateXP(ctx context.Context, userID string, xp int) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// RedisLeaderboard 使用 ZSet 保存每个用户的累计 XP
type RedisLeaderboard struct {
	client *redis.Client
}

func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

func (l *RedisLeaderboard) UpdateXP(ctx context.Context, userID string, xp int) error {
	return l.client.ZAdd(ctx, leaderboardXPKey, &redis.Z{
		Score:  float64(xp),
		Member: userID,
	}).Err()
}

func (l *RedisLeaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := l.client.ZRevRangeWithScores(ctx, leaderboardXPKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		xp := int(z.Score)
		level, _ := LevelForXP(xp)
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: member,
			XP:     xp,
			Level:  level,
		})
	}
	return entries, nil
}
