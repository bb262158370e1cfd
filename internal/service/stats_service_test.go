package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/repository"
	"study_quiz_backend/internal/repository/testutil"
)

type memoryLeaderboard struct {
	xp  map[string]int
	err error
}

func (l *memoryLeaderboard) UpdateXP(ctx context.Context, userID string, xp int) error {
	if l.err != nil {
		return l.err
	}
	l.xp[userID] = xp
	return nil
}

func (l *memoryLeaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := make([]LeaderboardEntry, 0, len(l.xp))
	for u, xp := range l.xp {
		out = append(out, LeaderboardEntry{UserID: u, XP: xp})
	}
	return out, nil
}

func TestStatsService_ApplyAttemptLevelsUp(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc := NewStatsService(repository.NewStatsRepository(db), repository.NewAttemptRepository(db), nil)

	first := &model.AttemptRecord{UserID: "u1", Score: 80, CorrectAnswers: 8, TotalQuestions: 10}
	up, err := svc.ApplyAttempt(ctx, first)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if up.XPGained != 840 || up.Stats.XP != 840 || up.Stats.Level != 8 || up.Stats.NextLevelXP != 900 {
		t.Fatalf("unexpected update %+v %+v", up, up.Stats)
	}
	if !up.LeveledUp || up.NewLevel != 8 {
		t.Fatalf("expected level up to 8")
	}

	zero := &model.AttemptRecord{UserID: "u1", Score: 0, CorrectAnswers: 0, TotalQuestions: 10}
	up, err = svc.ApplyAttempt(ctx, zero)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if up.LeveledUp || up.Stats.XP != 840 {
		t.Fatalf("zero score must not level up or reduce xp: %+v", up.Stats)
	}
	if up.Stats.TotalQuizzes != 2 || up.Stats.AverageScore != 40 {
		t.Fatalf("unexpected aggregate %+v", up.Stats)
	}
}

func TestStatsService_ReplayMatchesIncremental(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	statsRepo := repository.NewStatsRepository(db)
	svc := NewStatsService(statsRepo, repository.NewAttemptRepository(db), nil)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	results := [][2]int{{10, 8}, {15, 7}, {20, 20}, {10, 3}}
	for i, r := range results {
		a := testutil.SeedAttempt(t, ctx, db, "c1", "u1", "c1-beginner-0", model.Beginner, r[0], r[1], base.Add(time.Duration(i)*time.Minute))
		if _, err := svc.ApplyAttempt(ctx, a); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	incremental, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// 破坏统计后回放
	if err := statsRepo.Save(ctx, &model.UserStats{UserID: "u1", XP: 1}); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	replayed, err := svc.Replay(ctx, "u1")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed.XP != incremental.XP || replayed.Level != incremental.Level ||
		replayed.TotalQuizzes != incremental.TotalQuizzes || replayed.AverageScore != incremental.AverageScore {
		t.Fatalf("replay %+v differs from incremental %+v", replayed.UserStats, incremental.UserStats)
	}

	n, err := svc.ReplayAll(ctx)
	if err != nil || n != 1 {
		t.Fatalf("replay all: %d %v", n, err)
	}
}

func TestStatsService_LeaderboardFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	statsRepo := repository.NewStatsRepository(db)
	_ = statsRepo.Save(ctx, &model.UserStats{UserID: "a", XP: 300, Level: 3})
	_ = statsRepo.Save(ctx, &model.UserStats{UserID: "b", XP: 900, Level: 9})

	lb := &memoryLeaderboard{xp: map[string]int{}, err: errors.New("redis down")}
	svc := NewStatsService(statsRepo, repository.NewAttemptRepository(db), lb)

	entries, err := svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "b" || entries[0].Rank != 1 {
		t.Fatalf("unexpected entries %+v", entries)
	}

	lb.err = nil
	if _, err := svc.ApplyAttempt(ctx, &model.AttemptRecord{UserID: "a", Score: 100, CorrectAnswers: 10, TotalQuestions: 10}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if lb.xp["a"] != 300+1050 {
		t.Fatalf("leaderboard not updated, got %d", lb.xp["a"])
	}
}

func TestStatsService_LeaderboardBackfillsMissingUsers(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	statsRepo := repository.NewStatsRepository(db)
	_ = statsRepo.Save(ctx, &model.UserStats{UserID: "a", XP: 300, Level: 3})
	_ = statsRepo.Save(ctx, &model.UserStats{UserID: "b", XP: 900, Level: 9})

	// redis 只有开启之后提交过的用户
	lb := &memoryLeaderboard{xp: map[string]int{"a": 300}}
	svc := NewStatsService(statsRepo, repository.NewAttemptRepository(db), lb)

	entries, err := svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "b" {
		t.Fatalf("users missing from redis should come from the database, got %+v", entries)
	}
	if lb.xp["b"] != 900 {
		t.Fatalf("missing user should be written back to redis, got %v", lb.xp)
	}

	// 条数足够时直接使用 redis
	entries, _ = svc.Leaderboard(ctx, 2)
	if len(entries) != 2 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestStatsService_WarmLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	statsRepo := repository.NewStatsRepository(db)
	_ = statsRepo.Save(ctx, &model.UserStats{UserID: "a", XP: 300, Level: 3})
	_ = statsRepo.Save(ctx, &model.UserStats{UserID: "b", XP: 900, Level: 9})

	lb := &memoryLeaderboard{xp: map[string]int{}}
	svc := NewStatsService(statsRepo, repository.NewAttemptRepository(db), lb)
	n, err := svc.WarmLeaderboard(ctx, 100)
	if err != nil || n != 2 {
		t.Fatalf("warm: %d %v", n, err)
	}
	if lb.xp["a"] != 300 || lb.xp["b"] != 900 {
		t.Fatalf("unexpected leaderboard %v", lb.xp)
	}

	if n, err := NewStatsService(statsRepo, repository.NewAttemptRepository(db), nil).WarmLeaderboard(ctx, 100); err != nil || n != 0 {
		t.Fatalf("without redis warm should be a no-op: %d %v", n, err)
	}
}
