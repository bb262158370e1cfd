package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/pkg/database"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// DB 每次调用返回独立的 sqlite 内存库
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func SeedCourse(tb testing.TB, ctx context.Context, db *gorm.DB, id string, structure string) *model.Course {
	tb.Helper()
	c := &model.Course{
		ID:        id,
		Title:     "course " + id,
		Structure: datatypes.JSON([]byte(structure)),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedAttempt(tb testing.TB, ctx context.Context, db *gorm.DB, courseID, userID, quizID string, difficulty model.Difficulty, total, correct int, at time.Time) *model.AttemptRecord {
	tb.Helper()
	score := 0
	if total > 0 {
		score = (correct*200 + total) / (2 * total)
	}
	a := &model.AttemptRecord{
		CourseID:       courseID,
		UserID:         userID,
		AttemptKey:     fmt.Sprintf("attempt_%d", at.UnixMilli()),
		QuizID:         quizID,
		Difficulty:     difficulty,
		TotalQuestions: total,
		CorrectAnswers: correct,
		WrongAnswers:   total - correct,
		Score:          score,
		Answers:        map[int]int{},
		Timestamp:      at,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}
