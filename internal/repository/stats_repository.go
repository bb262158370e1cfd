package repository

import (
	"context"
	"errors"

	"study_quiz_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// Get 用户没有任何记录时返回零值统计
func (r *StatsRepository) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *StatsRepository) Save(ctx context.Context, stats *model.UserStats) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "xp", "total_quizzes", "average_score", "updated_at"}),
	}).Create(stats).Error
}

func (r *StatsRepository) FindTopByXP(ctx context.Context, limit int) ([]model.UserStats, error) {
	var stats []model.UserStats
	err := r.DB.WithContext(ctx).Order("xp DESC").Order("user_id ASC").Limit(limit).Find(&stats).Error
	return stats, err
}
