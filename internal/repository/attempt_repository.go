package repository

import (
	"context"
	"errors"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/util"

	"gorm.io/gorm"
)

// AttemptRepository 只追加：没有 Update / Delete
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.AttemptRecord) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

func (r *AttemptRepository) ListByCourseAndUser(ctx context.Context, courseID, userID string) ([]model.AttemptRecord, error) {
	var attempts []model.AttemptRecord
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Order("timestamp ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) PageByCourseAndUser(ctx context.Context, courseID, userID string, page, limit int) ([]model.AttemptRecord, int64, error) {
	var (
		attempts []model.AttemptRecord
		total    int64
	)
	q := r.DB.WithContext(ctx).Model(&model.AttemptRecord{}).
		Where("course_id = ? AND user_id = ?", courseID, userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("timestamp DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string) ([]model.AttemptRecord, error) {
	var attempts []model.AttemptRecord
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&attempts).Error
	return attempts, err
}

// DistinctUsers 用于全量回放统计
func (r *AttemptRepository) DistinctUsers(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.AttemptRecord{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *AttemptRepository) FindForUser(ctx context.Context, courseID, userID, attemptID string) (*model.AttemptRecord, error) {
	var a model.AttemptRecord
	err := r.DB.WithContext(ctx).
		Where("id = ? AND course_id = ? AND user_id = ?", attemptID, courseID, userID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
