package repository

import (
	"context"
	"errors"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Upsert(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "structure", "updated_at"}),
	}).Create(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

type StudyProgressRepository struct {
	DB *gorm.DB
}

func NewStudyProgressRepository(db *gorm.DB) *StudyProgressRepository {
	return &StudyProgressRepository{DB: db}
}

// Depth 没有上报过时为 0
func (r *StudyProgressRepository) Depth(ctx context.Context, userID, courseID string) (int, error) {
	var p model.StudyProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.Depth, nil
}

func (r *StudyProgressRepository) Save(ctx context.Context, p *model.StudyProgress) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"depth", "updated_at"}),
	}).Create(p).Error
}
