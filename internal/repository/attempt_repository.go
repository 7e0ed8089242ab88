package repository

import (
	"context"

	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptFilter struct {
	UserID    string
	SubjectID string
	ExamID    string
	Page      int
	Limit     int
}

// AttemptRepository has no update path: attempts are append-only.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) List(ctx context.Context, f AttemptFilter) ([]model.Attempt, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Attempt{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.SubjectID != "" {
		query = query.Where("subject_id = ?", f.SubjectID)
	}
	if f.ExamID != "" {
		query = query.Where("exam_id = ?", f.ExamID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.Attempt
	offset := (f.Page - 1) * f.Limit
	err := query.Order("created_at desc").Offset(offset).Limit(f.Limit).Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.Attempt{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
