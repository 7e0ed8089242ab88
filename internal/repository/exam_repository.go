package repository

import (
	"context"

	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*model.Exam, error) {
	var e model.Exam
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	return r.DB.WithContext(ctx).Save(e).Error
}

func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.Exam{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ExamRepository) List(ctx context.Context, subjectID string, publishedOnly bool) ([]model.Exam, error) {
	query := r.DB.WithContext(ctx).Model(&model.Exam{})
	if subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var exams []model.Exam
	err := query.Order("created_at desc").Find(&exams).Error
	return exams, err
}
