package repository

import (
	"context"

	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	var s model.Subject
	if err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (*model.Subject, error) {
	var s model.Subject
	if err := r.DB.WithContext(ctx).First(&s, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

// Delete removes the subject together with its questions and exams.
// Attempts are history and stay.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.Exam{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Subject{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).Order("name asc").Find(&subjects).Error
	return subjects, err
}
