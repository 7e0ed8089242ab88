package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
	"exam_practice_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectInput struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type SubjectService struct {
	SubjectRepo SubjectStore
}

func NewSubjectService(subjectRepo SubjectStore) *SubjectService {
	return &SubjectService{SubjectRepo: subjectRepo}
}

func (s *SubjectService) Create(ctx context.Context, in SubjectInput) (*model.Subject, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: subject code and name are required", quiz.ErrValidation)
	}
	if err := s.ensureCodeFree(ctx, code, ""); err != nil {
		return nil, err
	}

	subject := &model.Subject{Code: code, Name: in.Name, Description: in.Description}
	if err := s.SubjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Get(ctx context.Context, id string) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "subject %s", id)
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.SubjectRepo.List(ctx)
}

func (s *SubjectService) Update(ctx context.Context, id string, in SubjectInput) (*model.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if code != "" && code != subject.Code {
		if err := s.ensureCodeFree(ctx, code, id); err != nil {
			return nil, err
		}
		subject.Code = code
	}
	if in.Name != "" {
		subject.Name = in.Name
	}
	subject.Description = in.Description

	if err := s.SubjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// Delete also removes the subject's questions and exams.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	return notFound(s.SubjectRepo.Delete(ctx, id), "subject %s", id)
}

func (s *SubjectService) ensureCodeFree(ctx context.Context, code, selfID string) error {
	existing, err := s.SubjectRepo.FindByCode(ctx, code)
	if err == nil && existing.ID != selfID {
		return util.ErrSubjectCodeTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
