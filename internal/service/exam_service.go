package service

import (
	"context"
	"fmt"
	"strings"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
)

type ExamInput struct {
	SubjectID       string             `json:"subjectId"`
	Title           string             `json:"title"`
	Mode            quiz.Mode          `json:"mode"`
	QuestionIDs     []string           `json:"questionIds"`
	Matrix          []quiz.MatrixEntry `json:"matrix"`
	DurationMinutes int                `json:"durationMinutes"`
	IsPublished     bool               `json:"isPublished"`
}

type ExamService struct {
	ExamRepo     ExamStore
	QuestionRepo QuestionStore
	SubjectRepo  SubjectStore
}

func NewExamService(examRepo ExamStore, questionRepo QuestionStore, subjectRepo SubjectStore) *ExamService {
	return &ExamService{
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		SubjectRepo:  subjectRepo,
	}
}

func (s *ExamService) Create(ctx context.Context, in ExamInput) (*model.Exam, error) {
	exam := &model.Exam{}
	if err := s.apply(ctx, exam, in); err != nil {
		return nil, err
	}
	if err := s.ExamRepo.Create(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Get(ctx context.Context, id string) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "exam %s", id)
	}
	return exam, nil
}

func (s *ExamService) List(ctx context.Context, subjectID string, publishedOnly bool) ([]model.Exam, error) {
	return s.ExamRepo.List(ctx, subjectID, publishedOnly)
}

func (s *ExamService) Update(ctx context.Context, id string, in ExamInput) (*model.Exam, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, exam, in); err != nil {
		return nil, err
	}
	if err := s.ExamRepo.Update(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Delete(ctx context.Context, id string) error {
	return notFound(s.ExamRepo.Delete(ctx, id), "exam %s", id)
}

func (s *ExamService) apply(ctx context.Context, exam *model.Exam, in ExamInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: exam title is required", quiz.ErrValidation)
	}
	if in.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration cannot be negative", quiz.ErrValidation)
	}
	if _, err := s.SubjectRepo.FindByID(ctx, in.SubjectID); err != nil {
		return notFound(err, "subject %s", in.SubjectID)
	}

	switch in.Mode {
	case quiz.ModeFixed:
		if err := s.checkFixedRefs(ctx, in.SubjectID, in.QuestionIDs); err != nil {
			return err
		}
		exam.QuestionIDs = append([]string(nil), in.QuestionIDs...)
		exam.Matrix = nil
	case quiz.ModeRandom:
		if err := quiz.ValidateMatrix(in.Matrix); err != nil {
			return err
		}
		exam.Matrix = append([]quiz.MatrixEntry(nil), in.Matrix...)
		exam.QuestionIDs = nil
	default:
		return fmt.Errorf("%w: unknown mode %q", quiz.ErrValidation, in.Mode)
	}

	exam.SubjectID = in.SubjectID
	exam.Title = in.Title
	exam.Mode = in.Mode
	exam.DurationMinutes = in.DurationMinutes
	exam.IsPublished = in.IsPublished
	return nil
}

// checkFixedRefs requires a non-empty list of distinct questions of the subject.
func (s *ExamService) checkFixedRefs(ctx context.Context, subjectID string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: fixed exam needs at least one question", quiz.ErrValidation)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: question %s listed twice", quiz.ErrValidation, id)
		}
		seen[id] = true
	}

	found, err := s.QuestionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	bySubject := make(map[string]string, len(found))
	for _, q := range found {
		bySubject[q.ID] = q.SubjectID
	}
	for _, id := range ids {
		sid, ok := bySubject[id]
		if !ok {
			return fmt.Errorf("%w: question %s", quiz.ErrNotFound, id)
		}
		if sid != subjectID {
			return fmt.Errorf("%w: question %s belongs to another subject", quiz.ErrValidation, id)
		}
	}
	return nil
}
