package service

import (
	"context"
	"errors"
	"fmt"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/pkg/logger"
	"exam_practice_backend/pkg/monitoring"
	"exam_practice_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitRequest is the body of POST /api/attempts.
type SubmitRequest struct {
	UserID string `json:"userId"`
	quiz.Submission
}

// AttemptReview is an attempt together with the keyed questions it covered.
type AttemptReview struct {
	Attempt   *model.Attempt  `json:"attempt"`
	Questions []quiz.Question `json:"questions"`
}

type AttemptService struct {
	AttemptRepo  AttemptStore
	QuestionRepo QuestionStore
	Sessions     SessionStore
	bank         quiz.Bank
}

func NewAttemptService(attemptRepo AttemptStore, questionRepo QuestionStore, sessions SessionStore) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		QuestionRepo: questionRepo,
		Sessions:     sessions,
		bank:         questionBank{repo: questionRepo},
	}
}

// Submit scores the answers against the bank and writes one attempt.
// Submitting twice writes two attempts.
func (s *AttemptService) Submit(ctx context.Context, callerID string, isAdmin bool, req SubmitRequest) (*quiz.SubmitResult, error) {
	ctx, span := tracing.Start(ctx, "quiz.score")
	defer span.End()

	userID := callerID
	if req.UserID != "" && req.UserID != callerID {
		if !isAdmin {
			return nil, fmt.Errorf("%w: cannot submit for another user", quiz.ErrUnauthorized)
		}
		userID = req.UserID
	}
	if req.SubjectID == "" {
		return nil, fmt.Errorf("%w: subjectId is required", quiz.ErrValidation)
	}

	presentedIDs, err := s.presentedIDs(ctx, userID, req.Submission)
	if err != nil {
		return nil, err
	}
	presented, err := s.resolve(ctx, presentedIDs)
	if err != nil {
		return nil, err
	}
	for _, q := range presented {
		if q.SubjectID != req.SubjectID {
			return nil, fmt.Errorf("%w: question %s is not part of subject %s", quiz.ErrValidation, q.ID, req.SubjectID)
		}
	}

	byID := make(map[string]quiz.Question, len(presented))
	for _, q := range presented {
		byID[q.ID] = q
	}
	answers := make(map[string]quiz.Answer, len(req.Answers))
	encoded := make(map[string]string, len(req.Answers))
	for _, a := range req.Answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: answer for question %s outside the presented set", quiz.ErrValidation, a.QuestionID)
		}
		ans, err := quiz.DecodeAnswer(q.Kind, a.SelectedAnswerEncoded)
		if err != nil {
			return nil, err
		}
		answers[a.QuestionID] = ans
		encoded[a.QuestionID] = a.SelectedAnswerEncoded
	}

	result, err := quiz.Score(presented, answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:        userID,
		SubjectID:     req.SubjectID,
		ExamID:        req.ExamID,
		Score:         result.Score,
		Total:         result.Total,
		AutoSubmitted: req.AutoSubmitted,
	}
	for _, item := range result.Items {
		attempt.Answers = append(attempt.Answers, model.AttemptAnswer{
			QuestionID:     item.QuestionID,
			SelectedAnswer: encoded[item.QuestionID],
			IsCorrect:      item.IsCorrect,
			Weight:         item.Weight,
		})
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: save attempt: %v", quiz.ErrPersistence, err)
	}

	if req.SessionID != "" {
		if err := s.Sessions.Delete(ctx, req.SessionID); err != nil {
			logger.Log.Warn("Failed to drop quiz session draft",
				zap.String("sessionID", req.SessionID),
				zap.Error(err))
		}
	}

	monitoring.ObserveAttempt(result.Score, result.Total, req.AutoSubmitted)
	span.SetAttributes(
		attribute.Float64("quiz.score", result.Score),
		attribute.Int("quiz.total", result.Total),
		attribute.Bool("quiz.auto_submitted", req.AutoSubmitted),
	)
	logger.Log.Info("Attempt saved",
		zap.String("attemptID", attempt.ID),
		zap.String("userID", userID),
		zap.Float64("score", result.Score),
		zap.Int("total", result.Total),
		zap.Bool("autoSubmitted", req.AutoSubmitted))

	return &quiz.SubmitResult{AttemptID: attempt.ID, Score: result.Score, Total: result.Total}, nil
}

// presentedIDs picks the question order the score is computed over: the
// session draft, then the explicit list, then the answered ids.
func (s *AttemptService) presentedIDs(ctx context.Context, userID string, sub quiz.Submission) ([]string, error) {
	if sub.SessionID != "" {
		draft, err := s.Sessions.Get(ctx, sub.SessionID)
		switch {
		case err == nil:
			if draft.UserID != userID {
				return nil, fmt.Errorf("%w: quiz session belongs to another user", quiz.ErrUnauthorized)
			}
			return draft.QuestionIDs, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// expired draft: fall through to what the client sent
		default:
			return nil, err
		}
	}
	if len(sub.QuestionIDs) > 0 {
		return dedupe(sub.QuestionIDs)
	}

	ids := make([]string, 0, len(sub.Answers))
	for _, a := range sub.Answers {
		ids = append(ids, a.QuestionID)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: submission has no questions", quiz.ErrValidation)
	}
	return dedupe(ids)
}

func dedupe(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty question id", quiz.ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: question %s appears twice", quiz.ErrValidation, id)
		}
		seen[id] = true
	}
	return ids, nil
}

// resolve loads the presented questions in order; every id must exist.
func (s *AttemptService) resolve(ctx context.Context, ids []string) ([]quiz.Question, error) {
	found, err := s.bank.QuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]quiz.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	out := make([]quiz.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: question %s", quiz.ErrNotFound, id)
		}
		out = append(out, q)
	}
	return out, nil
}

// Get returns the attempt with its questions for review. Only the owner and
// admins may read it.
func (s *AttemptService) Get(ctx context.Context, callerID string, isAdmin bool, id string) (*AttemptReview, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "attempt %s", id)
	}
	if attempt.UserID != callerID && !isAdmin {
		return nil, fmt.Errorf("%w: attempt belongs to another user", quiz.ErrUnauthorized)
	}

	ids := make([]string, len(attempt.Answers))
	for i, a := range attempt.Answers {
		ids[i] = a.QuestionID
	}
	found, err := s.bank.QuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]quiz.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	// questions deleted since the attempt are skipped
	questions := make([]quiz.Question, 0, len(ids))
	for _, qid := range ids {
		if q, ok := byID[qid]; ok {
			questions = append(questions, q)
		}
	}
	return &AttemptReview{Attempt: attempt, Questions: questions}, nil
}

func (s *AttemptService) List(ctx context.Context, f repository.AttemptFilter) ([]model.Attempt, int64, error) {
	return s.AttemptRepo.List(ctx, f)
}

func (s *AttemptService) Delete(ctx context.Context, id string) error {
	return notFound(s.AttemptRepo.Delete(ctx, id), "attempt %s", id)
}
