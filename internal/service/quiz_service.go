package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
	"exam_practice_backend/pkg/logger"
	"exam_practice_backend/pkg/monitoring"
	"exam_practice_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ComposeRequest struct {
	SubjectID string             `json:"subjectId" binding:"required"`
	Mode      quiz.Mode          `json:"mode"`
	ExamID    string             `json:"examId"`
	Matrix    []quiz.MatrixEntry `json:"matrix"`
}

// ComposedQuiz is what the quiz runner receives. Questions carry no keys.
type ComposedQuiz struct {
	SessionID        string          `json:"sessionId"`
	SubjectID        string          `json:"subjectId"`
	ExamID           string          `json:"examId,omitempty"`
	DurationSeconds  int             `json:"durationSeconds"`
	RemainingSeconds int             `json:"remainingSeconds"`
	Questions        []quiz.Question `json:"questions"`
}

// questionBank adapts the question repository to the composer.
type questionBank struct {
	repo QuestionStore
}

func (b questionBank) QuestionsByIDs(ctx context.Context, ids []string) ([]quiz.Question, error) {
	rows, err := b.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Question, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (b questionBank) CandidateIDs(ctx context.Context, subjectID, partitionKey string) ([]string, error) {
	return b.repo.IDsBySubjectAndDifficulty(ctx, subjectID, partitionKey)
}

type QuizService struct {
	Composer    *quiz.Composer
	ExamRepo    ExamStore
	SubjectRepo SubjectStore
	Sessions    SessionStore

	defaultMinutes atomic.Int64
	graceSeconds   atomic.Int64
	now            func() time.Time
}

func NewQuizService(questionRepo QuestionStore, examRepo ExamStore, subjectRepo SubjectStore, sessions SessionStore, cfg *config.Config, rng *rand.Rand) *QuizService {
	s := &QuizService{
		Composer:    quiz.NewComposer(questionBank{repo: questionRepo}, rng),
		ExamRepo:    examRepo,
		SubjectRepo: subjectRepo,
		Sessions:    sessions,
		now:         time.Now,
	}
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig picks up the quiz settings of a reloaded config.
func (s *QuizService) ApplyConfig(cfg *config.Config) {
	if cfg.Quiz.DefaultDurationMinutes > 0 {
		s.defaultMinutes.Store(int64(cfg.Quiz.DefaultDurationMinutes))
	}
	if cfg.Quiz.SessionGraceSeconds >= 0 {
		s.graceSeconds.Store(int64(cfg.Quiz.SessionGraceSeconds))
	}
}

func (s *QuizService) DefaultDurationMinutes() int {
	return int(s.defaultMinutes.Load())
}

// Compose builds a question list for the caller and stores a session draft.
// Unpublished exams are only visible to content managers.
func (s *QuizService) Compose(ctx context.Context, userID string, req ComposeRequest, canSeeDrafts bool) (*ComposedQuiz, error) {
	ctx, span := tracing.Start(ctx, "quiz.compose")
	defer span.End()

	mode := req.Mode
	questions, exam, err := s.compose(ctx, req, &mode, canSeeDrafts)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	monitoring.ExamsComposed.WithLabelValues(string(mode), outcome).Inc()
	span.SetAttributes(
		attribute.String("quiz.mode", string(mode)),
		attribute.String("quiz.subject_id", req.SubjectID),
		attribute.Int("quiz.questions", len(questions)),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	minutes := s.DefaultDurationMinutes()
	examID := ""
	if exam != nil {
		examID = exam.ID
		if exam.DurationMinutes > 0 {
			minutes = exam.DurationMinutes
		}
	}
	duration := minutes * 60

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	now := s.now()
	draft := &model.QuizSession{
		ID:              model.NewID(),
		UserID:          userID,
		SubjectID:       req.SubjectID,
		ExamID:          examID,
		QuestionIDs:     ids,
		DurationSeconds: duration,
		StartedAt:       now,
		Deadline:        now.Add(time.Duration(duration) * time.Second),
	}
	ttl := time.Duration(duration+int(s.graceSeconds.Load())) * time.Second
	if err := s.Sessions.Save(ctx, draft, ttl); err != nil {
		// the quiz still works without a draft; it just cannot be resumed
		logger.Log.Warn("Failed to save quiz session draft",
			zap.String("userID", userID),
			zap.Error(err))
		draft.ID = ""
	}

	return &ComposedQuiz{
		SessionID:        draft.ID,
		SubjectID:        req.SubjectID,
		ExamID:           examID,
		DurationSeconds:  duration,
		RemainingSeconds: duration,
		Questions:        publicQuestions(questions),
	}, nil
}

func (s *QuizService) compose(ctx context.Context, req ComposeRequest, mode *quiz.Mode, canSeeDrafts bool) ([]quiz.Question, *model.Exam, error) {
	if _, err := s.SubjectRepo.FindByID(ctx, req.SubjectID); err != nil {
		return nil, nil, notFound(err, "subject %s", req.SubjectID)
	}

	var exam *model.Exam
	if req.ExamID != "" {
		e, err := s.ExamRepo.FindByID(ctx, req.ExamID)
		if err != nil {
			return nil, nil, notFound(err, "exam %s", req.ExamID)
		}
		if e.SubjectID != req.SubjectID || (!e.IsPublished && !canSeeDrafts) {
			return nil, nil, fmt.Errorf("%w: exam %s", quiz.ErrNotFound, req.ExamID)
		}
		exam = e
		if *mode == "" {
			*mode = e.Mode
		}
	}

	switch *mode {
	case quiz.ModeFixed:
		if exam == nil {
			return nil, nil, fmt.Errorf("%w: fixed mode needs an examId", quiz.ErrValidation)
		}
		qs, err := s.Composer.Fixed(ctx, exam.QuestionIDs)
		return qs, exam, err
	case quiz.ModeRandom:
		matrix := req.Matrix
		if len(matrix) == 0 && exam != nil {
			matrix = exam.Matrix
		}
		qs, err := s.Composer.Random(ctx, req.SubjectID, matrix)
		return qs, exam, err
	default:
		return nil, nil, fmt.Errorf("%w: unknown mode %q", quiz.ErrValidation, *mode)
	}
}

// Resume reloads a draft so the runner can continue with the time left.
func (s *QuizService) Resume(ctx context.Context, userID, sessionID string, isAdmin bool) (*ComposedQuiz, error) {
	draft, err := s.draftFor(ctx, userID, sessionID, isAdmin)
	if err != nil {
		return nil, err
	}

	questions, err := s.Composer.Fixed(ctx, draft.QuestionIDs)
	if err != nil {
		return nil, err
	}
	return &ComposedQuiz{
		SessionID:        draft.ID,
		SubjectID:        draft.SubjectID,
		ExamID:           draft.ExamID,
		DurationSeconds:  draft.DurationSeconds,
		RemainingSeconds: draft.RemainingSeconds(s.now()),
		Questions:        publicQuestions(questions),
	}, nil
}

// Abandon drops the draft. Nothing is persisted.
func (s *QuizService) Abandon(ctx context.Context, userID, sessionID string, isAdmin bool) error {
	if _, err := s.draftFor(ctx, userID, sessionID, isAdmin); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *QuizService) draftFor(ctx context.Context, userID, sessionID string, isAdmin bool) (*model.QuizSession, error) {
	draft, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "quiz session %s", sessionID)
	}
	if draft.UserID != userID && !isAdmin {
		return nil, fmt.Errorf("%w: quiz session belongs to another user", quiz.ErrUnauthorized)
	}
	return draft, nil
}

func publicQuestions(qs []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, len(qs))
	for i, q := range qs {
		out[i] = q.Public()
	}
	return out
}
