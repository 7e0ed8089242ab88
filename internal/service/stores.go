package service

import (
	"context"
	"time"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
)

// The services depend on these narrow views of the repositories so tests can
// run against in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role string, page, limit int) ([]model.User, int64, error)
	UpdateRole(ctx context.Context, id string, role model.UserRole) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	TouchLastLogin(ctx context.Context, id string) error
}

type SubjectStore interface {
	Create(ctx context.Context, s *model.Subject) error
	FindByID(ctx context.Context, id string) (*model.Subject, error)
	FindByCode(ctx context.Context, code string) (*model.Subject, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Subject, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	CreateBatch(ctx context.Context, qs []model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	IDsBySubjectAndDifficulty(ctx context.Context, subjectID, difficulty string) ([]string, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f repository.QuestionFilter) ([]model.Question, int64, error)
}

type ExamStore interface {
	Create(ctx context.Context, e *model.Exam) error
	FindByID(ctx context.Context, id string) (*model.Exam, error)
	Update(ctx context.Context, e *model.Exam) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, subjectID string, publishedOnly bool) ([]model.Exam, error)
}

type AttemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	FindByID(ctx context.Context, id string) (*model.Attempt, error)
	List(ctx context.Context, f repository.AttemptFilter) ([]model.Attempt, int64, error)
	Delete(ctx context.Context, id string) error
}

// SessionStore keeps quiz session drafts. Both the redis and the in-memory
// repositories satisfy it.
type SessionStore interface {
	Save(ctx context.Context, s *model.QuizSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ UserStore     = (*repository.UserRepository)(nil)
	_ SubjectStore  = (*repository.SubjectRepository)(nil)
	_ QuestionStore = (*repository.QuestionRepository)(nil)
	_ ExamStore     = (*repository.ExamRepository)(nil)
	_ AttemptStore  = (*repository.AttemptRepository)(nil)
	_ SessionStore  = (*repository.QuizSessionRepository)(nil)
	_ SessionStore  = (*repository.MemoryQuizSessionRepository)(nil)
)
