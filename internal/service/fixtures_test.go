package service

import (
	"math/rand"
	"testing"
	"time"

	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/service/servicetest"

	"gorm.io/datatypes"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:  config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Quiz: config.QuizConfig{DefaultDurationMinutes: 20, SessionGraceSeconds: 60},
	}
}

func choiceRow(id, subject, difficulty, correct string) model.Question {
	return model.Question{
		UUIDBase:      model.UUIDBase{ID: id},
		SubjectID:     subject,
		Kind:          quiz.KindSingleChoice,
		Text:          "question " + id,
		Explanation:   "because",
		Difficulty:    difficulty,
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: correct,
	}
}

func shortRow(id, subject, canonical string) model.Question {
	return model.Question{
		UUIDBase:           model.UUIDBase{ID: id},
		SubjectID:          subject,
		Kind:               quiz.KindShortAnswer,
		Text:               "question " + id,
		Difficulty:         "easy",
		ShortAnswerCorrect: canonical,
	}
}

func trueFalseRow(id, subject string) model.Question {
	return model.Question{
		UUIDBase:  model.UUIDBase{ID: id},
		SubjectID: subject,
		Kind:      quiz.KindTrueFalseSet,
		Text:      "question " + id,
		Statements: datatypes.JSONSlice[quiz.Statement]{
			{SubID: "s1", Text: "one", IsCorrect: true},
			{SubID: "s2", Text: "two", IsCorrect: false},
		},
	}
}

type quizFixture struct {
	questions *servicetest.Questions
	exams     *servicetest.Exams
	subjects  *servicetest.Subjects
	attempts  *servicetest.Attempts
	sessions  *repository.MemoryQuizSessionRepository
	quiz      *QuizService
	attempt   *AttemptService
}

// newQuizFixture seeds subject "math" with q1 (choice, B), q2 (short, 42),
// q3 (true/false), the published fixed exam "fixed-1" [q1 q2] and the
// unpublished exam "draft-1".
func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	f := &quizFixture{
		questions: servicetest.NewQuestions(
			choiceRow("q1", "math", "easy", "B"),
			shortRow("q2", "math", "42"),
			trueFalseRow("q3", "math"),
			choiceRow("h1", "math", "hard", "A"),
			choiceRow("h2", "math", "hard", "C"),
			choiceRow("other", "physics", "easy", "A"),
		),
		exams: servicetest.NewExams(
			model.Exam{UUIDBase: model.UUIDBase{ID: "fixed-1"}, SubjectID: "math", Title: "Fixed", Mode: quiz.ModeFixed,
				QuestionIDs: datatypes.JSONSlice[string]{"q2", "q1"}, DurationMinutes: 5, IsPublished: true},
			model.Exam{UUIDBase: model.UUIDBase{ID: "draft-1"}, SubjectID: "math", Title: "Draft", Mode: quiz.ModeFixed,
				QuestionIDs: datatypes.JSONSlice[string]{"q1"}},
		),
		subjects: servicetest.NewSubjects("math", "physics"),
		attempts: &servicetest.Attempts{},
		sessions: repository.NewMemoryQuizSessionRepository(),
	}
	f.quiz = NewQuizService(f.questions, f.exams, f.subjects, f.sessions, testConfig(), rand.New(rand.NewSource(7)))
	f.attempt = NewAttemptService(f.attempts, f.questions, f.sessions)
	return f
}

var (
	_ UserStore     = (*servicetest.Users)(nil)
	_ SubjectStore  = (*servicetest.Subjects)(nil)
	_ QuestionStore = (*servicetest.Questions)(nil)
	_ ExamStore     = (*servicetest.Exams)(nil)
	_ AttemptStore  = (*servicetest.Attempts)(nil)
)
