package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/quiz"
)

func TestQuizService_ComposeFixedStripsKeysAndStoresDraft(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	got, err := f.quiz.Compose(ctx, "u1", ComposeRequest{SubjectID: "math", ExamID: "fixed-1"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 2 || got.Questions[0].ID != "q2" || got.Questions[1].ID != "q1" {
		t.Fatalf("expected stored order [q2 q1], got %+v", got.Questions)
	}
	for _, q := range got.Questions {
		if q.CorrectAnswer != "" || q.ShortAnswerCorrect != "" || q.Explanation != "" || q.Keyed {
			t.Errorf("question %s leaked key fields: %+v", q.ID, q)
		}
	}
	if got.DurationSeconds != 5*60 {
		t.Errorf("expected exam duration 300s, got %d", got.DurationSeconds)
	}
	if got.SessionID == "" {
		t.Fatal("expected a session id")
	}

	draft, err := f.sessions.Get(ctx, got.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if draft.UserID != "u1" || len(draft.QuestionIDs) != 2 || draft.QuestionIDs[0] != "q2" {
		t.Errorf("unexpected draft %+v", draft)
	}
}

func TestQuizService_ComposeFixedNeedsMatchingPublishedExam(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		req    ComposeRequest
		drafts bool
		want   error
	}{
		{"unknown exam", ComposeRequest{SubjectID: "math", ExamID: "nope"}, false, quiz.ErrNotFound},
		{"other subject", ComposeRequest{SubjectID: "physics", ExamID: "fixed-1"}, false, quiz.ErrNotFound},
		{"unpublished for student", ComposeRequest{SubjectID: "math", ExamID: "draft-1"}, false, quiz.ErrNotFound},
		{"unknown subject", ComposeRequest{SubjectID: "history", Mode: quiz.ModeRandom}, false, quiz.ErrNotFound},
		{"fixed without exam", ComposeRequest{SubjectID: "math", Mode: quiz.ModeFixed}, false, quiz.ErrValidation},
		{"unknown mode", ComposeRequest{SubjectID: "math", Mode: "shuffled"}, false, quiz.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.quiz.Compose(ctx, "u1", tc.req, tc.drafts)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := f.quiz.Compose(ctx, "teacher", ComposeRequest{SubjectID: "math", ExamID: "draft-1"}, true); err != nil {
		t.Errorf("content managers may preview unpublished exams, got %v", err)
	}
}

func TestQuizService_ComposeFixedMissingQuestion(t *testing.T) {
	f := newQuizFixture(t)
	f.questions.Delete(context.Background(), "q1")

	_, err := f.quiz.Compose(context.Background(), "u1", ComposeRequest{SubjectID: "math", ExamID: "fixed-1"}, false)
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("expected not found for a dangling reference, got %v", err)
	}
}

func TestQuizService_ComposeRandom(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	got, err := f.quiz.Compose(ctx, "u1", ComposeRequest{
		SubjectID: "math",
		Mode:      quiz.ModeRandom,
		Matrix:    []quiz.MatrixEntry{{PartitionKey: "hard", Count: 2}, {PartitionKey: "easy", Count: 1}},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.Questions))
	}
	for _, q := range got.Questions[:2] {
		if q.Difficulty != "hard" {
			t.Errorf("first partition should be hard, got %s", q.Difficulty)
		}
	}
	if got.Questions[2].Difficulty != "easy" || got.Questions[2].SubjectID != "math" {
		t.Errorf("unexpected easy pick %+v", got.Questions[2])
	}
	if got.DurationSeconds != 20*60 {
		t.Errorf("expected the default duration, got %d", got.DurationSeconds)
	}

	_, err = f.quiz.Compose(ctx, "u1", ComposeRequest{
		SubjectID: "math",
		Mode:      quiz.ModeRandom,
		Matrix:    []quiz.MatrixEntry{{PartitionKey: "hard", Count: 3}},
	}, false)
	if !errors.Is(err, quiz.ErrInsufficientBank) {
		t.Errorf("expected insufficient bank, got %v", err)
	}
}

func TestQuizService_ApplyConfigChangesDefaultDuration(t *testing.T) {
	f := newQuizFixture(t)
	f.quiz.ApplyConfig(&config.Config{Quiz: config.QuizConfig{DefaultDurationMinutes: 3}})
	if got := f.quiz.DefaultDurationMinutes(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}

	f.quiz.ApplyConfig(&config.Config{Quiz: config.QuizConfig{DefaultDurationMinutes: 0}})
	if got := f.quiz.DefaultDurationMinutes(); got != 3 {
		t.Errorf("a zero duration should be ignored, got %d", got)
	}
}

func TestQuizService_ResumeReportsRemainingTime(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.quiz.now = func() time.Time { return start }

	composed, err := f.quiz.Compose(ctx, "u1", ComposeRequest{SubjectID: "math", ExamID: "fixed-1"}, false)
	if err != nil {
		t.Fatal(err)
	}

	f.quiz.now = func() time.Time { return start.Add(100 * time.Second) }
	resumed, err := f.quiz.Resume(ctx, "u1", composed.SessionID, false)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.RemainingSeconds != 200 {
		t.Errorf("expected 200s left, got %d", resumed.RemainingSeconds)
	}
	if resumed.Questions[0].ID != "q2" || resumed.Questions[0].ShortAnswerCorrect != "" {
		t.Errorf("resume should keep order and strip keys, got %+v", resumed.Questions[0])
	}

	if _, err := f.quiz.Resume(ctx, "u2", composed.SessionID, false); !errors.Is(err, quiz.ErrUnauthorized) {
		t.Errorf("expected unauthorized for another user, got %v", err)
	}

	if err := f.quiz.Abandon(ctx, "u1", composed.SessionID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := f.quiz.Resume(ctx, "u1", composed.SessionID, false); !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("expected abandoned draft to be gone, got %v", err)
	}
}
