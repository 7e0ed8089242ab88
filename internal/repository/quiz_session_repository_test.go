package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

func TestMemoryQuizSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewMemoryQuizSessionRepository()
	ctx := context.Background()
	s := &model.QuizSession{ID: "s1", UserID: "u1", QuestionIDs: []string{"q1", "q2"}}

	if err := repo.Save(ctx, s, time.Minute); err != nil {
		t.Fatal(err)
	}
	s.QuestionIDs[0] = "mutated"

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.QuestionIDs[0] != "q1" {
		t.Errorf("stored draft should not alias the caller's slice, got %v", got.QuestionIDs)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryQuizSessionRepository_Expiry(t *testing.T) {
	repo := NewMemoryQuizSessionRepository()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	repo.Save(ctx, &model.QuizSession{ID: "a"}, time.Minute)
	repo.Save(ctx, &model.QuizSession{ID: "b"}, time.Hour)

	now = now.Add(2 * time.Minute)
	if _, err := repo.Get(ctx, "a"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected expired draft to be gone, got %v", err)
	}
	if n := repo.Sweep(); n != 0 {
		t.Errorf("expired draft was already dropped on read, swept %d", n)
	}
	now = now.Add(2 * time.Hour)
	if n := repo.Sweep(); n != 1 {
		t.Errorf("expected 1 swept, got %d", n)
	}
}

func TestQuizSessionRemainingSeconds(t *testing.T) {
	start := time.Now()
	s := &model.QuizSession{Deadline: start.Add(90 * time.Second)}
	if got := s.RemainingSeconds(start); got != 90 {
		t.Errorf("expected 90, got %d", got)
	}
	if got := s.RemainingSeconds(start.Add(time.Hour)); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}
