package quiz_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"exam_practice_backend/internal/quiz"
)

type memBank struct {
	questions []quiz.Question
}

func (b *memBank) QuestionsByIDs(_ context.Context, ids []string) ([]quiz.Question, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []quiz.Question
	for _, q := range b.questions {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (b *memBank) CandidateIDs(_ context.Context, subjectID, partition string) ([]string, error) {
	var out []string
	for _, q := range b.questions {
		if q.SubjectID == subjectID && q.Difficulty == partition {
			out = append(out, q.ID)
		}
	}
	return out, nil
}

func bankWith(subject string, perDifficulty map[string]int) *memBank {
	b := &memBank{}
	for diff, n := range perDifficulty {
		for i := 0; i < n; i++ {
			q := shortAnswer(fmt.Sprintf("%s-%s-%d", subject, diff, i), "x")
			q.SubjectID = subject
			q.Difficulty = diff
			b.questions = append(b.questions, q)
		}
	}
	return b
}

func TestComposer_FixedKeepsStoredOrder(t *testing.T) {
	bank := &memBank{questions: []quiz.Question{singleChoice("q1", "A"), singleChoice("q2", "B"), singleChoice("q3", "C")}}
	c := quiz.NewComposer(bank, rand.New(rand.NewSource(1)))

	got, err := c.Fixed(context.Background(), []string{"q3", "q1", "q2"})
	if err != nil {
		t.Fatal(err)
	}
	order := []string{got[0].ID, got[1].ID, got[2].ID}
	if order[0] != "q3" || order[1] != "q1" || order[2] != "q2" {
		t.Errorf("expected stored order, got %v", order)
	}
}

func TestComposer_FixedMissingQuestionIsNotFound(t *testing.T) {
	bank := &memBank{questions: []quiz.Question{singleChoice("q1", "A")}}
	c := quiz.NewComposer(bank, nil)

	_, err := c.Fixed(context.Background(), []string{"q1", "gone"})
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestComposer_RandomMatchesMatrixExactly(t *testing.T) {
	bank := bankWith("math", map[string]int{"easy": 10, "medium": 8, "hard": 5})
	// another subject with the same partitions must never leak in
	for _, q := range bankWith("bio", map[string]int{"easy": 10}).questions {
		bank.questions = append(bank.questions, q)
	}
	c := quiz.NewComposer(bank, rand.New(rand.NewSource(42)))
	matrix := []quiz.MatrixEntry{
		{PartitionKey: "hard", Count: 2},
		{PartitionKey: "easy", Count: 4},
		{PartitionKey: "medium", Count: 3},
	}

	for run := 0; run < 20; run++ {
		got, err := c.Random(context.Background(), "math", matrix)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 9 {
			t.Fatalf("expected 9 questions, got %d", len(got))
		}

		seen := map[string]bool{}
		counts := map[string]int{}
		for i, q := range got {
			if seen[q.ID] {
				t.Fatalf("duplicate question %s", q.ID)
			}
			seen[q.ID] = true
			if q.SubjectID != "math" {
				t.Fatalf("question %s from wrong subject", q.ID)
			}
			counts[q.Difficulty]++

			// partitions are concatenated in matrix order
			var want string
			switch {
			case i < 2:
				want = "hard"
			case i < 6:
				want = "easy"
			default:
				want = "medium"
			}
			if q.Difficulty != want {
				t.Fatalf("position %d: expected %s, got %s", i, want, q.Difficulty)
			}
		}
		for _, e := range matrix {
			if counts[e.PartitionKey] != e.Count {
				t.Errorf("partition %s: expected %d, got %d", e.PartitionKey, e.Count, counts[e.PartitionKey])
			}
		}
	}
}

func TestComposer_RandomDrawsVary(t *testing.T) {
	bank := bankWith("math", map[string]int{"easy": 30})
	c := quiz.NewComposer(bank, rand.New(rand.NewSource(7)))
	matrix := []quiz.MatrixEntry{{PartitionKey: "easy", Count: 5}}

	first, err := c.Random(context.Background(), "math", matrix)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		next, err := c.Random(context.Background(), "math", matrix)
		if err != nil {
			t.Fatal(err)
		}
		for j := range next {
			if next[j].ID != first[j].ID {
				return
			}
		}
	}
	t.Error("expected repeated random compositions to differ")
}

func TestComposer_RandomInsufficientBank(t *testing.T) {
	bank := bankWith("math", map[string]int{"easy": 3, "hard": 1})
	c := quiz.NewComposer(bank, nil)

	_, err := c.Random(context.Background(), "math", []quiz.MatrixEntry{
		{PartitionKey: "easy", Count: 2},
		{PartitionKey: "hard", Count: 2},
	})
	if !errors.Is(err, quiz.ErrInsufficientBank) {
		t.Errorf("expected ErrInsufficientBank, got %v", err)
	}
}

func TestComposer_RandomExactSupplyUsesWholePartition(t *testing.T) {
	bank := bankWith("math", map[string]int{"easy": 4})
	c := quiz.NewComposer(bank, nil)

	got, err := c.Random(context.Background(), "math", []quiz.MatrixEntry{{PartitionKey: "easy", Count: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4, got %d", len(got))
	}
}

func TestValidateMatrix(t *testing.T) {
	cases := []struct {
		name   string
		matrix []quiz.MatrixEntry
		ok     bool
	}{
		{"empty", nil, false},
		{"zero count", []quiz.MatrixEntry{{PartitionKey: "easy", Count: 0}}, false},
		{"no key", []quiz.MatrixEntry{{Count: 1}}, false},
		{"repeated key", []quiz.MatrixEntry{{PartitionKey: "easy", Count: 1}, {PartitionKey: "easy", Count: 2}}, false},
		{"valid", []quiz.MatrixEntry{{PartitionKey: "easy", Count: 1}, {PartitionKey: "hard", Count: 2}}, true},
	}
	for _, tc := range cases {
		err := quiz.ValidateMatrix(tc.matrix)
		if (err == nil) != tc.ok {
			t.Errorf("%s: expected ok=%v, got %v", tc.name, tc.ok, err)
		}
		if err != nil && !errors.Is(err, quiz.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}
