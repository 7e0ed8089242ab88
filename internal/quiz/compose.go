package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

type Mode string

const (
	ModeFixed  Mode = "fixed"
	ModeRandom Mode = "random"
)

func (m Mode) Valid() bool {
	return m == ModeFixed || m == ModeRandom
}

// MatrixEntry asks for Count questions whose difficulty equals PartitionKey.
type MatrixEntry struct {
	PartitionKey string `json:"partitionKey" yaml:"partitionKey"`
	Count        int    `json:"count" yaml:"count"`
}

// ValidateMatrix rejects empty matrices, non-positive counts and repeated keys.
func ValidateMatrix(matrix []MatrixEntry) error {
	if len(matrix) == 0 {
		return fmt.Errorf("%w: random composition needs a matrix", ErrValidation)
	}
	seen := make(map[string]bool, len(matrix))
	for _, e := range matrix {
		if e.PartitionKey == "" {
			return fmt.Errorf("%w: matrix entry without partition key", ErrValidation)
		}
		if e.Count <= 0 {
			return fmt.Errorf("%w: matrix count for %q must be positive", ErrValidation, e.PartitionKey)
		}
		if seen[e.PartitionKey] {
			return fmt.Errorf("%w: partition %q listed twice", ErrValidation, e.PartitionKey)
		}
		seen[e.PartitionKey] = true
	}
	return nil
}

// Bank is the read-only view of the question bank the composer draws from.
type Bank interface {
	// QuestionsByIDs returns the found questions in any order.
	QuestionsByIDs(ctx context.Context, ids []string) ([]Question, error)
	// CandidateIDs lists ids of the subject's questions in one partition.
	CandidateIDs(ctx context.Context, subjectID, partitionKey string) ([]string, error)
}

type Composer struct {
	bank Bank

	mu  sync.Mutex
	rng *rand.Rand
}

func NewComposer(bank Bank, rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{bank: bank, rng: rng}
}

// Fixed resolves a stored ordered reference list verbatim.
func (c *Composer) Fixed(ctx context.Context, refs []string) ([]Question, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: exam has no questions", ErrValidation)
	}
	found, err := c.bank.QuestionsByIDs(ctx, refs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}

	out := make([]Question, 0, len(refs))
	for _, id := range refs {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: question %s", ErrNotFound, id)
		}
		out = append(out, q)
	}
	return out, nil
}

// Random draws each partition without replacement and concatenates them in
// matrix order. Any under-supplied partition fails the whole composition.
func (c *Composer) Random(ctx context.Context, subjectID string, matrix []MatrixEntry) ([]Question, error) {
	if err := ValidateMatrix(matrix); err != nil {
		return nil, err
	}

	picked := make([]string, 0)
	used := make(map[string]bool)
	for _, e := range matrix {
		candidates, err := c.bank.CandidateIDs(ctx, subjectID, e.PartitionKey)
		if err != nil {
			return nil, err
		}
		pool := make([]string, 0, len(candidates))
		for _, id := range candidates {
			if !used[id] {
				pool = append(pool, id)
			}
		}
		if len(pool) < e.Count {
			return nil, fmt.Errorf("%w: partition %q has %d questions, %d requested", ErrInsufficientBank, e.PartitionKey, len(pool), e.Count)
		}
		for _, id := range c.sample(pool, e.Count) {
			used[id] = true
			picked = append(picked, id)
		}
	}

	return c.Fixed(ctx, picked)
}

// sample runs a partial Fisher-Yates shuffle in place and returns the first n.
func (c *Composer) sample(pool []string, n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < n; i++ {
		j := i + c.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
