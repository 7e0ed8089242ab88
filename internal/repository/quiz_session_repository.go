package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"exam_practice_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const quizSessionKeyPrefix = "quiz:session:"

// QuizSessionRepository stores session drafts in redis with a TTL.
// A missing or expired draft reports gorm.ErrRecordNotFound like the
// database repositories do.
type QuizSessionRepository struct {
	Redis *redis.Client
}

func NewQuizSessionRepository(rdb *redis.Client) *QuizSessionRepository {
	return &QuizSessionRepository{Redis: rdb}
}

func (r *QuizSessionRepository) Save(ctx context.Context, s *model.QuizSession, ttl time.Duration) error {
	val, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, quizSessionKeyPrefix+s.ID, val, ttl).Err()
}

func (r *QuizSessionRepository) Get(ctx context.Context, id string) (*model.QuizSession, error) {
	val, err := r.Redis.Get(ctx, quizSessionKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	var s model.QuizSession
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *QuizSessionRepository) Delete(ctx context.Context, id string) error {
	return r.Redis.Del(ctx, quizSessionKeyPrefix+id).Err()
}

type memorySession struct {
	session   model.QuizSession
	expiresAt time.Time
}

// MemoryQuizSessionRepository is used when redis is disabled. Drafts do not
// survive a restart and are not shared between instances.
type MemoryQuizSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemoryQuizSessionRepository() *MemoryQuizSessionRepository {
	return &MemoryQuizSessionRepository{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (r *MemoryQuizSessionRepository) Save(_ context.Context, s *model.QuizSession, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.QuestionIDs = append([]string(nil), s.QuestionIDs...)
	r.sessions[s.ID] = memorySession{session: cp, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemoryQuizSessionRepository) Get(_ context.Context, id string) (*model.QuizSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if r.now().After(m.expiresAt) {
		delete(r.sessions, id)
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.session
	cp.QuestionIDs = append([]string(nil), m.session.QuestionIDs...)
	return &cp, nil
}

func (r *MemoryQuizSessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Sweep drops expired drafts and returns how many were removed.
func (r *MemoryQuizSessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, m := range r.sessions {
		if now.After(m.expiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
