// Package servicetest holds in-memory stores for service and controller tests.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"

	"gorm.io/gorm"
)

type Users struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewUsers() *Users { return &Users{users: map[string]*model.User{}} }

func (f *Users) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = model.NewID()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *Users) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *Users) List(_ context.Context, role string, page, limit int) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if role == "" || string(u.Role) == role {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *Users) UpdateRole(_ context.Context, id string, role model.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

func (f *Users) SetDisabled(_ context.Context, id string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Disabled = disabled
	return nil
}

func (f *Users) TouchLastLogin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

type Subjects struct {
	mu       sync.Mutex
	subjects map[string]*model.Subject
}

func NewSubjects(ids ...string) *Subjects {
	f := &Subjects{subjects: map[string]*model.Subject{}}
	for _, id := range ids {
		f.subjects[id] = &model.Subject{UUIDBase: model.UUIDBase{ID: id}, Code: id, Name: id}
	}
	return f
}

func (f *Subjects) Create(_ context.Context, s *model.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = model.NewID()
	}
	cp := *s
	f.subjects[s.ID] = &cp
	return nil
}

func (f *Subjects) FindByID(_ context.Context, id string) (*model.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *Subjects) FindByCode(_ context.Context, code string) (*model.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subjects {
		if s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *Subjects) Update(_ context.Context, s *model.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.subjects[s.ID] = &cp
	return nil
}

func (f *Subjects) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subjects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.subjects, id)
	return nil
}

func (f *Subjects) List(_ context.Context) ([]model.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Subject
	for _, s := range f.subjects {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Questions keeps insertion order so candidate lists are deterministic.
type Questions struct {
	mu    sync.Mutex
	order []string
	qs    map[string]*model.Question
}

func NewQuestions(qs ...model.Question) *Questions {
	f := &Questions{qs: map[string]*model.Question{}}
	for i := range qs {
		f.Create(context.Background(), &qs[i])
	}
	return f
}

func (f *Questions) Create(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ID == "" {
		q.ID = model.NewID()
	}
	cp := *q
	f.qs[q.ID] = &cp
	f.order = append(f.order, q.ID)
	return nil
}

func (f *Questions) CreateBatch(ctx context.Context, qs []model.Question) error {
	for i := range qs {
		f.Create(ctx, &qs[i])
	}
	return nil
}

func (f *Questions) FindByID(_ context.Context, id string) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.qs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *Questions) FindByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Question
	for _, id := range ids {
		if q, ok := f.qs[id]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *Questions) IDsBySubjectAndDifficulty(_ context.Context, subjectID, difficulty string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, id := range f.order {
		q, ok := f.qs[id]
		if ok && q.SubjectID == subjectID && q.Difficulty == difficulty {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *Questions) Update(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *q
	f.qs[q.ID] = &cp
	return nil
}

func (f *Questions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.qs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.qs, id)
	return nil
}

func (f *Questions) List(_ context.Context, flt repository.QuestionFilter) ([]model.Question, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Question
	for _, id := range f.order {
		q, ok := f.qs[id]
		if ok && (flt.SubjectID == "" || q.SubjectID == flt.SubjectID) {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

type Exams struct {
	mu    sync.Mutex
	exams map[string]*model.Exam
}

func NewExams(exams ...model.Exam) *Exams {
	f := &Exams{exams: map[string]*model.Exam{}}
	for i := range exams {
		f.Create(context.Background(), &exams[i])
	}
	return f
}

func (f *Exams) Create(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = model.NewID()
	}
	cp := *e
	f.exams[e.ID] = &cp
	return nil
}

func (f *Exams) FindByID(_ context.Context, id string) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *Exams) Update(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.exams[e.ID] = &cp
	return nil
}

func (f *Exams) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.exams, id)
	return nil
}

func (f *Exams) List(_ context.Context, subjectID string, publishedOnly bool) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Exam
	for _, e := range f.exams {
		if (subjectID == "" || e.SubjectID == subjectID) && (!publishedOnly || e.IsPublished) {
			out = append(out, *e)
		}
	}
	return out, nil
}

// Attempts fails the next Create with FailNext when it is set.
type Attempts struct {
	mu       sync.Mutex
	attempts []model.Attempt
	FailNext error
}

func (f *Attempts) Create(_ context.Context, a *model.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNext != nil {
		err := f.FailNext
		f.FailNext = nil
		return err
	}
	a.ID = model.NewID()
	f.attempts = append(f.attempts, *a)
	return nil
}

func (f *Attempts) FindByID(_ context.Context, id string) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.attempts {
		if f.attempts[i].ID == id {
			cp := f.attempts[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *Attempts) List(_ context.Context, flt repository.AttemptFilter) ([]model.Attempt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attempt
	for _, a := range f.attempts {
		if flt.UserID == "" || a.UserID == flt.UserID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *Attempts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.attempts {
		if f.attempts[i].ID == id {
			f.attempts = append(f.attempts[:i], f.attempts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// Count reports how many attempts are stored.
func (f *Attempts) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts)
}

// ErrDBDown is a stand-in for a failing database.
var ErrDBDown = errors.New("database is down")

func (f *Questions) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.qs)
}
