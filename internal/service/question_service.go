package service

import (
	"context"
	"fmt"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
	"exam_practice_backend/internal/repository"

	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

// QuestionInput is the admin write payload of a bank item.
type QuestionInput struct {
	SubjectID          string           `json:"subjectId" yaml:"subjectId"`
	Kind               quiz.Kind        `json:"kind" yaml:"kind"`
	Text               string           `json:"text" yaml:"text"`
	ImageURL           string           `json:"imageUrl" yaml:"imageUrl"`
	Explanation        string           `json:"explanation" yaml:"explanation"`
	Difficulty         string           `json:"difficulty" yaml:"difficulty"`
	OptionA            string           `json:"optionA" yaml:"optionA"`
	OptionB            string           `json:"optionB" yaml:"optionB"`
	OptionC            string           `json:"optionC" yaml:"optionC"`
	OptionD            string           `json:"optionD" yaml:"optionD"`
	CorrectAnswer      string           `json:"correctAnswer" yaml:"correctAnswer"`
	Statements         []quiz.Statement `json:"statements" yaml:"statements"`
	ShortAnswerCorrect string           `json:"shortAnswerCorrect" yaml:"shortAnswerCorrect"`
}

type QuestionService struct {
	QuestionRepo QuestionStore
	SubjectRepo  SubjectStore
}

func NewQuestionService(questionRepo QuestionStore, subjectRepo SubjectStore) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		SubjectRepo:  subjectRepo,
	}
}

func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (*model.Question, error) {
	q := &model.Question{}
	if err := s.apply(ctx, q, in); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Import validates every item before writing any of them.
func (s *QuestionService) Import(ctx context.Context, items []QuestionInput) (int, error) {
	qs := make([]model.Question, len(items))
	for i, in := range items {
		if err := s.apply(ctx, &qs[i], in); err != nil {
			return 0, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	if err := s.QuestionRepo.CreateBatch(ctx, qs); err != nil {
		return 0, err
	}
	return len(qs), nil
}

func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "question %s", id)
	}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, f repository.QuestionFilter) ([]model.Question, int64, error) {
	return s.QuestionRepo.List(ctx, f)
}

func (s *QuestionService) Update(ctx context.Context, id string, in QuestionInput) (*model.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, q, in); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	return notFound(s.QuestionRepo.Delete(ctx, id), "question %s", id)
}

// apply copies the payload onto q and checks the kind's required fields.
func (s *QuestionService) apply(ctx context.Context, q *model.Question, in QuestionInput) error {
	if _, err := s.SubjectRepo.FindByID(ctx, in.SubjectID); err != nil {
		return notFound(err, "subject %s", in.SubjectID)
	}

	id := q.ID
	if err := copier.Copy(q, &in); err != nil {
		return err
	}
	q.ID = id
	q.Statements = append(datatypes.JSONSlice[quiz.Statement](nil), in.Statements...)

	// fields that do not belong to the kind are cleared
	switch q.Kind {
	case quiz.KindSingleChoice:
		q.Statements = nil
		q.ShortAnswerCorrect = ""
	case quiz.KindTrueFalseSet:
		q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectAnswer = "", "", "", "", ""
		q.ShortAnswerCorrect = ""
	case quiz.KindShortAnswer:
		q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectAnswer = "", "", "", "", ""
		q.Statements = nil
	}

	return q.ToDomain().Validate()
}
