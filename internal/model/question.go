package model

import (
	"exam_practice_backend/internal/quiz"

	"gorm.io/datatypes"
)

// swagger:model Question
type Question struct {
	UUIDBase
	SubjectID   string    `gorm:"index:idx_questions_subject_difficulty;type:varchar(36);not null" json:"subjectId"`
	Kind        quiz.Kind `gorm:"size:30;not null" json:"kind"` // single_choice, true_false_set, short_answer
	Text        string    `gorm:"type:text" json:"text"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	Difficulty  string    `gorm:"index:idx_questions_subject_difficulty;size:30" json:"difficulty"`

	OptionA       string `gorm:"type:text" json:"optionA,omitempty"`
	OptionB       string `gorm:"type:text" json:"optionB,omitempty"`
	OptionC       string `gorm:"type:text" json:"optionC,omitempty"`
	OptionD       string `gorm:"type:text" json:"optionD,omitempty"`
	CorrectAnswer string `gorm:"size:1" json:"correctAnswer,omitempty"`

	Statements datatypes.JSONSlice[quiz.Statement] `gorm:"type:json" json:"statements,omitempty"`

	ShortAnswerCorrect string `gorm:"type:text" json:"shortAnswerCorrect,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// ToDomain converts the stored row into the keyed quiz question.
func (q *Question) ToDomain() quiz.Question {
	out := quiz.Question{
		ID:          q.ID,
		SubjectID:   q.SubjectID,
		Kind:        q.Kind,
		Text:        q.Text,
		ImageURL:    q.ImageURL,
		Explanation: q.Explanation,
		Difficulty:  q.Difficulty,
		Keyed:       true,
	}
	switch q.Kind {
	case quiz.KindSingleChoice:
		out.Options = map[string]string{"A": q.OptionA, "B": q.OptionB, "C": q.OptionC, "D": q.OptionD}
		out.CorrectAnswer = q.CorrectAnswer
	case quiz.KindTrueFalseSet:
		out.Statements = append([]quiz.Statement(nil), q.Statements...)
	case quiz.KindShortAnswer:
		out.ShortAnswerCorrect = q.ShortAnswerCorrect
	}
	return out
}
