package model

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrAttemptImmutable = errors.New("attempts cannot be modified")

type AttemptAnswer struct {
	QuestionID     string  `json:"questionId"`
	SelectedAnswer string  `json:"selectedAnswer"`
	IsCorrect      bool    `json:"isCorrect"`
	Weight         float64 `json:"weight"`
}

// Attempt is written once per submission and never updated.
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID        string                             `gorm:"index;type:varchar(36);not null" json:"userId"`
	SubjectID     string                             `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	ExamID        string                             `gorm:"index;type:varchar(36)" json:"examId,omitempty"`
	Score         float64                            `json:"score"`
	Total         int                                `json:"total"`
	Answers       datatypes.JSONSlice[AttemptAnswer] `gorm:"type:json" json:"answers"`
	AutoSubmitted bool                               `gorm:"default:false" json:"autoSubmitted"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) BeforeUpdate(tx *gorm.DB) error {
	return ErrAttemptImmutable
}
