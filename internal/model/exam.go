package model

import (
	"exam_practice_backend/internal/quiz"

	"gorm.io/datatypes"
)

// swagger:model Exam
type Exam struct {
	UUIDBase
	SubjectID       string                                `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	Title           string                                `gorm:"size:255;not null" json:"title"`
	Mode            quiz.Mode                             `gorm:"size:20;not null" json:"mode"`
	QuestionIDs     datatypes.JSONSlice[string]           `gorm:"type:json" json:"questionIds,omitempty"`
	Matrix          datatypes.JSONSlice[quiz.MatrixEntry] `gorm:"type:json" json:"matrix,omitempty"`
	DurationMinutes int                                   `gorm:"default:0" json:"durationMinutes"`
	IsPublished     bool                                  `gorm:"default:false" json:"isPublished"`
}

func (Exam) TableName() string {
	return "exams"
}
