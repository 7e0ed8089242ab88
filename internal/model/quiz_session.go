package model

import "time"

// QuizSession is the server-side draft of a composed quiz. It lives in
// redis (or memory) only, never in the database.
type QuizSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	SubjectID       string    `json:"subjectId"`
	ExamID          string    `json:"examId,omitempty"`
	QuestionIDs     []string  `json:"questionIds"`
	DurationSeconds int       `json:"durationSeconds"`
	StartedAt       time.Time `json:"startedAt"`
	Deadline        time.Time `json:"deadline"`
}

// RemainingSeconds never goes below zero.
func (s *QuizSession) RemainingSeconds(now time.Time) int {
	left := int(s.Deadline.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}
