// Package quiz holds the exam-practice core: question kinds and their answers,
// scoring, exam composition and the client-side attempt session.
package quiz

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindSingleChoice Kind = "single_choice"
	KindTrueFalseSet Kind = "true_false_set"
	KindShortAnswer  Kind = "short_answer"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSingleChoice, KindTrueFalseSet, KindShortAnswer:
		return true
	}
	return false
}

// OptionLetters is the fixed option set of a single-choice question.
var OptionLetters = []string{"A", "B", "C", "D"}

type Statement struct {
	SubID     string `json:"subId" yaml:"subId"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect,omitempty" yaml:"isCorrect"`
}

// Question is a bank item. Key fields (CorrectAnswer, Statement.IsCorrect,
// ShortAnswerCorrect) are zero on payloads sent to the quiz runner.
type Question struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subjectId"`
	Kind        Kind   `json:"kind"`
	Text        string `json:"text"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`

	Options       map[string]string `json:"options,omitempty"`
	CorrectAnswer string            `json:"correctAnswer,omitempty"`

	Statements []Statement `json:"statements,omitempty"`

	ShortAnswerCorrect string `json:"shortAnswerCorrect,omitempty"`

	// Keyed reports whether the correctness fields are present.
	Keyed bool `json:"-"`
}

// Validate checks the display invariant and the fields required by the kind.
func (q Question) Validate() error {
	if !q.Kind.Valid() {
		return fmt.Errorf("%w: unknown question kind %q", ErrValidation, q.Kind)
	}
	if strings.TrimSpace(q.Text) == "" && strings.TrimSpace(q.ImageURL) == "" {
		return fmt.Errorf("%w: question needs text or an image", ErrValidation)
	}

	switch q.Kind {
	case KindSingleChoice:
		for _, l := range OptionLetters {
			if strings.TrimSpace(q.Options[l]) == "" {
				return fmt.Errorf("%w: option %s is empty", ErrValidation, l)
			}
		}
		if !isOptionLetter(q.CorrectAnswer) {
			return fmt.Errorf("%w: correct answer must be one of A-D", ErrValidation)
		}
	case KindTrueFalseSet:
		if len(q.Statements) == 0 {
			return fmt.Errorf("%w: true/false set needs at least one statement", ErrValidation)
		}
		seen := make(map[string]bool, len(q.Statements))
		for _, st := range q.Statements {
			if st.SubID == "" {
				return fmt.Errorf("%w: statement without subId", ErrValidation)
			}
			if seen[st.SubID] {
				return fmt.Errorf("%w: duplicate statement subId %q", ErrValidation, st.SubID)
			}
			seen[st.SubID] = true
		}
	case KindShortAnswer:
		if strings.TrimSpace(q.ShortAnswerCorrect) == "" {
			return fmt.Errorf("%w: short answer needs a canonical answer", ErrValidation)
		}
	}
	return nil
}

// Public returns a copy without the correctness-bearing fields.
func (q Question) Public() Question {
	out := q
	out.CorrectAnswer = ""
	out.ShortAnswerCorrect = ""
	out.Explanation = ""
	out.Keyed = false
	if q.Options != nil {
		out.Options = make(map[string]string, len(q.Options))
		for k, v := range q.Options {
			out.Options[k] = v
		}
	}
	if q.Statements != nil {
		out.Statements = make([]Statement, len(q.Statements))
		for i, st := range q.Statements {
			out.Statements[i] = Statement{SubID: st.SubID, Text: st.Text}
		}
	}
	return out
}

func isOptionLetter(s string) bool {
	for _, l := range OptionLetters {
		if s == l {
			return true
		}
	}
	return false
}
