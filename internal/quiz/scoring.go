package quiz

import (
	"fmt"
	"strings"
)

// ItemResult is the graded outcome of one presented question.
type ItemResult struct {
	QuestionID     string  `json:"questionId"`
	SelectedAnswer string  `json:"selectedAnswer"`
	IsCorrect      bool    `json:"isCorrect"`
	Weight         float64 `json:"weight"`
	Answered       bool    `json:"answered"`
}

type Result struct {
	Score float64      `json:"score"`
	Total int          `json:"total"`
	Items []ItemResult `json:"items"`
}

// Grade returns the credit (0..1) earned by a on q. A nil answer earns nothing.
func Grade(q Question, a Answer) (float64, bool, error) {
	if a == nil {
		return 0, false, nil
	}
	if a.Kind() != q.Kind {
		return 0, false, fmt.Errorf("%w: %s answer given for %s question %s", ErrValidation, a.Kind(), q.Kind, q.ID)
	}

	switch ans := a.(type) {
	case ChoiceAnswer:
		if ans.Option == q.CorrectAnswer {
			return 1, true, nil
		}
		return 0, false, nil
	case TrueFalseAnswer:
		n := len(q.Statements)
		if n == 0 {
			return 0, false, nil
		}
		k := 0
		for _, st := range q.Statements {
			v, ok := ans.Values[st.SubID]
			if ok && v == st.IsCorrect {
				k++
			}
		}
		return float64(k) / float64(n), k == n, nil
	case TextAnswer:
		if ShortAnswerMatches(ans.Text, q.ShortAnswerCorrect) {
			return 1, true, nil
		}
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("%w: unsupported answer type %T", ErrValidation, a)
	}
}

// ShortAnswerMatches compares trimmed values under Unicode case folding.
func ShortAnswerMatches(given, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(canonical))
}

// Score grades the presented questions in order. Answers keyed by ids outside
// the presented set are rejected.
func Score(presented []Question, answers map[string]Answer) (*Result, error) {
	known := make(map[string]bool, len(presented))
	for _, q := range presented {
		known[q.ID] = true
	}
	for id := range answers {
		if !known[id] {
			return nil, fmt.Errorf("%w: answer for question %s that was not presented", ErrValidation, id)
		}
	}

	res := &Result{Total: len(presented), Items: make([]ItemResult, 0, len(presented))}
	for _, q := range presented {
		a, answered := answers[q.ID]
		item := ItemResult{QuestionID: q.ID, Answered: answered}
		if answered {
			enc, err := a.Encode()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			item.SelectedAnswer = enc
		}
		w, ok, err := Grade(q, a)
		if err != nil {
			return nil, err
		}
		item.Weight = w
		item.IsCorrect = ok
		res.Score += w
		res.Items = append(res.Items, item)
	}
	return res, nil
}
