package quiz

import (
	"encoding/json"
	"fmt"
)

// Answer is the tagged union of per-kind answer shapes.
type Answer interface {
	Kind() Kind
	// Encode renders the wire form used as selectedAnswerEncoded.
	Encode() (string, error)
}

// ChoiceAnswer selects one option letter of a single-choice question.
type ChoiceAnswer struct {
	Option string
}

func (ChoiceAnswer) Kind() Kind { return KindSingleChoice }

func (a ChoiceAnswer) Encode() (string, error) { return a.Option, nil }

// TrueFalseAnswer maps statement subId to the submitted boolean.
type TrueFalseAnswer struct {
	Values map[string]bool
}

func (TrueFalseAnswer) Kind() Kind { return KindTrueFalseSet }

func (a TrueFalseAnswer) Encode() (string, error) {
	values := a.Values
	if values == nil {
		values = map[string]bool{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TextAnswer is free text for a short-answer question.
type TextAnswer struct {
	Text string
}

func (TextAnswer) Kind() Kind { return KindShortAnswer }

func (a TextAnswer) Encode() (string, error) { return a.Text, nil }

// DecodeAnswer parses selectedAnswerEncoded according to the question kind.
func DecodeAnswer(kind Kind, encoded string) (Answer, error) {
	switch kind {
	case KindSingleChoice:
		return ChoiceAnswer{Option: encoded}, nil
	case KindTrueFalseSet:
		values := map[string]bool{}
		if encoded != "" {
			if err := json.Unmarshal([]byte(encoded), &values); err != nil {
				return nil, fmt.Errorf("%w: malformed true/false answer: %v", ErrValidation, err)
			}
		}
		return TrueFalseAnswer{Values: values}, nil
	case KindShortAnswer:
		return TextAnswer{Text: encoded}, nil
	default:
		return nil, fmt.Errorf("%w: unknown question kind %q", ErrValidation, kind)
	}
}
