package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidAnswer is returned when a value does not fit its question
var ErrInvalidAnswer = errors.New("invalid answer")

// Answer is the value a student gives for one question. It is one of
// ScaleAnswer, ChoiceAnswer or TextAnswer.
type Answer interface {
	Kind() QuestionType
	isAnswer()
}

// ScaleAnswer is a 1-10 rating
type ScaleAnswer int

// ChoiceAnswer is the set of options picked on a multiple-choice question
type ChoiceAnswer []string

// TextAnswer is free text
type TextAnswer string

func (ScaleAnswer) Kind() QuestionType  { return QuestionTypeScale }
func (ChoiceAnswer) Kind() QuestionType { return QuestionTypeMultiple }
func (TextAnswer) Kind() QuestionType   { return QuestionTypeText }

func (ScaleAnswer) isAnswer()  {}
func (ChoiceAnswer) isAnswer() {}
func (TextAnswer) isAnswer()   {}

// InRange reports whether the rating is within ScaleMin..ScaleMax.
func (a ScaleAnswer) InRange() bool {
	return a >= ScaleMin && a <= ScaleMax
}

// Contains reports whether choice was picked.
func (a ChoiceAnswer) Contains(choice string) bool {
	for _, c := range a {
		if c == choice {
			return true
		}
	}
	return false
}

// Toggle returns a new set with choice added, or removed if already present.
func (a ChoiceAnswer) Toggle(choice string) ChoiceAnswer {
	out := make(ChoiceAnswer, 0, len(a)+1)
	found := false
	for _, c := range a {
		if c == choice {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, choice)
	}
	return out
}

// Dedupe returns a copy with repeated choices dropped, first pick kept.
func (a ChoiceAnswer) Dedupe() ChoiceAnswer {
	out := make(ChoiceAnswer, 0, len(a))
	for _, c := range a {
		if !out.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// DefaultAnswer is the value the edit buffer starts with for a fresh join.
func DefaultAnswer(q Question) Answer {
	switch q.Type {
	case QuestionTypeMultiple:
		return ChoiceAnswer{}
	case QuestionTypeText:
		return TextAnswer("")
	default:
		return ScaleAnswer(ScaleDefault)
	}
}

// ValidateAnswer checks that a fits q's type, bounds and options.
func ValidateAnswer(q Question, a Answer) error {
	if a == nil || a.Kind() != q.Type {
		return fmt.Errorf("%w: question %q expects %s", ErrInvalidAnswer, q.ID, q.Type)
	}
	switch ans := a.(type) {
	case ScaleAnswer:
		if !ans.InRange() {
			return fmt.Errorf("%w: scale value %d outside %d..%d", ErrInvalidAnswer, ans, ScaleMin, ScaleMax)
		}
	case ChoiceAnswer:
		for _, c := range ans {
			if !q.HasChoice(c) {
				return fmt.Errorf("%w: %q is not an option of question %q", ErrInvalidAnswer, c, q.ID)
			}
		}
	}
	return nil
}

// DecodeAnswer parses the wire form of an answer against its question:
// a number for scale, an array of strings for multiple, a string for text.
func DecodeAnswer(q Question, raw json.RawMessage) (Answer, error) {
	var a Answer
	switch q.Type {
	case QuestionTypeScale:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		a = ScaleAnswer(n)
	case QuestionTypeMultiple:
		var choices []string
		if err := json.Unmarshal(raw, &choices); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		a = ChoiceAnswer(choices).Dedupe()
	case QuestionTypeText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		a = TextAnswer(s)
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrInvalidAnswer, q.Type)
	}
	if err := ValidateAnswer(q, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Answers maps question ID to answer
type Answers map[string]Answer

// Clone deep-copies the map so edit buffers never alias stored responses.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for id, v := range a {
		if c, ok := v.(ChoiceAnswer); ok {
			v = append(ChoiceAnswer{}, c...)
		}
		out[id] = v
	}
	return out
}

// MarshalJSON writes each answer in its wire form.
func (a Answers) MarshalJSON() ([]byte, error) {
	wire := make(map[string]interface{}, len(a))
	for id, v := range a {
		switch ans := v.(type) {
		case ScaleAnswer:
			wire[id] = int(ans)
		case ChoiceAnswer:
			if ans == nil {
				ans = ChoiceAnswer{}
			}
			wire[id] = []string(ans)
		case TextAnswer:
			wire[id] = string(ans)
		case nil:
			wire[id] = nil
		}
	}
	return json.Marshal(wire)
}
