package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeScale    QuestionType = "scale"    // 1-10 slider
	QuestionTypeMultiple QuestionType = "multiple" // pick any of Choices
	QuestionTypeText     QuestionType = "text"     // free text
)

// Scale bounds shared by the answer codec and the histogram.
const (
	ScaleMin     = 1
	ScaleMax     = 10
	ScaleDefault = 5
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeScale, QuestionTypeMultiple, QuestionTypeText:
		return true
	}
	return false
}

// Question is a prompt attached to a session. Choices is only set for
// multiple-choice questions.
type Question struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Type    QuestionType `json:"type"`
	Choices []string     `json:"choices,omitempty"`
}

// HasChoice reports whether choice is one of the question's options.
func (q Question) HasChoice(choice string) bool {
	for _, c := range q.Choices {
		if c == choice {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	if q.Choices != nil {
		q.Choices = append([]string(nil), q.Choices...)
	}
	return q
}

// BuilderForm is the in-progress question form in the builder view
type BuilderForm struct {
	Type    QuestionType `json:"type"`
	Title   string       `json:"title"`
	Options string       `json:"options"` // comma separated, multiple only
}

// DefaultBuilderForm is the form state after a reset.
func DefaultBuilderForm() BuilderForm {
	return BuilderForm{Type: QuestionTypeScale}
}
