package model

// ScaleBucket is one bar of a scale histogram
type ScaleBucket struct {
	Value   int     `json:"value"` // 1-10
	Count   int     `json:"count"`
	Height  float64 `json:"height"`  // percent, floored at 6
	Opacity float64 `json:"opacity"` // 0.7-1.0
}

// ChoiceStat is one row of a multiple-choice breakdown
type ChoiceStat struct {
	Choice  string  `json:"choice"`
	Count   int     `json:"count"`
	Percent int     `json:"percent"`
	Width   float64 `json:"width"` // percent, floored at 6
}

// QuestionChart is the aggregated view of one question.
// Exactly one of Buckets, Choices or Texts is set, matching Type.
type QuestionChart struct {
	QuestionID string        `json:"questionId"`
	Title      string        `json:"title"`
	Type       QuestionType  `json:"type"`
	Buckets    []ScaleBucket `json:"buckets,omitempty"`
	Choices    []ChoiceStat  `json:"choices,omitempty"`
	Texts      []string      `json:"texts,omitempty"`
}

// SessionInsights is what the analytics view renders
type SessionInsights struct {
	SessionID  string          `json:"sessionId"`
	Title      string          `json:"title"`
	PIN        string          `json:"pin"`
	CourseName string          `json:"courseName"`
	Responses  int             `json:"responses"`
	Waiting    bool            `json:"waiting"` // no responses yet
	Charts     []QuestionChart `json:"charts"`
}

// ShareInfo is what the share view renders
type ShareInfo struct {
	SessionID string `json:"sessionId"`
	Title     string `json:"title"`
	PIN       string `json:"pin"`
	JoinURL   string `json:"joinUrl"`
}
