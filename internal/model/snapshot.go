package model

// Snapshot is a deep copy of the machine state, enough for a full redraw
type Snapshot struct {
	View         View            `json:"view"`
	PreviousView View            `json:"previousView"`
	Role         Role            `json:"role"`
	PIN          string          `json:"pin"`
	Courses      []*Course       `json:"courses"`
	History      []*HistoryEntry `json:"history"`
	Answers      Answers         `json:"answers"` // edit buffer
	DraftCourse  string          `json:"draftCourse"`
	Builder      BuilderForm     `json:"builder"`
	Preview      *Question       `json:"preview,omitempty"`
	Notice       string          `json:"notice,omitempty"`

	ActiveCourseID  string `json:"activeCourseId,omitempty"`
	ActiveSessionID string `json:"activeSessionId,omitempty"`
	EditingEntryID  string `json:"editingEntryId,omitempty"`

	Insights *SessionInsights `json:"insights,omitempty"` // analytics view only
	Share    *ShareInfo       `json:"share,omitempty"`    // share view only
}
