package model

import "time"

// CurrentUserID identifies the single simulated student of the process
const CurrentUserID = "currentUser"

// CurrentStudentName is the display name stored on the current user's responses
const CurrentStudentName = "You"

// Response is one student's answers to a session
type Response struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	Student string  `json:"student"`
	Answers Answers `json:"answers"`
}

// Clone deep-copies the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Answers = r.Answers.Clone()
	return &out
}

// HistoryEntry is the current user's record of a submitted response.
// ID mirrors the source Response ID.
type HistoryEntry struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Course    string    `json:"course"`
	SessionID string    `json:"sessionId"`
	Session   string    `json:"session"`
	Timestamp time.Time `json:"timestamp"`
	Answers   Answers   `json:"answers"`
}

// Clone deep-copies the entry.
func (h *HistoryEntry) Clone() *HistoryEntry {
	if h == nil {
		return nil
	}
	out := *h
	out.Answers = h.Answers.Clone()
	return &out
}
