package store

import (
	"strings"

	"classpulse/internal/model"
)

// State is the single aggregate the flow machine owns. It is not safe for
// concurrent use; callers serialise access.
type State struct {
	View         model.View
	PreviousView model.View
	Role         model.Role

	Courses []*model.Course
	History []*model.HistoryEntry // newest first

	ActiveCourse  *model.Course
	ActiveSession *model.Session
	EditingEntry  *model.HistoryEntry

	PIN         string
	Answers     model.Answers // edit buffer
	DraftCourse string
	Builder     model.BuilderForm
	Preview     *model.Question
}

// New returns the initial state: landing view, student role, nothing created.
func New() *State {
	return &State{
		View:         model.ViewLanding,
		PreviousView: model.ViewSessions,
		Role:         model.RoleStudent,
		Courses:      []*model.Course{},
		History:      []*model.HistoryEntry{},
		Answers:      model.Answers{},
		Builder:      model.DefaultBuilderForm(),
	}
}

// FindSessionByPin returns the first session, in course then session order,
// whose PIN equals the trimmed input. PINs are not unique; first match wins.
func (s *State) FindSessionByPin(pin string) *model.Session {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil
	}
	return s.findSession(func(sess *model.Session) bool { return sess.PIN == pin })
}

// FindSessionByID returns the session with the given ID.
func (s *State) FindSessionByID(id string) *model.Session {
	return s.findSession(func(sess *model.Session) bool { return sess.ID == id })
}

// FindSessionByTitle returns the first session with the given title.
func (s *State) FindSessionByTitle(title string) *model.Session {
	return s.findSession(func(sess *model.Session) bool { return sess.Title == title })
}

func (s *State) findSession(match func(*model.Session) bool) *model.Session {
	for _, c := range s.Courses {
		for _, sess := range c.Sessions {
			if match(sess) {
				return sess
			}
		}
	}
	return nil
}

// FindCourse returns the course with the given ID.
func (s *State) FindCourse(id string) *model.Course {
	for _, c := range s.Courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CourseOf returns the course that owns session.
func (s *State) CourseOf(session *model.Session) *model.Course {
	if session == nil {
		return nil
	}
	for _, c := range s.Courses {
		for _, sess := range c.Sessions {
			if sess == session {
				return c
			}
		}
	}
	return nil
}

// SessionInCourse returns the session with id only if course owns it.
func SessionInCourse(course *model.Course, id string) *model.Session {
	if course == nil {
		return nil
	}
	for _, sess := range course.Sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// UserResponse returns the current user's response to session, if any.
func (s *State) UserResponse(session *model.Session) *model.Response {
	if session == nil {
		return nil
	}
	for _, r := range session.Responses {
		if r.UserID == model.CurrentUserID {
			return r
		}
	}
	return nil
}

// HistoryEntry returns the index and entry with the given ID, or -1 and nil.
func (s *State) HistoryEntry(id string) (int, *model.HistoryEntry) {
	for i, h := range s.History {
		if h.ID == id {
			return i, h
		}
	}
	return -1, nil
}

// UpsertHistory replaces the entry with the same session and ID in place,
// or prepends it when it is new. The stored entry is returned.
func (s *State) UpsertHistory(entry *model.HistoryEntry) *model.HistoryEntry {
	for _, h := range s.History {
		if h.SessionID == entry.SessionID && h.ID == entry.ID {
			*h = *entry
			return h
		}
	}
	s.History = append([]*model.HistoryEntry{entry}, s.History...)
	return entry
}

// RemoveHistory drops the entry at index i.
func (s *State) RemoveHistory(i int) {
	if i < 0 || i >= len(s.History) {
		return
	}
	s.History = append(s.History[:i], s.History[i+1:]...)
}

// RemoveResponse deletes the first response in session whose ID is id or
// whose user is userID. It reports whether one was removed.
func RemoveResponse(session *model.Session, id, userID string) bool {
	if session == nil {
		return false
	}
	for i, r := range session.Responses {
		if r.ID == id || r.UserID == userID {
			session.Responses = append(session.Responses[:i], session.Responses[i+1:]...)
			return true
		}
	}
	return false
}

// Counts returns the number of courses, sessions and responses held.
func (s *State) Counts() (courses, sessions, responses int) {
	courses = len(s.Courses)
	for _, c := range s.Courses {
		sessions += len(c.Sessions)
		for _, sess := range c.Sessions {
			responses += len(sess.Responses)
		}
	}
	return courses, sessions, responses
}
