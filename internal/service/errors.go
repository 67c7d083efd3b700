package service

import (
	"classpulse/internal/model"
	"errors"
)

var (
	ErrBlankCourseName     = errors.New("course name is blank")
	ErrSessionNotFound     = errors.New("session not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrEntryNotFound       = errors.New("history entry not found")
	ErrEntrySessionMissing = errors.New("session for history entry not found")
	ErrInvalidAnswer       = model.ErrInvalidAnswer
	ErrUnknownQuestion     = errors.New("question not in active session")
	ErrLecturerOnly        = errors.New("lecturer area only")
	ErrNothingToJoin       = errors.New("no sessions to join")
	ErrNoSubmissions       = errors.New("no submissions yet")
	ErrUnknownAction       = errors.New("unknown action")
	ErrInvalidBuilder      = errors.New("invalid builder form")
	ErrInvalidToken        = errors.New("invalid or expired token")
)
