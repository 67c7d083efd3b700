package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classpulse/internal/model"
)

func fixture() *State {
	s := New()
	s.Courses = []*model.Course{
		{ID: "c1", Name: "Intro CS", Code: "IC-100", Sessions: []*model.Session{
			{ID: "s2", Title: "Session 2", PIN: "4242"},
			{ID: "s1", Title: "Session 1", PIN: "1111"},
		}},
		{ID: "c2", Name: "Databases", Code: "D-200", Sessions: []*model.Session{
			{ID: "s3", Title: "Session 1", PIN: "4242"},
		}},
	}
	return s
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, model.ViewLanding, s.View)
	assert.Equal(t, model.ViewSessions, s.PreviousView)
	assert.Equal(t, model.RoleStudent, s.Role)
	assert.Empty(t, s.Courses)
	assert.Empty(t, s.History)
	assert.Equal(t, model.BuilderForm{Type: model.QuestionTypeScale}, s.Builder)
}

func TestFindSessionByPin(t *testing.T) {
	s := fixture()

	got := s.FindSessionByPin(" 1111 ")
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.ID)

	// colliding PINs resolve to the first course in order
	got = s.FindSessionByPin("4242")
	require.NotNil(t, got)
	assert.Equal(t, "s2", got.ID)

	assert.Nil(t, s.FindSessionByPin("9999"))
	assert.Nil(t, s.FindSessionByPin("   "))
}

func TestFindSessionByIDAndTitle(t *testing.T) {
	s := fixture()

	require.NotNil(t, s.FindSessionByID("s3"))
	assert.Equal(t, "4242", s.FindSessionByID("s3").PIN)
	assert.Nil(t, s.FindSessionByID("nope"))

	got := s.FindSessionByTitle("Session 1")
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.ID)
}

func TestCourseOf(t *testing.T) {
	s := fixture()

	assert.Equal(t, "c2", s.CourseOf(s.FindSessionByID("s3")).ID)
	assert.Nil(t, s.CourseOf(&model.Session{ID: "s3"}), "lookup is by identity")
	assert.Nil(t, s.CourseOf(nil))
}

func TestSessionInCourse(t *testing.T) {
	s := fixture()

	assert.NotNil(t, SessionInCourse(s.Courses[0], "s1"))
	assert.Nil(t, SessionInCourse(s.Courses[0], "s3"))
	assert.Nil(t, SessionInCourse(nil, "s1"))
}

func TestUserResponse(t *testing.T) {
	s := fixture()
	sess := s.FindSessionByID("s1")
	sess.Responses = []*model.Response{
		{ID: "r1", UserID: "someoneElse"},
		{ID: "r2", UserID: model.CurrentUserID},
	}

	got := s.UserResponse(sess)
	require.NotNil(t, got)
	assert.Equal(t, "r2", got.ID)
	assert.Nil(t, s.UserResponse(s.FindSessionByID("s2")))
}

func TestUpsertHistory(t *testing.T) {
	s := New()
	first := s.UpsertHistory(&model.HistoryEntry{ID: "r1", SessionID: "s1", Session: "Session 1"})
	s.UpsertHistory(&model.HistoryEntry{ID: "r2", SessionID: "s2"})

	require.Len(t, s.History, 2)
	assert.Equal(t, "r2", s.History[0].ID, "new entries are prepended")

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.UpsertHistory(&model.HistoryEntry{ID: "r1", SessionID: "s1", Session: "Session 1", Timestamp: ts})

	require.Len(t, s.History, 2)
	assert.Same(t, first, s.History[1], "existing entries are updated in place")
	assert.Equal(t, ts, s.History[1].Timestamp)
}

func TestRemoveResponse(t *testing.T) {
	sess := &model.Session{Responses: []*model.Response{
		{ID: "r1", UserID: "other"},
		{ID: "r2", UserID: model.CurrentUserID},
		{ID: "r3", UserID: "other"},
	}}

	assert.True(t, RemoveResponse(sess, "r3", model.CurrentUserID))
	// r2 matches on user before r3 matches on id
	require.Len(t, sess.Responses, 2)
	assert.Equal(t, "r1", sess.Responses[0].ID)
	assert.Equal(t, "r3", sess.Responses[1].ID)

	assert.False(t, RemoveResponse(sess, "missing", "nobody"))
	assert.False(t, RemoveResponse(nil, "r1", ""))
}

func TestCounts(t *testing.T) {
	s := fixture()
	s.FindSessionByID("s1").Responses = []*model.Response{{ID: "r1"}, {ID: "r2"}}

	courses, sessions, responses := s.Counts()
	assert.Equal(t, 2, courses)
	assert.Equal(t, 3, sessions)
	assert.Equal(t, 2, responses)
}
