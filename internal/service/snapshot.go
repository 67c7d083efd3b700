package service

import (
	"classpulse/internal/model"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Snapshot returns a deep copy of the current state for rendering
func (s *FlowService) Snapshot(ctx context.Context) *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

func (s *FlowService) snapshotLocked(ctx context.Context) *model.Snapshot {
	st := s.state
	snap := &model.Snapshot{
		View:         st.View,
		PreviousView: st.PreviousView,
		Role:         st.Role,
		PIN:          st.PIN,
		Courses:      make([]*model.Course, len(st.Courses)),
		History:      cloneHistory(st.History),
		Answers:      st.Answers.Clone(),
		DraftCourse:  st.DraftCourse,
		Builder:      st.Builder,
	}
	for i, c := range st.Courses {
		snap.Courses[i] = c.Clone()
	}
	if st.Preview != nil {
		p := st.Preview.Clone()
		snap.Preview = &p
	}
	if st.ActiveCourse != nil {
		snap.ActiveCourseID = st.ActiveCourse.ID
	}
	if st.ActiveSession != nil {
		snap.ActiveSessionID = st.ActiveSession.ID
	}
	if st.EditingEntry != nil {
		snap.EditingEntryID = st.EditingEntry.ID
	}

	switch {
	case st.View == model.ViewAnalytics && st.ActiveSession != nil:
		snap.Insights = s.analytics.SessionInsights(st.CourseOf(st.ActiveSession), st.ActiveSession)
	case st.View == model.ViewShare && st.ActiveSession != nil:
		snap.Share = s.shareInfo(st.ActiveSession)
	}

	notice, err := s.notices.Current(ctx)
	if err != nil {
		s.logger.Warn("failed to read notice", zap.Error(err))
	}
	snap.Notice = notice
	return snap
}

// History returns the current user's history entries, newest first
func (s *FlowService) History(_ context.Context) []*model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHistory(s.state.History)
}

// Insights computes the analytics view for any session
func (s *FlowService) Insights(_ context.Context, sessionID string) (*model.SessionInsights, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.state.FindSessionByID(sessionID)
	if session == nil {
		return nil, fmt.Errorf("insights for %q: %w", sessionID, ErrSessionNotFound)
	}
	return s.analytics.SessionInsights(s.state.CourseOf(session), session), nil
}

// ShareInfo returns the join details for any session
func (s *FlowService) ShareInfo(_ context.Context, sessionID string) (*model.ShareInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.state.FindSessionByID(sessionID)
	if session == nil {
		return nil, fmt.Errorf("share %q: %w", sessionID, ErrSessionNotFound)
	}
	return s.shareInfo(session), nil
}

func (s *FlowService) shareInfo(session *model.Session) *model.ShareInfo {
	return &model.ShareInfo{
		SessionID: session.ID,
		Title:     session.Title,
		PIN:       session.PIN,
		JoinURL:   JoinURL(s.cfg.JoinBaseURL, session.PIN),
	}
}

// JoinURL is the link a student follows to join by PIN
func JoinURL(base, pin string) string {
	return strings.TrimRight(base, "/") + "/" + pin
}

func cloneHistory(history []*model.HistoryEntry) []*model.HistoryEntry {
	out := make([]*model.HistoryEntry, len(history))
	for i, h := range history {
		out[i] = h.Clone()
	}
	return out
}
