// Package seed drives the flow machine through scripted action sequences.
// Everything goes through Dispatch so seeded state obeys the same rules as
// client input.
package seed

import (
	"classpulse/internal/model"
	"classpulse/internal/service"
	"context"
	"errors"
	"fmt"
)

// DemoCourse is the course name used by Demo and Walkthrough
const DemoCourse = "Intro CS"

var errNoSession = errors.New("seed: no active session after create_session")

func run(ctx context.Context, flow *service.FlowService, actions ...service.Action) error {
	for _, a := range actions {
		if _, err := flow.Dispatch(ctx, a); err != nil {
			return fmt.Errorf("seed %s: %w", a.ActionType(), err)
		}
	}
	return nil
}

// createSession signs in, creates a course and one session holding the given
// questions, then signs out. It returns the new session's share details.
func createSession(ctx context.Context, flow *service.FlowService, course string, questions []service.SetBuilder) (*model.ShareInfo, error) {
	if err := run(ctx, flow,
		service.SignIn{},
		service.SetDraftCourseName{Name: course},
		service.CreateCourse{},
		service.CreateSession{},
	); err != nil {
		return nil, err
	}

	sessionID := flow.Snapshot(ctx).ActiveSessionID
	if sessionID == "" {
		return nil, errNoSession
	}

	for _, q := range questions {
		if err := run(ctx, flow, q, service.SaveQuestion{}); err != nil {
			return nil, err
		}
	}
	if err := run(ctx, flow, service.CloseBuilder{}, service.SignOut{}); err != nil {
		return nil, err
	}
	return flow.ShareInfo(ctx, sessionID)
}

// Demo preloads a course with one session covering every question type
func Demo(ctx context.Context, flow *service.FlowService) (*model.ShareInfo, error) {
	return createSession(ctx, flow, DemoCourse, []service.SetBuilder{
		{Type: model.QuestionTypeScale, Title: "How clear was today's lecture?"},
		{Type: model.QuestionTypeMultiple, Title: "Which topics need another pass?", Options: "Recursion, Big-O, Linked lists"},
		{Type: model.QuestionTypeText, Title: "Anything else?"},
	})
}

// Walkthrough runs the classic end-to-end scenario: a lecturer creates a
// scale question, a student answers 8 and then edits the answer to 6. It
// returns the resulting insights.
func Walkthrough(ctx context.Context, flow *service.FlowService) (*model.SessionInsights, error) {
	share, err := createSession(ctx, flow, DemoCourse, []service.SetBuilder{
		{Type: model.QuestionTypeScale, Title: "Clarity"},
	})
	if err != nil {
		return nil, err
	}

	if err := run(ctx, flow, service.JoinByPin{PIN: share.PIN}); err != nil {
		return nil, err
	}
	qid, err := firstQuestion(ctx, flow, share.SessionID)
	if err != nil {
		return nil, err
	}

	if err := run(ctx, flow,
		service.SetAnswer{QuestionID: qid, Answer: model.ScaleAnswer(8)},
		service.SubmitAnswers{},
		service.EditLatest{},
		service.SetAnswer{QuestionID: qid, Answer: model.ScaleAnswer(6)},
		service.SaveEdits{},
	); err != nil {
		return nil, err
	}

	return flow.Insights(ctx, share.SessionID)
}

func firstQuestion(ctx context.Context, flow *service.FlowService, sessionID string) (string, error) {
	for _, c := range flow.Snapshot(ctx).Courses {
		for _, s := range c.Sessions {
			if s.ID == sessionID && len(s.Questions) > 0 {
				return s.Questions[0].ID, nil
			}
		}
	}
	return "", fmt.Errorf("seed: session %q has no questions", sessionID)
}
