package seed

import (
	"classpulse/internal/model"
	"classpulse/internal/service"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo(t *testing.T) {
	ctx := context.Background()
	flow := service.NewFlowService(service.FlowConfig{JoinBaseURL: "https://poll.example/join"}, nil, nil, nil, nil)

	share, err := Demo(ctx, flow)
	require.NoError(t, err)
	assert.Len(t, share.PIN, 4)
	assert.Equal(t, "https://poll.example/join/"+share.PIN, share.JoinURL)

	snap := flow.Snapshot(ctx)
	assert.Equal(t, model.ViewLanding, snap.View)
	assert.Equal(t, model.RoleStudent, snap.Role)
	require.Len(t, snap.Courses, 1)
	assert.Equal(t, DemoCourse, snap.Courses[0].Name)
	require.Len(t, snap.Courses[0].Sessions, 1)

	questions := snap.Courses[0].Sessions[0].Questions
	require.Len(t, questions, 3)
	assert.Equal(t, model.QuestionTypeScale, questions[0].Type)
	assert.Equal(t, []string{"Recursion", "Big-O", "Linked lists"}, questions[1].Choices)
	assert.Equal(t, model.QuestionTypeText, questions[2].Type)
}

func TestWalkthrough(t *testing.T) {
	ctx := context.Background()
	flow := service.NewFlowService(service.FlowConfig{}, nil, nil, nil, nil)

	insights, err := Walkthrough(ctx, flow)
	require.NoError(t, err)
	assert.Equal(t, DemoCourse, insights.CourseName)
	assert.Equal(t, 1, insights.Responses)
	assert.False(t, insights.Waiting)

	require.Len(t, insights.Charts, 1)
	chart := insights.Charts[0]
	assert.Equal(t, "Clarity", chart.Title)
	require.Len(t, chart.Buckets, model.ScaleMax)
	for _, b := range chart.Buckets {
		want := 0
		if b.Value == 6 {
			want = 1
		}
		assert.Equal(t, want, b.Count, "bucket %d", b.Value)
	}

	history := flow.History(ctx)
	require.Len(t, history, 1)
	assert.Equal(t, model.ScaleAnswer(6), history[0].Answers[chart.QuestionID])
	assert.Equal(t, model.ViewHistory, flow.Snapshot(ctx).View)
}
