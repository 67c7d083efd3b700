package rest

import (
	"bytes"
	"classpulse/internal/model"
	"classpulse/internal/service"
	"classpulse/internal/transport/rest/middleware"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	flow    *service.FlowService
	auth    *service.AuthService
	token   string
}

// newTestServer seeds one course with one scale session. Every PIN is 1000.
func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()
	seq := 0
	codes := service.NewCodesWith(
		func(int) int { return 0 },
		func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	)
	flow := service.NewFlowService(service.FlowConfig{JoinBaseURL: "https://poll.example/join"}, nil, codes, nil, nil)
	reg := prometheus.NewRegistry()
	flow.SetMetrics(service.NewMetrics(reg))

	ctx := context.Background()
	for _, a := range []service.Action{
		service.SignIn{},
		service.SetDraftCourseName{Name: "Intro CS"},
		service.CreateCourse{},
		service.CreateSession{},
		service.SetBuilder{Type: model.QuestionTypeScale, Title: "Clarity"},
		service.SaveQuestion{},
		service.GoHome{},
	} {
		_, err := flow.Dispatch(ctx, a)
		require.NoError(t, err)
	}

	auth := service.NewAuthService("router-test-secret", time.Hour)
	token, err := auth.IssueLecturerToken()
	require.NoError(t, err)

	h := NewRouter(&Container{
		FlowService:     flow,
		AuthService:     auth,
		MetricsGatherer: reg,
		JoinLimiter:     limiter,
		AllowedOrigins:  []string{"https://app.example"},
	})
	return &testServer{handler: h, flow: flow, auth: auth, token: token.Token}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type stateBody struct {
	View   string `json:"view"`
	Role   string `json:"role"`
	PIN    string `json:"pin"`
	Notice string `json:"notice"`
}

type dispatchBody struct {
	Result struct {
		Action  string `json:"action"`
		View    string `json:"view"`
		Notice  string `json:"notice"`
		Changed bool   `json:"changed"`
	} `json:"result"`
	State stateBody `json:"state"`
}

type errorBody struct {
	Error  string `json:"error"`
	Notice string `json:"notice"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetState(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodGet, "/v1/state", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[stateBody](t, rec)
	assert.Equal(t, string(model.ViewLanding), body.View)
	assert.Equal(t, string(model.RoleStudent), body.Role)
}

func TestDispatchStudentFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/v1/actions", `{"type":"join_by_pin","pin":" 1000 "}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[dispatchBody](t, rec)
	assert.Equal(t, "join_by_pin", body.Result.Action)
	assert.True(t, body.Result.Changed)
	assert.Equal(t, string(model.ViewStudentSession), body.State.View)

	rec = s.do(http.MethodPost, "/v1/actions", `{"type":"set_answer","questionId":"id-3","value":8}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/v1/actions", `{"type":"submit_answers"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode[dispatchBody](t, rec)
	assert.Equal(t, "Feedback saved", body.Result.Notice)
	assert.Equal(t, string(model.ViewCompletion), body.State.View)

	rec = s.do(http.MethodGet, "/v1/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		History []struct {
			Session string `json:"session"`
		} `json:"history"`
	}](t, rec)
	require.Len(t, history.History, 1)
}

func TestDispatchErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		token  string
		status int
		notice string
	}{
		{name: "malformed", body: `{"type":`, status: http.StatusBadRequest},
		{name: "unknown type", body: `{"type":"launch_rocket"}`, status: http.StatusBadRequest},
		{name: "missing field", body: `{"type":"open_history_entry"}`, status: http.StatusBadRequest},
		{name: "unknown pin", body: `{"type":"join_by_pin","pin":"9999"}`, status: http.StatusNotFound, notice: "Session not found. Check the PIN."},
		{name: "unknown entry", body: `{"type":"open_history_entry","entryId":"nope"}`, status: http.StatusNotFound, notice: "Response not found."},
		{name: "no submissions", body: `{"type":"edit_latest"}`, status: http.StatusBadRequest, notice: "No submissions yet."},
		{name: "student opens courses", body: `{"type":"open_courses"}`, status: http.StatusUnauthorized, notice: "Lecturer area only. Sign in with WebSSO first."},
		{name: "lecturer action without token", body: `{"type":"create_course"}`, status: http.StatusUnauthorized},
		{name: "lecturer action bad token", body: `{"type":"create_course"}`, token: "garbage", status: http.StatusUnauthorized},
		{name: "blank course", body: `{"type":"create_course"}`, token: s.token, status: http.StatusBadRequest, notice: "Please add a course name."},
		{name: "bad builder type", body: `{"type":"set_builder","questionType":"essay"}`, token: s.token, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/v1/actions", tt.body, tt.token)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[errorBody](t, rec)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.notice, body.Notice)
		})
	}
}

func TestDispatchLecturerAction(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/v1/actions", `{"type":"set_draft_course_name","name":"Data Structures"}`, s.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/v1/actions", `{"type":"create_course"}`, s.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[dispatchBody](t, rec)
	assert.True(t, strings.HasPrefix(body.Result.Notice, "Course created (DS-"), body.Result.Notice)
}

func TestSignIn(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/v1/auth/signin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Token     string    `json:"token"`
		ExpiresAt int64     `json:"expiresAt"`
		State     stateBody `json:"state"`
	}](t, rec)
	assert.NotEmpty(t, body.Token)
	assert.Greater(t, body.ExpiresAt, time.Now().Unix())
	assert.Equal(t, string(model.RoleLecturer), body.State.Role)
	assert.Equal(t, string(model.ViewCourses), body.State.View)
	assert.Equal(t, "Signed in via WebSSO (demo)", body.State.Notice)

	_, err := s.auth.ValidateLecturerToken(body.Token)
	assert.NoError(t, err)
}

func TestSessionRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/v1/sessions/id-2/insights", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/v1/sessions/id-2/insights", "", s.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	insights := decode[model.SessionInsights](t, rec)
	assert.Equal(t, "Session 1", insights.Title)
	assert.Equal(t, "Intro CS", insights.CourseName)
	assert.True(t, insights.Waiting)
	require.Len(t, insights.Charts, 1)
	assert.Len(t, insights.Charts[0].Buckets, model.ScaleMax)

	rec = s.do(http.MethodGet, "/v1/sessions/nope/insights", "", s.token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/v1/sessions/id-2/share", "", s.token)
	require.Equal(t, http.StatusOK, rec.Code)
	share := decode[model.ShareInfo](t, rec)
	assert.Equal(t, "1000", share.PIN)
	assert.Equal(t, "https://poll.example/join/1000", share.JoinURL)

	rec = s.do(http.MethodGet, "/v1/sessions/id-2/qr.png", "", s.token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = s.do(http.MethodGet, "/v1/sessions/nope/qr.png", "", s.token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinLink(t *testing.T) {
	s := newTestServer(t, middleware.NewRateLimiter(60, 2))

	rec := s.do(http.MethodGet, "/join/1000", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[dispatchBody](t, rec)
	assert.Equal(t, "Joined Session 1", body.Result.Notice)
	assert.Equal(t, "1000", body.State.PIN)

	rec = s.do(http.MethodGet, "/join/4242", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/join/1000", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestJoinActionsShareRateLimit(t *testing.T) {
	s := newTestServer(t, middleware.NewRateLimiter(1, 1))

	rec := s.do(http.MethodPost, "/v1/actions", `{"type":"join_by_pin","pin":"4242"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, body := range []string{`{"type":"join_by_pin","pin":"4243"}`, `{"type":"scan_join"}`} {
		rec = s.do(http.MethodPost, "/v1/actions", body, "")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, body)
		assert.Equal(t, "Too many join attempts. Try again shortly.", decode[errorBody](t, rec).Notice)
	}

	rec = s.do(http.MethodGet, "/join/1000", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "link and action joins share one budget")

	rec = s.do(http.MethodPost, "/v1/actions", `{"type":"help"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code, "other actions are not limited")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodPost, "/v1/actions", `{"type":"help"}`, "")

	rec := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `classpulse_actions_total{action="help",outcome="noop"} 1`)
	assert.Contains(t, rec.Body.String(), "classpulse_courses 1")
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions/id-2/insights", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
