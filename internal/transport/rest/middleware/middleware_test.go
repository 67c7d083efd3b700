package middleware

import (
	"classpulse/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lecturerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsLecturer(r.Context()) {
			w.Write([]byte("lecturer"))
			return
		}
		w.Write([]byte("student"))
	})
}

func TestRequireLecturer(t *testing.T) {
	auth := service.NewAuthService("test-secret", time.Hour)
	token, err := auth.IssueLecturerToken()
	require.NoError(t, err)
	h := NewAuthMiddleware(auth).RequireLecturer(lecturerEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lecturer", rec.Body.String())
}

func TestIdentify(t *testing.T) {
	auth := service.NewAuthService("test-secret", time.Hour)
	token, err := auth.IssueLecturerToken()
	require.NoError(t, err)
	h := NewAuthMiddleware(auth).Identify(lecturerEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "student", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "lecturer", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	frozen := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return frozen }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/join/1234", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))

	// tokens refill over time
	frozen = frozen.Add(time.Minute)
	assert.True(t, l.Allow("10.0.0.1"))
}
