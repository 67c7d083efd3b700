package middleware

import (
	"classpulse/internal/service"
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	LecturerKey contextKey = "lecturer"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireLecturer validates the lecturer JWT from the Authorization header
func (m *AuthMiddleware) RequireLecturer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeUnauthorized(w, "missing authorization header")
			return
		}

		if _, err := m.authSvc.ValidateLecturerToken(token); err != nil {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), LecturerKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Identify marks the request as lecturer when a valid token is present.
// Requests without a token pass through as students.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := m.authSvc.ValidateLecturerToken(token); err != nil {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), LecturerKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsLecturer reports whether the request carried a valid lecturer token
func IsLecturer(ctx context.Context) bool {
	v, _ := ctx.Value(LecturerKey).(bool)
	return v
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
