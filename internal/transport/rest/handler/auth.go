package handler

import (
	"classpulse/internal/service"
	"encoding/json"
	"net/http"
)

// AuthHandler handles the demo lecturer sign-in
type AuthHandler struct {
	authSvc *service.AuthService
	flowSvc *service.FlowService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, flowSvc *service.FlowService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, flowSvc: flowSvc}
}

// SignIn handles POST /v1/auth/signin. No credentials are checked.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.flowSvc.Dispatch(r.Context(), service.SignIn{})
	if err != nil {
		writeDispatchError(w, err, result)
		return
	}

	resp, err := h.authSvc.IssueLecturerToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	resp.State = result.State

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
