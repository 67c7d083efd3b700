package handler

import (
	"classpulse/internal/model"
	"classpulse/internal/service"
	"classpulse/internal/transport/rest/middleware"
	"errors"
	"io"
	"net/http"
)

const maxActionBody = 64 << 10

// ActionHandler feeds client actions into the flow machine
type ActionHandler struct {
	flowSvc     *service.FlowService
	joinLimiter *middleware.RateLimiter
}

// NewActionHandler creates a new action handler. PIN joins share
// joinLimiter with GET /join/{pin}; nil disables the limit.
func NewActionHandler(flowSvc *service.FlowService, joinLimiter *middleware.RateLimiter) *ActionHandler {
	return &ActionHandler{flowSvc: flowSvc, joinLimiter: joinLimiter}
}

// DispatchResponse is returned after a successful dispatch
type DispatchResponse struct {
	Result *service.Result `json:"result"`
	State  *model.Snapshot `json:"state"`
}

// Dispatch handles POST /v1/actions
func (h *ActionHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := service.DecodeAction(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if service.LecturerOnly(action) && !middleware.IsLecturer(r.Context()) {
		writeError(w, http.StatusUnauthorized, "lecturer token required")
		return
	}
	if h.joinLimiter != nil && isJoin(action) && !h.joinLimiter.Allow(middleware.ClientIP(r)) {
		middleware.WriteTooManyRequests(w)
		return
	}

	result, err := h.flowSvc.Dispatch(r.Context(), action)
	if err != nil {
		writeDispatchError(w, err, result)
		return
	}

	writeJSON(w, http.StatusOK, &DispatchResponse{
		Result: result,
		State:  result.State,
	})
}

func isJoin(a service.Action) bool {
	switch a.(type) {
	case service.JoinByPin, service.ScanJoin:
		return true
	}
	return false
}

// ErrorResponse carries the error and the notice shown to the user
type ErrorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

func writeDispatchError(w http.ResponseWriter, err error, result *service.Result) {
	resp := ErrorResponse{Error: err.Error()}
	if result != nil {
		resp.Notice = result.Notice
	}
	writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrEntrySessionMissing),
		errors.Is(err, service.ErrUnknownQuestion):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLecturerOnly),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
