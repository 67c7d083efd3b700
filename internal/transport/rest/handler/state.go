package handler

import (
	"classpulse/internal/service"
	"net/http"
)

// StateHandler serves read-only views of the machine state
type StateHandler struct {
	flowSvc *service.FlowService
}

// NewStateHandler creates a new state handler
func NewStateHandler(flowSvc *service.FlowService) *StateHandler {
	return &StateHandler{flowSvc: flowSvc}
}

// Get handles GET /v1/state
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.flowSvc.Snapshot(r.Context()))
}

// History handles GET /v1/history
func (h *StateHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": h.flowSvc.History(r.Context()),
	})
}
