package handler

import (
	"classpulse/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// JoinHandler handles the link encoded in a session's QR code
type JoinHandler struct {
	flowSvc *service.FlowService
}

// NewJoinHandler creates a new join handler
func NewJoinHandler(flowSvc *service.FlowService) *JoinHandler {
	return &JoinHandler{flowSvc: flowSvc}
}

// Join handles GET /join/{pin}
func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	pin := mux.Vars(r)["pin"]

	result, err := h.flowSvc.Dispatch(r.Context(), service.JoinByPin{PIN: pin})
	if err != nil {
		writeDispatchError(w, err, result)
		return
	}

	writeJSON(w, http.StatusOK, &DispatchResponse{
		Result: result,
		State:  result.State,
	})
}
