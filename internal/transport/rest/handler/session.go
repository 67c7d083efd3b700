package handler

import (
	"classpulse/internal/qrcode"
	"classpulse/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler serves lecturer views of a single session
type SessionHandler struct {
	flowSvc *service.FlowService
	qrSize  int
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(flowSvc *service.FlowService, qrSize int) *SessionHandler {
	return &SessionHandler{flowSvc: flowSvc, qrSize: qrSize}
}

// Insights handles GET /v1/sessions/{id}/insights
func (h *SessionHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.flowSvc.Insights(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDispatchError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// Share handles GET /v1/sessions/{id}/share
func (h *SessionHandler) Share(w http.ResponseWriter, r *http.Request) {
	share, err := h.flowSvc.ShareInfo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDispatchError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, share)
}

// QR handles GET /v1/sessions/{id}/qr.png
func (h *SessionHandler) QR(w http.ResponseWriter, r *http.Request) {
	share, err := h.flowSvc.ShareInfo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDispatchError(w, err, nil)
		return
	}

	png, err := qrcode.PNG(share.JoinURL, h.qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
