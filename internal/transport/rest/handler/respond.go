package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/service"
)

// RespondHandler handles the respondent session endpoints
type RespondHandler struct {
	flowSvc *service.FlowService
}

// NewRespondHandler creates a new respond handler
func NewRespondHandler(flowSvc *service.FlowService) *RespondHandler {
	return &RespondHandler{flowSvc: flowSvc}
}

// StartSessionRequest carries the client context captured on page load
type StartSessionRequest struct {
	Device  string `json:"device"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Country string `json:"country"`
}

// AnswerRequest carries one answer: a string or a string list
type AnswerRequest struct {
	Answer model.AnswerValue `json:"answer"`
}

// StartSession handles POST /v1/forms/{formId}/sessions
func (h *RespondHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	var req StartSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	meta := model.VisitMeta{
		Device:  req.Device,
		Browser: req.Browser,
		OS:      req.OS,
		IP:      clientIP(r),
		Country: req.Country,
	}

	view, err := h.flowSvc.StartSession(r.Context(), formID, meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// DismissWelcome handles POST /v1/sessions/{sessionId}/start
func (h *RespondHandler) DismissWelcome(w http.ResponseWriter, r *http.Request) {
	view, err := h.flowSvc.DismissWelcome(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Advance handles POST /v1/sessions/{sessionId}/advance
func (h *RespondHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.flowSvc.Advance(r.Context(), mux.Vars(r)["sessionId"], req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Previous handles POST /v1/sessions/{sessionId}/previous
func (h *RespondHandler) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.flowSvc.Previous(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Submit handles POST /v1/sessions/{sessionId}/submit
func (h *RespondHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.flowSvc.Submit(r.Context(), mux.Vars(r)["sessionId"], req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
