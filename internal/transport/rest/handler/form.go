package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/service"
)

// FormHandler handles builder endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// CreateFormRequest is the request body for creating or updating a form
type CreateFormRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Welcome     model.WelcomeScreen `json:"welcome"`
	Questions   []model.Question    `json:"questions"`
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	form := &model.Form{
		Title:       req.Title,
		Description: req.Description,
		Welcome:     req.Welcome,
		Questions:   req.Questions,
	}
	if form.Questions == nil {
		form.Questions = []model.Question{}
	}

	id, err := h.formSvc.Create(r.Context(), form)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"formId": id})
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.GetByID(r.Context(), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.Update(r.Context(), mux.Vars(r)["formId"], req.Title, req.Description, req.Welcome)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// UpdateQuestions handles PUT /v1/forms/{formId}/questions
func (h *FormHandler) UpdateQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.UpdateQuestions(r.Context(), mux.Vars(r)["formId"], req.Questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// SetPublished handles POST /v1/forms/{formId}/publish
func (h *FormHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.SetPublished(r.Context(), mux.Vars(r)["formId"], req.Published)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.formSvc.Delete(r.Context(), mux.Vars(r)["formId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LogicMap handles GET /v1/forms/{formId}/logic-map
func (h *FormHandler) LogicMap(w http.ResponseWriter, r *http.Request) {
	graph, err := h.formSvc.LogicMap(r.Context(), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

// ConnectEdge handles POST /v1/forms/{formId}/logic-map/edges
func (h *FormHandler) ConnectEdge(w http.ResponseWriter, r *http.Request) {
	var req service.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edgeID, err := h.formSvc.ConnectEdge(r.Context(), mux.Vars(r)["formId"], req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"edgeId": edgeID})
}

// DisconnectEdge handles DELETE /v1/forms/{formId}/logic-map/edges/{edgeId}
func (h *FormHandler) DisconnectEdge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.formSvc.DisconnectEdge(r.Context(), vars["formId"], vars["edgeId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Helper functions
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

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConfiguration):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrSessionFinished):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotAtEnd):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
