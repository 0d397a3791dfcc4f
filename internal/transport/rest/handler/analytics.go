package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/service"
)

// AnalyticsHandler handles dashboard endpoints
type AnalyticsHandler struct {
	analyticsSvc  *service.AnalyticsService
	submissionSvc *service.SubmissionService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService, submissionSvc *service.SubmissionService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc:  analyticsSvc,
		submissionSvc: submissionSvc,
	}
}

// Report handles GET /v1/forms/{formId}/analytics?from=&to=
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.analyticsSvc.Report(r.Context(), mux.Vars(r)["formId"], dateRange)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListSubmissions handles GET /v1/forms/{formId}/submissions?from=&to=
func (h *AnalyticsHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submissions, err := h.submissionSvc.ListByForm(r.Context(), mux.Vars(r)["formId"], dateRange)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if submissions == nil {
		submissions = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": submissions})
}

// parseDateRange reads optional inclusive from/to query params, accepting
// RFC3339 timestamps or plain dates. A bare "to" date extends to the end of
// that day.
func parseDateRange(r *http.Request) (model.DateRange, error) {
	var dateRange model.DateRange

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := parseTimeParam(raw, false)
		if err != nil {
			return dateRange, err
		}
		dateRange.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := parseTimeParam(raw, true)
		if err != nil {
			return dateRange, err
		}
		dateRange.To = &t
	}
	return dateRange, nil
}

func parseTimeParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
