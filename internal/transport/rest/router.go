package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/service"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/transport/rest/handler"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	FormService       *service.FormService
	FlowService       *service.FlowService
	AnalyticsService  *service.AnalyticsService
	SubmissionService *service.SubmissionService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	formHandler := handler.NewFormHandler(c.FormService)
	respondHandler := handler.NewRespondHandler(c.FlowService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService, c.SubmissionService)
	wsHandler := ws.NewHandler(c.WSHub)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Builder endpoints
	v1.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/questions", formHandler.UpdateQuestions).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/publish", formHandler.SetPublished).Methods("POST", "OPTIONS")

	// Logic map
	v1.HandleFunc("/forms/{formId}/logic-map", formHandler.LogicMap).Methods("GET", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/logic-map/edges", formHandler.ConnectEdge).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/logic-map/edges/{edgeId}", formHandler.DisconnectEdge).Methods("DELETE", "OPTIONS")

	// Respondent flow
	v1.HandleFunc("/forms/{formId}/sessions", respondHandler.StartSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/start", respondHandler.DismissWelcome).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/advance", respondHandler.Advance).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/previous", respondHandler.Previous).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/submit", respondHandler.Submit).Methods("POST", "OPTIONS")

	// Analytics
	v1.HandleFunc("/forms/{formId}/analytics", analyticsHandler.Report).Methods("GET", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/submissions", analyticsHandler.ListSubmissions).Methods("GET", "OPTIONS")

	// Live dashboard
	v1.HandleFunc("/ws/forms/{formId}/watch", wsHandler.WatchForm).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
