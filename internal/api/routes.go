package api

import (
	"net/http"

	"github.com/visitdesk/visitdesk/internal/service"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(visitService *service.VisitService) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler)

	// Visit management endpoints
	visitHandler := NewVisitHandler(visitService)
	mux.Handle("/api/visits", visitHandler)
	mux.Handle("/api/visits/", visitHandler)

	return mux
}
