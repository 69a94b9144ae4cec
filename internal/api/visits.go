package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/visitdesk/visitdesk/internal/models"
	"github.com/visitdesk/visitdesk/internal/service"
	"github.com/visitdesk/visitdesk/internal/utils"
)

// VisitHandler handles HTTP requests for visit management
type VisitHandler struct {
	visitService *service.VisitService
}

// NewVisitHandler creates a new visit handler with the given service
func NewVisitHandler(visitService *service.VisitService) *VisitHandler {
	return &VisitHandler{
		visitService: visitService,
	}
}

// ServeHTTP handles HTTP requests for visit management
func (h *VisitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Path formats:
	//   /api/visits
	//   /api/visits/{visitID}
	//   /api/visits/{visitID}/stage/{stage}
	pathParts := strings.Split(strings.TrimSuffix(r.URL.Path, "/"), "/")

	var visitID, stageName string
	if len(pathParts) >= 4 {
		visitID = pathParts[3]
	}
	if len(pathParts) >= 6 && pathParts[4] == "stage" {
		stageName = pathParts[5]
	}

	switch {
	case r.Method == http.MethodGet && visitID == "":
		h.listVisits(w, r)
	case r.Method == http.MethodPost && visitID == "":
		h.createVisit(w, r)
	case r.Method == http.MethodPost && stageName != "":
		h.toggleStage(w, r, visitID, stageName)
	case r.Method == http.MethodGet && visitID != "":
		h.getVisit(w, r, visitID)
	case r.Method == http.MethodPut && visitID != "":
		h.updateVisit(w, r, visitID)
	case r.Method == http.MethodDelete && visitID != "":
		h.deleteVisit(w, r, visitID)
	default:
		http.NotFound(w, r)
	}
}

// createVisit handles POST /api/visits to record a new visit
func (h *VisitHandler) createVisit(w http.ResponseWriter, r *http.Request) {
	var input service.VisitInput

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		log.Printf("Error decoding visit request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	visit, err := h.visitService.CreateVisit(r.Context(), input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error saving visit: %v", err)
		http.Error(w, "Error saving visit", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(visit)
}

// listVisits handles GET /api/visits to list all visits, newest first
func (h *VisitHandler) listVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.visitService.ListVisits(r.Context())
	if err != nil {
		log.Printf("Error listing visits: %v", err)
		http.Error(w, "Error retrieving visits", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(visits)
}

// getVisit handles GET /api/visits/{visitID}
func (h *VisitHandler) getVisit(w http.ResponseWriter, r *http.Request, visitID string) {
	visit, err := h.visitService.GetVisit(r.Context(), visitID)
	if err != nil {
		log.Printf("Error getting visit %s: %v", utils.SanitizeLogString(visitID), err)
		http.Error(w, "Visit not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(visit)
}

// updateVisit handles PUT /api/visits/{visitID} to overwrite the
// user-editable fields of an existing visit
func (h *VisitHandler) updateVisit(w http.ResponseWriter, r *http.Request, visitID string) {
	var input service.VisitInput

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		log.Printf("Error decoding visit request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	visit, err := h.visitService.UpdateVisit(r.Context(), visitID, input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error updating visit %s: %v", utils.SanitizeLogString(visitID), err)
		http.Error(w, "Visit not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(visit)
}

// toggleStage handles POST /api/visits/{visitID}/stage/{stage} to flip one
// stage of the arrival/start/end progression
func (h *VisitHandler) toggleStage(w http.ResponseWriter, r *http.Request, visitID, stageName string) {
	stage, err := models.ParseStage(stageName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	visit, err := h.visitService.ToggleStage(r.Context(), visitID, stage)
	if err != nil {
		log.Printf("Error toggling stage for visit %s: %v", utils.SanitizeLogString(visitID), err)
		http.Error(w, "Visit not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(visit)
}

// deleteVisit handles DELETE /api/visits/{visitID}
func (h *VisitHandler) deleteVisit(w http.ResponseWriter, r *http.Request, visitID string) {
	if err := h.visitService.DeleteVisit(r.Context(), visitID); err != nil {
		log.Printf("Error deleting visit: %v", err)
		http.Error(w, "Error deleting visit", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Visit deleted successfully",
	})
}
