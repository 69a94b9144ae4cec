// Package web provides the server-rendered UI for visit tracking
package web

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/visitdesk/visitdesk/internal/models"
	"github.com/visitdesk/visitdesk/internal/service"
	"github.com/visitdesk/visitdesk/internal/utils"
)

// Handler manages web UI requests
type Handler struct {
	visitService *service.VisitService
	templates    *template.Template
	sseManager   *SSEManager
}

// NewHandler creates a new web UI handler
func NewHandler(visitService *service.VisitService, templatesDir string) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatTime":     formatTime,
		"formatDateTime": formatDateTime,
		"inputTime":      inputTime,
	}).ParseGlob(filepath.Join(templatesDir, "*.html"))

	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		visitService: visitService,
		templates:    tmpl,
		sseManager:   NewSSEManager(),
	}, nil
}

// formatTime is a template helper function to format a clock time
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04:05")
}

// formatDateTime is a template helper function to format a full timestamp
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006 15:04")
}

// inputTime formats a timestamp for a datetime-local input value
func inputTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

// SetupRoutes registers web UI routes on the given mux
func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	// Serve static files
	fileServer := http.FileServer(http.Dir("./internal/web/static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))

	// Serve SSE endpoint
	mux.Handle("/events", h.sseManager)

	// Serve index page
	mux.HandleFunc("/", h.handleIndex)

	// Form and list actions
	mux.HandleFunc("/visits/submit", h.handleSubmit)
	mux.HandleFunc("/visits/edit", h.handleEdit)
	mux.HandleFunc("/visits/toggle", h.handleToggle)
	mux.HandleFunc("/visits/delete", h.handleDelete)

	// HTMX partial endpoint
	mux.HandleFunc("/partial/visits", h.HandlePartialVisitList)
}

// formState carries the form's current values so validation failures keep
// what the operator typed
type formState struct {
	EditID string
	Values service.VisitInput
}

// indexViewModel is the view model for the main page
type indexViewModel struct {
	Visits      []service.VisitViewData
	Departments []string
	Form        formState
	Notice      string
	Error       string
	LastUpdated string
	CurrentYear int
}

func (h *Handler) renderIndex(w http.ResponseWriter, r *http.Request, form formState, notice, errMsg string) {
	visits, err := h.visitService.GetVisitViewData(r.Context())
	if err != nil {
		log.Printf("Error getting visit data: %v", err)
		http.Error(w, "Failed to get visit data", http.StatusInternalServerError)
		return
	}

	viewModel := indexViewModel{
		Visits:      visits,
		Departments: h.visitService.Departments(),
		Form:        form,
		Notice:      notice,
		Error:       errMsg,
		LastUpdated: time.Now().Format("2006-01-02 15:04:05"),
		CurrentYear: time.Now().Year(),
	}

	if err := h.templates.ExecuteTemplate(w, "layout.html", viewModel); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// handleIndex renders the main page: the record form and the visit list
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	h.renderIndex(w, r, formState{}, r.URL.Query().Get("notice"), "")
}

func inputFromForm(r *http.Request) service.VisitInput {
	return service.VisitInput{
		CustomerName:   r.FormValue("customer_name"),
		PhotoIDNumber:  r.FormValue("photo_id_number"),
		Department:     r.FormValue("department"),
		ScheduledStart: r.FormValue("scheduled_start"),
		ScheduledEnd:   r.FormValue("scheduled_end"),
		WaitingMinutes: r.FormValue("waiting_minutes"),
		Notes:          r.FormValue("notes"),
	}
}

// handleSubmit processes the record form, creating a new visit or, when the
// hidden id field is set, overwriting an existing one. Validation failures
// re-render the page with the submitted values preserved.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	input := inputFromForm(r)
	editID := r.FormValue("id")

	var err error
	notice := "Meeting has been recorded"
	if editID == "" {
		_, err = h.visitService.CreateVisit(r.Context(), input)
	} else {
		_, err = h.visitService.UpdateVisit(r.Context(), editID, input)
		notice = "Meeting has been updated"
	}

	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderIndex(w, r, formState{EditID: editID, Values: input},
				"", "Please fill in all required fields")
			return
		}
		log.Printf("Error saving visit: %v", err)
		http.Error(w, "Failed to save visit", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// handleEdit prefills the form with an existing visit's editable fields
func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	visit, err := h.visitService.GetVisit(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		// Record vanished between render and click; back to a clean page
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	form := formState{
		EditID: visit.ID,
		Values: service.VisitInput{
			CustomerName:   visit.CustomerName,
			PhotoIDNumber:  visit.PhotoIDNumber,
			Department:     visit.Department,
			ScheduledStart: inputTime(visit.ScheduledStart),
			ScheduledEnd:   inputTime(visit.ScheduledEnd),
			WaitingMinutes: strconv.Itoa(visit.WaitingMinutes),
			Notes:          visit.Notes,
		},
	}

	h.renderIndex(w, r, form, "", "")
}

// handleToggle flips one stage of a visit from the list view
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	stage, err := models.ParseStage(r.FormValue("stage"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	if _, err := h.visitService.ToggleStage(r.Context(), id, stage); err != nil {
		// Safe no-op: the next render shows the current state
		log.Printf("Error toggling stage for visit %s: %v", utils.SanitizeLogString(id), err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDelete renders the confirmation page on GET and removes the visit on
// the confirmed POST. Deletion never fires from the first click.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		visit, err := h.visitService.GetVisit(r.Context(), r.URL.Query().Get("id"))
		if err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		viewModel := struct {
			Visit       *models.Visit
			CurrentYear int
		}{
			Visit:       visit,
			CurrentYear: time.Now().Year(),
		}

		if err := h.templates.ExecuteTemplate(w, "confirm_delete.html", viewModel); err != nil {
			log.Printf("Error rendering template: %v", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}

	case http.MethodPost:
		if err := h.visitService.DeleteVisit(r.Context(), r.FormValue("id")); err != nil {
			log.Printf("Error deleting visit: %v", err)
			http.Error(w, "Failed to delete visit", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/?notice="+url.QueryEscape("Meeting has been deleted"), http.StatusSeeOther)

	default:
		http.NotFound(w, r)
	}
}

// HandlePartialVisitList renders just the visit list for HTMX updates
func (h *Handler) HandlePartialVisitList(w http.ResponseWriter, r *http.Request) {
	visits, err := h.visitService.GetVisitViewData(r.Context())
	if err != nil {
		log.Printf("Error getting visit data: %v", err)
		http.Error(w, "Failed to get visit data", http.StatusInternalServerError)
		return
	}

	viewModel := struct {
		Visits []service.VisitViewData
	}{
		Visits: visits,
	}

	if err := h.templates.ExecuteTemplate(w, "visit_list", viewModel); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render visit list", http.StatusInternalServerError)
	}
}

// NotifyVisitUpdate sends an update notification to all SSE clients.
// Registered as an update callback on the visit service.
func (h *Handler) NotifyVisitUpdate(visit *models.Visit) {
	h.sseManager.NotifyVisitUpdate(visit)
}

// Shutdown gracefully shuts down the web handler and its SSE manager
func (h *Handler) Shutdown() {
	h.sseManager.Shutdown()
}
