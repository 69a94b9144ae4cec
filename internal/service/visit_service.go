// Package service provides business logic for visit tracking
package service

import (
	"context"
	"log"
	"time"

	"github.com/visitdesk/visitdesk/internal/models"
	"github.com/visitdesk/visitdesk/internal/repository"
	"github.com/visitdesk/visitdesk/internal/utils"
)

// VisitUpdateCallback is a function type for visit update callbacks
type VisitUpdateCallback func(*models.Visit)

// VisitService provides business logic for working with visit records
type VisitService struct {
	repo            repository.Repository
	departments     []string
	updateCallbacks []VisitUpdateCallback
	now             func() time.Time
}

// NewVisitService creates a new VisitService with the given repository and
// department list
func NewVisitService(repo repository.Repository, departments []string) *VisitService {
	return &VisitService{
		repo:            repo,
		departments:     departments,
		updateCallbacks: make([]VisitUpdateCallback, 0),
		now:             time.Now,
	}
}

// RegisterUpdateCallback registers a callback function to be called when
// visit data changes
func (s *VisitService) RegisterUpdateCallback(callback VisitUpdateCallback) {
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the changed visit
func (s *VisitService) notifyUpdate(visit *models.Visit) {
	for _, callback := range s.updateCallbacks {
		callback(visit)
	}
}

// Departments returns the selectable department list
func (s *VisitService) Departments() []string {
	return s.departments
}

// CreateVisit builds a new visit from form input and prepends it to the
// collection
func (s *VisitService) CreateVisit(ctx context.Context, input VisitInput) (*models.Visit, error) {
	visit, err := BuildVisit(input, nil, s.departments, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateVisit(ctx, visit); err != nil {
		return nil, err
	}

	s.notifyUpdate(visit)
	return visit, nil
}

// UpdateVisit rebuilds an existing visit from form input, preserving its
// identity fields and stage state
func (s *VisitService) UpdateVisit(ctx context.Context, id string, input VisitInput) (*models.Visit, error) {
	existing, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	visit, err := BuildVisit(input, existing, s.departments, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateVisit(ctx, visit); err != nil {
		return nil, err
	}

	s.notifyUpdate(visit)
	return visit, nil
}

// GetVisit returns the visit with the given ID, typically to prefill the
// edit form. The record stays in the collection.
func (s *VisitService) GetVisit(ctx context.Context, id string) (*models.Visit, error) {
	return s.repo.GetVisit(ctx, id)
}

// ListVisits returns all visits, newest first
func (s *VisitService) ListVisits(ctx context.Context) ([]*models.Visit, error) {
	return s.repo.ListVisits(ctx)
}

// ToggleStage flips one stage of a visit and commits the result. The clock
// is read once, when the toggle is applied.
func (s *VisitService) ToggleStage(ctx context.Context, id string, stage models.Stage) (*models.Visit, error) {
	visit, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.ToggleStage(*visit, stage, s.now())
	if err := s.repo.UpdateVisit(ctx, &next); err != nil {
		return nil, err
	}

	s.notifyUpdate(&next)
	return &next, nil
}

// DeleteVisit removes a visit. Unknown IDs are a safe no-op.
func (s *VisitService) DeleteVisit(ctx context.Context, id string) error {
	visit, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		// Nothing to delete; keep the UI usable
		log.Printf("delete requested for unknown visit %s", utils.SanitizeLogString(id))
		return nil
	}

	if err := s.repo.DeleteVisit(ctx, id); err != nil {
		return err
	}

	s.notifyUpdate(visit)
	return nil
}

// VisitViewData represents one visit formatted for the web UI
type VisitViewData struct {
	Visit           *models.Visit
	Stage           string
	DurationMinutes int
}

// GetVisitViewData returns visit data formatted for the web UI, newest first
func (s *VisitService) GetVisitViewData(ctx context.Context) ([]VisitViewData, error) {
	visits, err := s.repo.ListVisits(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]VisitViewData, 0, len(visits))
	for _, visit := range visits {
		result = append(result, VisitViewData{
			Visit:           visit,
			Stage:           visit.StageLabel(),
			DurationMinutes: visit.DisplayDurationMinutes(),
		})
	}

	return result, nil
}
