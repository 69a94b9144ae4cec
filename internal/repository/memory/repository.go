// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/visitdesk/visitdesk/internal/models"
)

// ErrNotFound is returned when a requested visit is not found
var ErrNotFound = errors.New("visit not found")

// ErrDuplicateID is returned when a visit is created with an ID that already
// exists in the collection
var ErrDuplicateID = errors.New("duplicate visit id")

// Repository implements the repository interface with in-memory storage.
// Insertion order is tracked separately from the index so listings stay
// newest-first under updates and deletes.
type Repository struct {
	visits map[string]*models.Visit
	order  []string // visit IDs, newest first
	mu     sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		visits: make(map[string]*models.Visit),
	}
}

// CreateVisit prepends a new visit to the collection
func (r *Repository) CreateVisit(ctx context.Context, visit *models.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.visits[visit.ID]; exists {
		return ErrDuplicateID
	}

	stored := *visit
	r.visits[visit.ID] = &stored
	r.order = append([]string{visit.ID}, r.order...)

	return nil
}

// UpdateVisit replaces the stored visit with a matching ID, keeping its
// position in the collection. Unknown IDs are a silent no-op.
func (r *Repository) UpdateVisit(ctx context.Context, visit *models.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.visits[visit.ID]; !exists {
		return nil
	}

	stored := *visit
	r.visits[visit.ID] = &stored

	return nil
}

// GetVisit retrieves a visit by ID
func (r *Repository) GetVisit(ctx context.Context, id string) (*models.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.visits[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy so callers never share the stored value
	visit := *stored
	return &visit, nil
}

// ListVisits returns all visits, newest first
func (r *Repository) ListVisits(ctx context.Context) ([]*models.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visits := make([]*models.Visit, 0, len(r.order))
	for _, id := range r.order {
		stored, ok := r.visits[id]
		if !ok {
			continue
		}
		visit := *stored
		visits = append(visits, &visit)
	}

	return visits, nil
}

// DeleteVisit removes a visit by ID. Unknown IDs are a silent no-op.
func (r *Repository) DeleteVisit(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.visits[id]; !ok {
		return nil
	}

	delete(r.visits, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
