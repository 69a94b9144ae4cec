// Package repository defines interfaces for visit storage
package repository

import (
	"context"

	"github.com/visitdesk/visitdesk/internal/models"
)

// Repository defines the contract for storing and retrieving visit records.
// The collection is ordered newest-first: CreateVisit prepends, UpdateVisit
// keeps a record's position, and DeleteVisit removes in place leaving the
// remaining records in their prior relative order.
type Repository interface {
	// CreateVisit prepends a new visit. A duplicate ID is an invariant
	// violation and fails fast.
	CreateVisit(ctx context.Context, visit *models.Visit) error

	// UpdateVisit replaces the visit with a matching ID. An unknown ID is a
	// silent no-op.
	UpdateVisit(ctx context.Context, visit *models.Visit) error

	// GetVisit returns a copy of the visit with the given ID, for edit
	// pre-fill and stage toggles. The record stays in the collection.
	GetVisit(ctx context.Context, id string) (*models.Visit, error)

	// ListVisits returns all visits, newest first.
	ListVisits(ctx context.Context) ([]*models.Visit, error)

	// DeleteVisit removes the visit with the given ID. An unknown ID is a
	// silent no-op.
	DeleteVisit(ctx context.Context, id string) error
}
