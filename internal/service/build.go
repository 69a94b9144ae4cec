package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/visitdesk/visitdesk/internal/models"
)

// VisitInput carries the user-editable visit fields as a form posts them
type VisitInput struct {
	CustomerName   string `json:"customer_name" validate:"required"`
	PhotoIDNumber  string `json:"photo_id_number" validate:"required"`
	Department     string `json:"department"`
	ScheduledStart string `json:"scheduled_start" validate:"required"`
	ScheduledEnd   string `json:"scheduled_end" validate:"required"`
	WaitingMinutes string `json:"waiting_minutes"`
	Notes          string `json:"notes"`
}

// ValidationError reports a rejected visit submission. The form keeps its
// state so the operator can correct the field and resubmit.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

var validate = validator.New()

// scheduleTimeLayouts lists accepted formats for the scheduled window, the
// HTML datetime-local format first.
var scheduleTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseScheduleTime(field, value string) (time.Time, error) {
	for _, layout := range scheduleTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: field}
}

// BuildVisit constructs a visit record from form input. It is pure: the
// caller supplies the clock and commits the result.
//
// When existing is nil a new record is created with a fresh ID, entry time
// set to now, and all stage flags cleared. In edit mode the identity fields
// and every stage flag and timestamp are preserved verbatim; only the
// user-editable fields are overwritten.
//
// The scheduled window is not checked for end > start; negative durations
// are representable. A waiting time that fails to parse falls back to 0, and
// a department outside the configured list falls back to the list's last
// entry.
func BuildVisit(input VisitInput, existing *models.Visit, departments []string, now time.Time) (*models.Visit, error) {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, &ValidationError{Field: errs[0].Field()}
		}
		return nil, err
	}

	start, err := parseScheduleTime("ScheduledStart", input.ScheduledStart)
	if err != nil {
		return nil, err
	}
	end, err := parseScheduleTime("ScheduledEnd", input.ScheduledEnd)
	if err != nil {
		return nil, err
	}

	waiting, err := strconv.Atoi(input.WaitingMinutes)
	if err != nil || waiting < 0 {
		waiting = 0
	}

	var visit models.Visit
	if existing != nil {
		visit = *existing
	} else {
		visit = models.Visit{
			ID:        uuid.NewString(),
			EntryTime: now,
		}
	}

	visit.CustomerName = input.CustomerName
	visit.PhotoIDNumber = input.PhotoIDNumber
	visit.Department = normalizeDepartment(input.Department, departments)
	visit.ScheduledStart = start
	visit.ScheduledEnd = end
	visit.ScheduledDuration = models.DurationMinutes(start, end)
	visit.WaitingMinutes = waiting
	visit.Notes = input.Notes

	return &visit, nil
}

func normalizeDepartment(department string, departments []string) string {
	for _, d := range departments {
		if d == department {
			return d
		}
	}
	return departments[len(departments)-1]
}
