// Package models defines the core data types for visit tracking
package models

import (
	"math"
	"time"
)

// Visit represents one tracked visitor meeting.
//
// Identity fields (ID, EntryTime) are assigned at creation and never change.
// The scheduled window is entered by the operator; the actual timestamps are
// captured when the corresponding stage is toggled.
type Visit struct {
	ID        string    `json:"id"`
	EntryTime time.Time `json:"entry_time"`

	CustomerName  string `json:"customer_name"`
	PhotoIDNumber string `json:"photo_id_number"`
	Department    string `json:"department"`

	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	// ScheduledDuration is derived from the scheduled window when the record
	// is built, in minutes. Negative windows are representable.
	ScheduledDuration int `json:"scheduled_duration"`

	WaitingMinutes int    `json:"waiting_minutes"`
	Notes          string `json:"notes,omitempty"`

	ArrivalConfirmed bool      `json:"arrival_confirmed"`
	ArrivalTime      time.Time `json:"arrival_time,omitzero"`
	MeetingStarted   bool      `json:"meeting_started"`
	ActualStart      time.Time `json:"actual_start,omitzero"`
	MeetingEnded     bool      `json:"meeting_ended"`
	ActualEnd        time.Time `json:"actual_end,omitzero"`
}

// DurationMinutes returns the span between two timestamps rounded to whole
// minutes.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// ActualDurationMinutes returns the measured meeting duration. It is derived
// on every read so it can never go stale: the second return value is false
// unless both actual timestamps have been captured.
func (v Visit) ActualDurationMinutes() (int, bool) {
	if v.ActualStart.IsZero() || v.ActualEnd.IsZero() {
		return 0, false
	}
	return DurationMinutes(v.ActualStart, v.ActualEnd), true
}

// DisplayDurationMinutes returns the duration shown to the operator: the
// actual duration once the meeting has both actual timestamps, otherwise the
// scheduled one.
func (v Visit) DisplayDurationMinutes() int {
	if d, ok := v.ActualDurationMinutes(); ok {
		return d
	}
	return v.ScheduledDuration
}
