package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitdesk/visitdesk/internal/models"
)

func testVisit() models.Visit {
	return models.Visit{
		ID:                "visit123",
		EntryTime:         time.Date(2024, 1, 1, 8, 45, 0, 0, time.UTC),
		CustomerName:      "Jane Doe",
		PhotoIDNumber:     "X123",
		Department:        "Sales",
		ScheduledStart:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		ScheduledEnd:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		ScheduledDuration: 30,
	}
}

func TestToggleArrival(t *testing.T) {
	v := testVisit()
	now := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)

	confirmed := models.ToggleStage(v, models.StageArrival, now)
	assert.True(t, confirmed.ArrivalConfirmed)
	assert.Equal(t, now, confirmed.ArrivalTime)

	// The original value is untouched
	assert.False(t, v.ArrivalConfirmed)

	// Toggling twice is an involution
	restored := models.ToggleStage(confirmed, models.StageArrival, now.Add(time.Minute))
	assert.Equal(t, v, restored)
}

func TestStageGating(t *testing.T) {
	v := testVisit()
	now := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)

	t.Run("StartRequiresArrival", func(t *testing.T) {
		result := models.ToggleStage(v, models.StageStart, now)
		assert.Equal(t, v, result, "start toggle without confirmed arrival should be a no-op")
	})

	t.Run("EndRequiresStart", func(t *testing.T) {
		arrived := models.ToggleStage(v, models.StageArrival, now)
		result := models.ToggleStage(arrived, models.StageEnd, now)
		assert.Equal(t, arrived, result, "end toggle without started meeting should be a no-op")
	})
}

func TestMeetingProgression(t *testing.T) {
	v := testVisit()

	arrivalAt := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)
	startAt := time.Date(2024, 1, 1, 9, 6, 0, 0, time.UTC)
	endAt := time.Date(2024, 1, 1, 9, 40, 0, 0, time.UTC)

	v = models.ToggleStage(v, models.StageArrival, arrivalAt)
	v = models.ToggleStage(v, models.StageStart, startAt)

	assert.True(t, v.ArrivalConfirmed)
	assert.True(t, v.MeetingStarted)
	assert.Equal(t, startAt, v.ActualStart)
	assert.Equal(t, "in_progress", v.StageLabel())

	v = models.ToggleStage(v, models.StageEnd, endAt)

	assert.True(t, v.MeetingEnded)
	assert.Equal(t, endAt, v.ActualEnd)
	assert.Equal(t, "ended", v.StageLabel())

	duration, ok := v.ActualDurationMinutes()
	require.True(t, ok)
	assert.Equal(t, 34, duration)
	assert.Equal(t, 34, v.DisplayDurationMinutes())
}

func TestUndoDoesNotCascade(t *testing.T) {
	v := testVisit()
	now := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)

	v = models.ToggleStage(v, models.StageArrival, now)
	v = models.ToggleStage(v, models.StageStart, now.Add(time.Minute))

	// Undoing arrival leaves the started meeting alone
	v = models.ToggleStage(v, models.StageArrival, now.Add(2*time.Minute))
	assert.False(t, v.ArrivalConfirmed)
	assert.True(t, v.ArrivalTime.IsZero())
	assert.True(t, v.MeetingStarted)
	assert.False(t, v.ActualStart.IsZero())

	// With arrival unconfirmed the start stage is locked again
	unchanged := models.ToggleStage(v, models.StageStart, now.Add(3*time.Minute))
	assert.Equal(t, v, unchanged)
}

func TestUndoEndClearsTimestamp(t *testing.T) {
	v := testVisit()
	now := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)

	v = models.ToggleStage(v, models.StageArrival, now)
	v = models.ToggleStage(v, models.StageStart, now)
	v = models.ToggleStage(v, models.StageEnd, now.Add(30*time.Minute))
	v = models.ToggleStage(v, models.StageEnd, now.Add(31*time.Minute))

	assert.False(t, v.MeetingEnded)
	assert.True(t, v.ActualEnd.IsZero())

	// Duration derives from the timestamps, so undoing end invalidates it
	_, ok := v.ActualDurationMinutes()
	assert.False(t, ok)
	assert.Equal(t, 30, v.DisplayDurationMinutes())
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		name  string
		stage models.Stage
	}{
		{"arrival", models.StageArrival},
		{"start", models.StageStart},
		{"end", models.StageEnd},
	}

	for _, tt := range tests {
		stage, err := models.ParseStage(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.stage, stage)
		assert.Equal(t, tt.name, stage.String())
	}

	_, err := models.ParseStage("departed")
	assert.Error(t, err)
}
