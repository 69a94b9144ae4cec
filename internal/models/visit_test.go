package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/visitdesk/visitdesk/internal/models"
)

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, models.DurationMinutes(start, start.Add(30*time.Minute)))
	assert.Equal(t, 0, models.DurationMinutes(start, start))

	// Rounding to whole minutes
	assert.Equal(t, 31, models.DurationMinutes(start, start.Add(30*time.Minute+40*time.Second)))

	// Negative spans are representable, not rejected
	assert.Equal(t, -15, models.DurationMinutes(start, start.Add(-15*time.Minute)))
}

func TestActualDurationRequiresBothTimestamps(t *testing.T) {
	v := models.Visit{
		ScheduledDuration: 45,
	}

	_, ok := v.ActualDurationMinutes()
	assert.False(t, ok)
	assert.Equal(t, 45, v.DisplayDurationMinutes(), "should fall back to scheduled duration")

	v.ActualStart = time.Date(2024, 1, 1, 9, 6, 0, 0, time.UTC)
	_, ok = v.ActualDurationMinutes()
	assert.False(t, ok, "start alone is not enough")

	v.ActualEnd = time.Date(2024, 1, 1, 9, 40, 0, 0, time.UTC)
	d, ok := v.ActualDurationMinutes()
	assert.True(t, ok)
	assert.Equal(t, 34, d)
	assert.Equal(t, 34, v.DisplayDurationMinutes())
}

func TestStageLabel(t *testing.T) {
	v := models.Visit{}
	assert.Equal(t, "waiting", v.StageLabel())

	v.ArrivalConfirmed = true
	assert.Equal(t, "arrived", v.StageLabel())

	v.MeetingStarted = true
	assert.Equal(t, "in_progress", v.StageLabel())

	v.MeetingEnded = true
	assert.Equal(t, "ended", v.StageLabel())
}
