package models

import (
	"fmt"
	"time"
)

// Stage identifies one step of the arrival/start/end progression
type Stage int

const (
	StageArrival Stage = iota
	StageStart
	StageEnd
)

// String returns the string representation of a stage
func (s Stage) String() string {
	return [...]string{"arrival", "start", "end"}[s]
}

// ParseStage converts a stage name from a request path or form field
func ParseStage(name string) (Stage, error) {
	switch name {
	case "arrival":
		return StageArrival, nil
	case "start":
		return StageStart, nil
	case "end":
		return StageEnd, nil
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}

// ToggleStage flips one stage of a visit and returns the resulting record.
// It is a pure function: the caller captures "now" once and is responsible
// for committing the result.
//
// Each stage is gated behind the previous one: start requires a confirmed
// arrival and end requires a started meeting, otherwise the visit is returned
// unchanged. Toggling a stage off clears only that stage's flag and timestamp;
// earlier stages are left alone so the operator can correct mistakes without
// cascading resets.
func ToggleStage(v Visit, stage Stage, now time.Time) Visit {
	switch stage {
	case StageArrival:
		if v.ArrivalConfirmed {
			v.ArrivalConfirmed = false
			v.ArrivalTime = time.Time{}
		} else {
			v.ArrivalConfirmed = true
			v.ArrivalTime = now
		}
	case StageStart:
		if !v.ArrivalConfirmed {
			return v
		}
		if v.MeetingStarted {
			v.MeetingStarted = false
			v.ActualStart = time.Time{}
		} else {
			v.MeetingStarted = true
			v.ActualStart = now
		}
	case StageEnd:
		if !v.MeetingStarted {
			return v
		}
		if v.MeetingEnded {
			v.MeetingEnded = false
			v.ActualEnd = time.Time{}
		} else {
			v.MeetingEnded = true
			v.ActualEnd = now
		}
	}
	return v
}

// StageLabel returns the display label for a visit's current progression
func (v Visit) StageLabel() string {
	switch {
	case v.MeetingEnded:
		return "ended"
	case v.MeetingStarted:
		return "in_progress"
	case v.ArrivalConfirmed:
		return "arrived"
	}
	return "waiting"
}
