package domain

import "time"

// ProjectionKind is what the calendar shows for a single date.
type ProjectionKind string

const (
	ProjectionOutside ProjectionKind = "outside" // before start or past the last week
	ProjectionRest    ProjectionKind = "rest"
	ProjectionTest    ProjectionKind = "test"
	ProjectionWorkout ProjectionKind = "workout"
)

// DayProjection is the engine's answer to "what is scheduled on this date".
type DayProjection struct {
	Date       time.Time      `json:"-"`
	DateISO    string         `json:"date"`
	DayOfMonth int            `json:"dayOfMonth"`
	Kind       ProjectionKind `json:"kind"`
	WeekNumber int            `json:"weekNumber,omitempty"`
	PhaseID    string         `json:"phaseId,omitempty"`
	WeekID     string         `json:"weekId,omitempty"`
	// Day is set for workout and test projections only.
	Day *Day `json:"day,omitempty"`
	// InSelectedPhase marks weeks owned by the phase the user is browsing.
	InSelectedPhase bool `json:"inSelectedPhase"`
}

// Code returns the assigned day's code, or "" for rest/outside.
func (p DayProjection) Code() string {
	if p.Day == nil {
		return ""
	}
	return p.Day.Code
}

// WorkoutKey returns the completed-workout id for the projected day, if any.
func (p DayProjection) WorkoutKey() (string, bool) {
	if p.Day == nil {
		return "", false
	}
	return WorkoutKey(p.PhaseID, p.WeekID, p.Day.ID), true
}

// ActiveWeek is the resolved (Phase, Week) pair the user is currently in.
type ActiveWeek struct {
	WeekNumber int    `json:"weekNumber"`
	Phase      *Phase `json:"phase"`
	Week       *Week  `json:"week"`
}
