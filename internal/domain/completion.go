// internal/domain/completion.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// CompletionRecord is one logged session: what the user actually did on a
// given date for a given program day. The (Date, ProgramID, DayID) triple is
// its key; saving again with the same key replaces the record.
type CompletionRecord struct {
	Date        string        `bson:"date" json:"date"` // YYYY-MM-DD
	ProgramID   string        `bson:"programId" json:"programId"`
	DayID       string        `bson:"dayId" json:"dayId"`
	Completed   bool          `bson:"completed" json:"completed"`
	Exercises   []ExerciseLog `bson:"exercises" json:"exercises"`
	CompletedAt *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ExerciseLog holds the actuals for a single exercise inside a session.
// Every field except ID/Name is optional; nil means "not logged".
type ExerciseLog struct {
	ID             string  `bson:"id" json:"id"`
	Name           string  `bson:"name" json:"name"`
	ActualSets     *int    `bson:"actualSets,omitempty" json:"actualSets,omitempty"`
	ActualReps     *string `bson:"actualReps,omitempty" json:"actualReps,omitempty"`
	ActualWeight   *string `bson:"actualWeight,omitempty" json:"actualWeight,omitempty"`
	ActualDuration *string `bson:"actualDuration,omitempty" json:"actualDuration,omitempty"`
	ActualDistance *string `bson:"actualDistance,omitempty" json:"actualDistance,omitempty"`
	Notes          *string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// HasData reports whether at least one actual was logged.
// Blank strings count as absent.
func (e ExerciseLog) HasData() bool {
	if e.ActualSets != nil {
		return true
	}
	for _, s := range []*string{e.ActualReps, e.ActualWeight, e.ActualDuration, e.ActualDistance, e.Notes} {
		if s != nil && strings.TrimSpace(*s) != "" {
			return true
		}
	}
	return false
}

// SameKey reports whether two records share the (date, program, day) key.
func (r CompletionRecord) SameKey(o CompletionRecord) bool {
	return r.Date == o.Date && r.ProgramID == o.ProgramID && r.DayID == o.DayID
}

// WorkoutKey builds the composite id stored in the completed-workout set.
func WorkoutKey(phaseID, weekID, dayID string) string {
	return fmt.Sprintf("%s-%s-%s", phaseID, weekID, dayID)
}

// ExerciseKey builds the composite id stored in the completed-exercise set.
func ExerciseKey(dayID, exerciseID string) string {
	return fmt.Sprintf("%s-%s", dayID, exerciseID)
}
