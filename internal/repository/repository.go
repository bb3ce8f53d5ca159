package repository

import (
	"context"

	"alcyxob/fitness-calendar/internal/domain"
)

// Keys of the persisted key space. Each holds one self-contained JSON value.
const (
	KeyPrograms           = "workout_programs"    // []domain.Program
	KeyCompletedWorkouts  = "completed_workouts"  // []string, "{phaseId}-{weekId}-{dayId}"
	KeyCompletedExercises = "completed_exercises" // []string, "{dayId}-{exerciseId}"
	KeySessions           = "workout_completions" // []domain.CompletionRecord
	KeyCurrentProgramID   = "current_program_id"  // string
)

var ErrNotFound = RepositoryError("not found")

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CorruptionHook is told about a persisted key whose value could not be
// parsed and was treated as empty.
type CorruptionHook func(key string)

// ProgramRepository owns the program catalog and the current-program pointer.
type ProgramRepository interface {
	List(ctx context.Context) ([]domain.Program, error)
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	// Save inserts the program or replaces the whole structure of the one
	// with the same id.
	Save(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id string) error
	SetCurrentID(ctx context.Context, id string) error
	// Current resolves the pointer to a program. A missing or dangling
	// pointer falls back to the first program of the catalog; an empty
	// catalog yields ErrNotFound.
	Current(ctx context.Context) (*domain.Program, error)
}

// CompletionRepository holds the completed-workout and completed-exercise
// sets and the session log.
type CompletionRepository interface {
	WorkoutCompleted(ctx context.Context, id string) (bool, error)
	// ToggleWorkout flips membership and returns the new state.
	ToggleWorkout(ctx context.Context, id string) (bool, error)
	ExerciseCompleted(ctx context.Context, id string) (bool, error)
	ToggleExercise(ctx context.Context, id string) (bool, error)
	CompletedWorkoutIDs(ctx context.Context) ([]string, error)
	CompletedExerciseIDs(ctx context.Context) ([]string, error)

	// UpsertSession replaces any record with the same (date, programId, dayId).
	// It reports whether a record was replaced.
	UpsertSession(ctx context.Context, record domain.CompletionRecord) (bool, error)
	ListSessions(ctx context.Context) ([]domain.CompletionRecord, error)
}
