package kv

import (
	"context"
	"sync"

	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/repository"
	"alcyxob/fitness-calendar/internal/storage"
)

// completionRepository keeps the sets and the session log in memory after
// the first read and rewrites the whole affected key on every mutation.
type completionRepository struct {
	store     storage.KeyValueStore
	onCorrupt repository.CorruptionHook

	mutex          sync.Mutex
	workouts       idSet // nil until hydrated
	exercises      idSet
	sessions       []domain.CompletionRecord
	sessionsLoaded bool
}

// NewCompletionRepository creates a new KV-backed completion repository.
// onCorrupt may be nil.
func NewCompletionRepository(store storage.KeyValueStore, onCorrupt repository.CorruptionHook) repository.CompletionRepository {
	return &completionRepository{
		store:     store,
		onCorrupt: onCorrupt,
	}
}

func (r *completionRepository) WorkoutCompleted(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, err := r.loadSet(ctx, repository.KeyCompletedWorkouts, &r.workouts)
	if err != nil {
		return false, err
	}
	return set.has(id), nil
}

func (r *completionRepository) ToggleWorkout(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.toggle(ctx, repository.KeyCompletedWorkouts, &r.workouts, id)
}

func (r *completionRepository) ExerciseCompleted(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, err := r.loadSet(ctx, repository.KeyCompletedExercises, &r.exercises)
	if err != nil {
		return false, err
	}
	return set.has(id), nil
}

func (r *completionRepository) ToggleExercise(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.toggle(ctx, repository.KeyCompletedExercises, &r.exercises, id)
}

func (r *completionRepository) CompletedWorkoutIDs(ctx context.Context) ([]string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, err := r.loadSet(ctx, repository.KeyCompletedWorkouts, &r.workouts)
	if err != nil {
		return nil, err
	}
	return set.slice(), nil
}

func (r *completionRepository) CompletedExerciseIDs(ctx context.Context) ([]string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, err := r.loadSet(ctx, repository.KeyCompletedExercises, &r.exercises)
	if err != nil {
		return nil, err
	}
	return set.slice(), nil
}

func (r *completionRepository) UpsertSession(ctx context.Context, record domain.CompletionRecord) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.loadSessions(ctx); err != nil {
		return false, err
	}

	previous := r.sessions
	next := make([]domain.CompletionRecord, 0, len(previous)+1)
	replaced := false
	for _, existing := range previous {
		if existing.SameKey(record) {
			if !replaced {
				next = append(next, record)
				replaced = true
			}
			// later duplicates of the key are dropped
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, record)
	}

	if err := writeJSON(ctx, r.store, repository.KeySessions, next); err != nil {
		return false, err
	}
	r.sessions = next
	return replaced, nil
}

func (r *completionRepository) ListSessions(ctx context.Context) ([]domain.CompletionRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.loadSessions(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.CompletionRecord, len(r.sessions))
	copy(out, r.sessions)
	return out, nil
}

// --- Internal Helpers ---

func (r *completionRepository) loadSet(ctx context.Context, key string, cached *idSet) (idSet, error) {
	if *cached != nil {
		return *cached, nil
	}
	ids, err := readJSON[[]string](ctx, r.store, key, r.onCorrupt)
	if err != nil {
		return nil, err
	}
	*cached = newIDSet(ids)
	return *cached, nil
}

func (r *completionRepository) toggle(ctx context.Context, key string, cached *idSet, id string) (bool, error) {
	set, err := r.loadSet(ctx, key, cached)
	if err != nil {
		return false, err
	}

	now := set.flip(id)
	if err := writeJSON(ctx, r.store, key, set.slice()); err != nil {
		set.flip(id) // roll back
		return !now, err
	}
	return now, nil
}

func (r *completionRepository) loadSessions(ctx context.Context) error {
	if r.sessionsLoaded {
		return nil
	}
	sessions, err := readJSON[[]domain.CompletionRecord](ctx, r.store, repository.KeySessions, r.onCorrupt)
	if err != nil {
		return err
	}
	r.sessions = sessions
	r.sessionsLoaded = true
	return nil
}
