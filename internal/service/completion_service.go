package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/metrics"
	"alcyxob/fitness-calendar/internal/repository"
	"alcyxob/fitness-calendar/internal/stats"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrNoExerciseData   = errors.New("session rejected: no exercise has any recorded data")
	ErrValidationFailed = errors.New("session validation failed: programId and dayId are required")
	ErrSessionNotFound  = errors.New("no session logged for this date")
)

// --- Service Interface ---
type CompletionService interface {
	ToggleWorkout(ctx context.Context, workoutKey string) (bool, error)
	ToggleExercise(ctx context.Context, exerciseKey string) (bool, error)
	CompletedWorkoutIDs(ctx context.Context) ([]string, error)
	CompletedExerciseIDs(ctx context.Context) ([]string, error)

	// SaveSession stores the record without the exercises that carry no
	// data, replacing any record with the same (date, programId, dayId).
	SaveSession(ctx context.Context, record domain.CompletionRecord) (*domain.CompletionRecord, error)
	ListSessions(ctx context.Context) ([]domain.CompletionRecord, error)
	ListSessionsByProgram(ctx context.Context, programID string) ([]domain.CompletionRecord, error)
	FindSessionForDate(ctx context.Context, date string) (*domain.CompletionRecord, error)

	GetStats(ctx context.Context, now time.Time) (stats.Stats, error)
	WeekProgress(ctx context.Context, week *domain.Week) (stats.WeekProgress, error)
}

// --- Service Implementation ---

type completionService struct {
	completionRepo repository.CompletionRepository
	metrics        *metrics.Manager // may be nil
	now            func() time.Time
}

// NewCompletionService creates a new instance of completionService.
func NewCompletionService(completionRepo repository.CompletionRepository, metricsManager *metrics.Manager) CompletionService {
	return &completionService{
		completionRepo: completionRepo,
		metrics:        metricsManager,
		now:            time.Now,
	}
}

func (s *completionService) ToggleWorkout(ctx context.Context, workoutKey string) (bool, error) {
	done, err := s.completionRepo.ToggleWorkout(ctx, workoutKey)
	if err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.CounterWorkoutToggles.Inc()
	}
	return done, nil
}

func (s *completionService) ToggleExercise(ctx context.Context, exerciseKey string) (bool, error) {
	done, err := s.completionRepo.ToggleExercise(ctx, exerciseKey)
	if err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.CounterExerciseToggles.Inc()
	}
	return done, nil
}

func (s *completionService) CompletedWorkoutIDs(ctx context.Context) ([]string, error) {
	return s.completionRepo.CompletedWorkoutIDs(ctx)
}

func (s *completionService) CompletedExerciseIDs(ctx context.Context) ([]string, error) {
	return s.completionRepo.CompletedExerciseIDs(ctx)
}

func (s *completionService) SaveSession(ctx context.Context, record domain.CompletionRecord) (*domain.CompletionRecord, error) {
	// 1. Key validation
	if _, err := domain.ParseISODate(record.Date, nil); err != nil {
		return nil, ErrInvalidDate
	}
	if record.ProgramID == "" || record.DayID == "" {
		return nil, ErrValidationFailed
	}

	// 2. Drop exercises nobody filled in
	exercises := make([]domain.ExerciseLog, 0, len(record.Exercises))
	for _, ex := range record.Exercises {
		if ex.HasData() {
			exercises = append(exercises, ex)
		}
	}
	if len(exercises) == 0 {
		log.Warnf("rejected session %s for program %s day %s: no exercise data", record.Date, record.ProgramID, record.DayID)
		if s.metrics != nil {
			s.metrics.CounterSessionsRejected.Inc()
		}
		return nil, ErrNoExerciseData
	}
	record.Exercises = exercises

	completedAt := s.now().UTC()
	record.CompletedAt = &completedAt

	// 3. Persist
	replaced, err := s.completionRepo.UpsertSession(ctx, record)
	if err != nil {
		return nil, err
	}
	if replaced {
		log.Debugf("replaced session %s for program %s day %s", record.Date, record.ProgramID, record.DayID)
	}
	if s.metrics != nil {
		s.metrics.CounterSessionsSaved.Inc()
	}
	return &record, nil
}

func (s *completionService) ListSessions(ctx context.Context) ([]domain.CompletionRecord, error) {
	return s.completionRepo.ListSessions(ctx)
}

func (s *completionService) ListSessionsByProgram(ctx context.Context, programID string) ([]domain.CompletionRecord, error) {
	sessions, err := s.completionRepo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.CompletionRecord, 0)
	for _, session := range sessions {
		if session.ProgramID == programID {
			filtered = append(filtered, session)
		}
	}
	return filtered, nil
}

// FindSessionForDate returns the first record logged for date.
func (s *completionService) FindSessionForDate(ctx context.Context, date string) (*domain.CompletionRecord, error) {
	if _, err := domain.ParseISODate(date, nil); err != nil {
		return nil, ErrInvalidDate
	}
	sessions, err := s.completionRepo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Date == date {
			return &sessions[i], nil
		}
	}
	return nil, ErrSessionNotFound
}

func (s *completionService) GetStats(ctx context.Context, now time.Time) (stats.Stats, error) {
	sessions, err := s.completionRepo.ListSessions(ctx)
	if err != nil {
		return stats.Stats{}, err
	}
	return stats.Compute(sessions, now), nil
}

func (s *completionService) WeekProgress(ctx context.Context, week *domain.Week) (stats.WeekProgress, error) {
	ids, err := s.completionRepo.CompletedWorkoutIDs(ctx)
	if err != nil {
		return stats.WeekProgress{}, err
	}
	completed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		completed[id] = struct{}{}
	}
	return stats.ComputeWeekProgress(week, completed), nil
}
