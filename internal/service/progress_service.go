package service

import (
	"errors"
	"time"

	"alcyxob/fitness-calendar/internal/calendar"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/progression"
)

// --- Error Definitions ---
var (
	ErrNoActiveWeek = errors.New("program has no weeks to resolve")
	ErrInvalidDate  = domain.ErrInvalidDate
)

// ProgressService answers the time-driven questions about a program: where
// the user is, what a date holds and what is unlocked. It keeps no state.
type ProgressService interface {
	// ActiveWeekNumber is the elapsed-time week that gates availability,
	// whether or not the structure holds that week.
	ActiveWeekNumber(program *domain.Program, now time.Time) int
	ResolveActive(program *domain.Program, now time.Time) *domain.ActiveWeek
	Project(date time.Time, program *domain.Program, selectedPhase *domain.Phase) domain.DayProjection
	ProjectMonth(year int, month time.Month, program *domain.Program, selectedPhase *domain.Phase, now time.Time) calendar.MonthView
	IsAvailable(program *domain.Program, week *domain.Week, activeWeek int) bool
}

type progressService struct{}

func NewProgressService() ProgressService {
	return &progressService{}
}

func (s *progressService) ActiveWeekNumber(program *domain.Program, now time.Time) int {
	return progression.ActiveWeekNumber(program, now)
}

func (s *progressService) ResolveActive(program *domain.Program, now time.Time) *domain.ActiveWeek {
	return progression.ResolveActive(program, now)
}

func (s *progressService) Project(date time.Time, program *domain.Program, selectedPhase *domain.Phase) domain.DayProjection {
	return calendar.Project(date, program, selectedPhase)
}

func (s *progressService) ProjectMonth(year int, month time.Month, program *domain.Program, selectedPhase *domain.Phase, now time.Time) calendar.MonthView {
	return calendar.ProjectMonth(year, month, program, selectedPhase, now)
}

func (s *progressService) IsAvailable(program *domain.Program, week *domain.Week, activeWeek int) bool {
	return progression.IsAvailable(program, week, activeWeek)
}
