// Package progression works out where in a program the user is, purely from
// the program's start date and the current date.
package progression

import (
	"time"

	"alcyxob/fitness-calendar/internal/domain"

	log "github.com/sirupsen/logrus"
)

const daysPerWeek = 7

// ActiveWeekNumber returns the 1-based week the user is in on now.
// Without a start date, or before it, the answer is week 1.
func ActiveWeekNumber(program *domain.Program, now time.Time) int {
	if program == nil || program.StartDate == nil {
		return 1
	}

	elapsedDays := domain.DaysBetween(*program.StartDate, now)
	if elapsedDays < 0 {
		return 1
	}

	return clamp(elapsedDays/daysPerWeek+1, 1, program.TotalWeeks())
}

// ResolveActive maps the active week number onto the program structure.
// A structure without the computed week falls back to its first week; a
// structure without any weeks yields nil.
func ResolveActive(program *domain.Program, now time.Time) *domain.ActiveWeek {
	if program == nil {
		return nil
	}

	weekNumber := ActiveWeekNumber(program, now)
	if phase, week, ok := program.FindWeek(weekNumber); ok {
		return &domain.ActiveWeek{WeekNumber: weekNumber, Phase: phase, Week: week}
	}

	phase, week, ok := program.FirstWeek()
	if !ok {
		log.Warnf("progression: program %q has no weeks", program.ID)
		return nil
	}
	log.Debugf("progression: program %q has no week %d, falling back to week %d", program.ID, weekNumber, week.WeekNumber)
	return &domain.ActiveWeek{WeekNumber: week.WeekNumber, Phase: phase, Week: week}
}

// IsAvailable reports whether a week is unlocked for interaction.
// Locked weeks are still displayed, only interaction is disabled.
func IsAvailable(program *domain.Program, week *domain.Week, activeWeek int) bool {
	if program == nil || program.StartDate == nil {
		return true
	}
	if week == nil {
		return false
	}
	return week.WeekNumber <= activeWeek
}

// IsWeekNumberAvailable is IsAvailable for callers that only hold a number.
func IsWeekNumberAvailable(program *domain.Program, weekNumber, activeWeek int) bool {
	if program == nil || program.StartDate == nil {
		return true
	}
	return weekNumber <= activeWeek
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
