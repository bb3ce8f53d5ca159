// Package calendar projects the abstract program structure onto concrete
// calendar dates.
package calendar

import (
	"time"

	"alcyxob/fitness-calendar/internal/domain"
)

// ISO weekdays used by the distribution rule.
const (
	monday    = 1
	wednesday = 3
	friday    = 5
	saturday  = 6
	sunday    = 7
)

// AssignWeekday decides what a weekday gets out of a week's workout and test
// days. The stored week rarely has seven entries, so the rule is fixed:
//
//	Sunday               rest
//	Saturday             first test day, rest when there is none
//	Monday/Wed/Friday    workoutDays[(isoWeekday-1)/2 % len], rest when empty
//	Tuesday/Thursday     rest
func AssignWeekday(isoWeekday int, workoutDays, testDays []domain.Day) (domain.ProjectionKind, *domain.Day) {
	switch isoWeekday {
	case sunday:
		return domain.ProjectionRest, nil
	case saturday:
		if len(testDays) == 0 {
			return domain.ProjectionRest, nil
		}
		day := testDays[0]
		return domain.ProjectionTest, &day
	case monday, wednesday, friday:
		if len(workoutDays) == 0 {
			return domain.ProjectionRest, nil
		}
		day := workoutDays[((isoWeekday-1)/2)%len(workoutDays)]
		return domain.ProjectionWorkout, &day
	default:
		return domain.ProjectionRest, nil
	}
}

// SplitDays partitions a week's days into workout and test days, keeping order.
func SplitDays(days []domain.Day) (workoutDays, testDays []domain.Day) {
	for _, d := range days {
		switch d.Type {
		case domain.DayTypeWorkout:
			workoutDays = append(workoutDays, d)
		case domain.DayTypeTest:
			testDays = append(testDays, d)
		}
	}
	return workoutDays, testDays
}

// WeekNumberOn returns the program week a date falls in, and false when the
// date is outside the running span (no start date, before it, or past the
// last week).
func WeekNumberOn(program *domain.Program, date time.Time) (int, bool) {
	if program == nil || program.StartDate == nil {
		return 0, false
	}
	elapsedDays := domain.DaysBetween(*program.StartDate, date)
	if elapsedDays < 0 {
		return 0, false
	}
	weekNumber := elapsedDays/7 + 1
	if weekNumber > program.TotalWeeks() {
		return 0, false
	}
	return weekNumber, true
}

// Project works out what is scheduled on date. The week is looked up across
// all phases; selectedPhase only decides InSelectedPhase.
func Project(date time.Time, program *domain.Program, selectedPhase *domain.Phase) domain.DayProjection {
	day := domain.StartOfDay(date)
	projection := domain.DayProjection{
		Date:       day,
		DateISO:    domain.FormatISODate(day),
		DayOfMonth: day.Day(),
		Kind:       domain.ProjectionOutside,
	}

	weekNumber, ok := WeekNumberOn(program, day)
	if !ok {
		return projection
	}
	projection.WeekNumber = weekNumber
	projection.InSelectedPhase = selectedPhase.HasWeek(weekNumber)

	phase, week, found := program.FindWeek(weekNumber)
	if !found {
		// inside the span but missing from the structure: nothing scheduled
		projection.Kind = domain.ProjectionRest
		return projection
	}
	projection.PhaseID = phase.ID
	projection.WeekID = week.ID

	workoutDays, testDays := SplitDays(week.Days)
	projection.Kind, projection.Day = AssignWeekday(domain.ISOWeekday(day), workoutDays, testDays)
	return projection
}
