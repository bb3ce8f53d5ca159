// Package stats derives totals and streaks from the session log.
package stats

import (
	"sort"
	"time"

	"alcyxob/fitness-calendar/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Stats is what the presentation layer shows on the dashboard.
type Stats struct {
	Total  int `json:"total"`
	Streak int `json:"streak"`
}

// Compute returns both metrics for the given log.
func Compute(records []domain.CompletionRecord, today time.Time) Stats {
	return Stats{
		Total:  TotalCompleted(records),
		Streak: ConsecutiveDays(records, today),
	}
}

// TotalCompleted counts completed records; several on one date each count.
func TotalCompleted(records []domain.CompletionRecord) int {
	total := 0
	for _, r := range records {
		if r.Completed {
			total++
		}
	}
	return total
}

// ConsecutiveDays is the streak of distinct completed dates ending today or
// yesterday. A most recent completion older than yesterday breaks it to 0.
func ConsecutiveDays(records []domain.CompletionRecord, today time.Time) int {
	dates := completedDates(records, today.Location())
	// sessions dated after today neither start nor extend a streak
	for len(dates) > 0 && domain.DaysBetween(dates[0], today) < 0 {
		dates = dates[1:]
	}
	if len(dates) == 0 {
		return 0
	}

	if domain.DaysBetween(dates[0], today) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if domain.DaysBetween(dates[i], dates[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// completedDates returns distinct completed dates, newest first.
func completedDates(records []domain.CompletionRecord, loc *time.Location) []time.Time {
	seen := make(map[string]struct{})
	var dates []time.Time
	for _, r := range records {
		if !r.Completed {
			continue
		}
		if _, ok := seen[r.Date]; ok {
			continue
		}
		d, err := domain.ParseISODate(r.Date, loc)
		if err != nil {
			log.Warnf("stats: skipping session with bad date %q (program %s, day %s)", r.Date, r.ProgramID, r.DayID)
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates
}

// WeekProgress is how many of a week's days were toggled complete.
type WeekProgress struct {
	WeekNumber int     `json:"weekNumber"`
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ComputeWeekProgress checks every day of the week against the
// completed-workout set.
func ComputeWeekProgress(week *domain.Week, completed map[string]struct{}) WeekProgress {
	wp := WeekProgress{}
	if week == nil {
		return wp
	}
	wp.WeekNumber = week.WeekNumber
	wp.Total = len(week.Days)
	for _, d := range week.Days {
		if _, ok := completed[domain.WorkoutKey(week.PhaseID, week.ID, d.ID)]; ok {
			wp.Completed++
		}
	}
	if wp.Total > 0 {
		p := float64(wp.Completed) / float64(wp.Total) * 100
		// leave only 2 decimals
		wp.Percentage = float64(int(p*100)) / 100
	}
	return wp
}
