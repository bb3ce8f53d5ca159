package calendar

import (
	"time"

	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/progression"
)

// Cell is one square of a displayed month.
type Cell struct {
	Date    time.Time `json:"-"`
	DateISO string    `json:"date"`
	InMonth bool      `json:"inMonth"`
	// Projection is nil for overflow days from adjacent months.
	Projection *domain.DayProjection `json:"projection,omitempty"`
	// Available is false for dates in weeks that are still locked.
	Available bool `json:"available"`
	IsToday   bool `json:"isToday"`
}

// MonthView is a Monday-first grid covering a whole month.
type MonthView struct {
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	ActiveWeek int        `json:"activeWeek"`
	Weeks      [][]Cell   `json:"weeks"`
}

// ProjectMonth builds the grid for year/month. Overflow days at either end are
// included so every row has seven cells, but carry no projection.
func ProjectMonth(year int, month time.Month, program *domain.Program, selectedPhase *domain.Phase, now time.Time) MonthView {
	loc := now.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -(domain.ISOWeekday(first) - 1))
	gridEnd := last.AddDate(0, 0, 7-domain.ISOWeekday(last))

	activeWeek := progression.ActiveWeekNumber(program, now)
	view := MonthView{
		Year:       year,
		Month:      month,
		ActiveWeek: activeWeek,
	}

	var row []Cell
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		cell := Cell{
			Date:    d,
			DateISO: domain.FormatISODate(d),
			InMonth: d.Month() == month,
			IsToday: domain.DaysBetween(d, now) == 0,
		}
		if cell.InMonth {
			p := Project(d, program, selectedPhase)
			cell.Projection = &p
			cell.Available = p.Kind != domain.ProjectionOutside &&
				progression.IsWeekNumberAvailable(program, p.WeekNumber, activeWeek)
		}
		row = append(row, cell)
		if len(row) == 7 {
			view.Weeks = append(view.Weeks, row)
			row = nil
		}
	}
	return view
}
