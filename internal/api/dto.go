package api

import (
	"time"

	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/stats"
)

// --- Programs ---

type ProgramSummaryResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	StartDate     *string `json:"startDate,omitempty"`
	EndDate       *string `json:"endDate,omitempty"`
	DurationWeeks int     `json:"durationWeeks"`
	TotalWeeks    int     `json:"totalWeeks"`
	PhaseCount    int     `json:"phaseCount"`
}

type SelectProgramRequest struct {
	ProgramID string `json:"programId" binding:"required"`
	StartDate string `json:"startDate"` // YYYY-MM-DD, optional
}

// --- Progress ---

type PhaseResponse struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name,omitempty"`
}

type ActiveWeekResponse struct {
	ProgramID  string             `json:"programId"`
	Date       string             `json:"date"`
	WeekNumber int                `json:"weekNumber"`
	Phase      PhaseResponse      `json:"phase"`
	Week       *domain.Week       `json:"week"`
	Progress   stats.WeekProgress `json:"progress"`
}

type WeekResponse struct {
	Week      *domain.Week       `json:"week"`
	Phase     PhaseResponse      `json:"phase"`
	Available bool               `json:"available"`
	Progress  stats.WeekProgress `json:"progress"`
}

type DayResponse struct {
	Projection domain.DayProjection `json:"projection"`
	Available  bool                 `json:"available"`
	// Completed is the toggle state of the projected day; false when nothing is projected.
	Completed bool `json:"completed"`
}

// --- Completions ---

type ToggleResponse struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type SaveSessionRequest struct {
	Date      string               `json:"date" binding:"required"`
	ProgramID string               `json:"programId" binding:"required"`
	DayID     string               `json:"dayId" binding:"required"`
	Completed *bool                `json:"completed"` // defaults to true
	Exercises []domain.ExerciseLog `json:"exercises" binding:"required"`
}

// --- Mappers ---

func MapProgramToSummary(p *domain.Program) ProgramSummaryResponse {
	if p == nil {
		return ProgramSummaryResponse{}
	}
	resp := ProgramSummaryResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		DurationWeeks: p.DurationWeeks,
		TotalWeeks:    p.TotalWeeks(),
		PhaseCount:    len(p.Phases),
	}
	if p.StartDate != nil {
		resp.StartDate = isoDatePtr(*p.StartDate)
		resp.EndDate = isoDatePtr(*p.EndDate())
	}
	return resp
}

func MapProgramsToSummaries(programs []domain.Program) []ProgramSummaryResponse {
	out := make([]ProgramSummaryResponse, 0, len(programs))
	for i := range programs {
		out = append(out, MapProgramToSummary(&programs[i]))
	}
	return out
}

func MapPhaseToResponse(p *domain.Phase) PhaseResponse {
	if p == nil {
		return PhaseResponse{}
	}
	return PhaseResponse{ID: p.ID, Number: p.Number, Name: p.Name}
}

func (r SaveSessionRequest) toRecord() domain.CompletionRecord {
	completed := true
	if r.Completed != nil {
		completed = *r.Completed
	}
	return domain.CompletionRecord{
		Date:      r.Date,
		ProgramID: r.ProgramID,
		DayID:     r.DayID,
		Completed: completed,
		Exercises: r.Exercises,
	}
}

func isoDatePtr(t time.Time) *string {
	s := domain.FormatISODate(t)
	return &s
}
