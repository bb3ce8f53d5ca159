// internal/domain/program.go
package domain

import (
	"time"
)

// DayType tells the calendar what kind of session a Day prescribes.
type DayType string

const (
	DayTypeWorkout DayType = "workout"
	DayTypeRest    DayType = "rest"
	DayTypeTest    DayType = "test"
)

// IsValid reports whether the day type is one of the known values.
func (t DayType) IsValid() bool {
	switch t {
	case DayTypeWorkout, DayTypeRest, DayTypeTest:
		return true
	default:
		return false
	}
}

// Program is the top-level multi-week training plan.
// It is replaced as a whole whenever its structure changes.
type Program struct {
	ID            string     `bson:"id" json:"id" yaml:"id"`
	Name          string     `bson:"name" json:"name" yaml:"name"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	StartDate     *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty" yaml:"startDate,omitempty"` // nil disables week gating
	DurationWeeks int        `bson:"durationWeeks" json:"durationWeeks" yaml:"durationWeeks"`
	Phases        []Phase    `bson:"phases" json:"phases" yaml:"phases"` // ascending by Number
}

// Phase is a contiguous grouping of weeks with a shared training emphasis.
type Phase struct {
	ID     string `bson:"id" json:"id" yaml:"id"`
	Number int    `bson:"number" json:"number" yaml:"number"`
	Name   string `bson:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Weeks  []Week `bson:"weeks" json:"weeks" yaml:"weeks"`
}

// Week is keyed by WeekNumber, which is global across the whole program (1-based).
type Week struct {
	ID         string `bson:"id" json:"id" yaml:"id"`
	PhaseID    string `bson:"phaseId" json:"phaseId" yaml:"phaseId"` // display grouping only
	WeekNumber int    `bson:"weekNumber" json:"weekNumber" yaml:"weekNumber"`
	IsTestWeek bool   `bson:"isTestWeek" json:"isTestWeek" yaml:"isTestWeek"`
	Days       []Day  `bson:"days" json:"days" yaml:"days"` // usually fewer than 7
}

// Day is a prescribed session inside a Week.
type Day struct {
	ID        string     `bson:"id" json:"id" yaml:"id"`
	DayNumber int        `bson:"dayNumber" json:"dayNumber" yaml:"dayNumber"`
	Type      DayType    `bson:"type" json:"type" yaml:"type"`
	Code      string     `bson:"code" json:"code" yaml:"code"` // e.g. "A1", "TEST"
	Name      string     `bson:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Exercises []Exercise `bson:"exercises" json:"exercises" yaml:"exercises"`
}

// Exercise is opaque payload for the engine, it is never mutated.
type Exercise struct {
	ID       string `bson:"id" json:"id" yaml:"id"`
	Name     string `bson:"name" json:"name" yaml:"name"`
	Sets     int    `bson:"sets,omitempty" json:"sets,omitempty" yaml:"sets,omitempty"`
	Reps     string `bson:"reps,omitempty" json:"reps,omitempty" yaml:"reps,omitempty"` // string to allow "8-12" or "AMRAP"
	Rest     string `bson:"rest,omitempty" json:"rest,omitempty" yaml:"rest,omitempty"`
	Tempo    string `bson:"tempo,omitempty" json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Weight   string `bson:"weight,omitempty" json:"weight,omitempty" yaml:"weight,omitempty"`
	Duration string `bson:"duration,omitempty" json:"duration,omitempty" yaml:"duration,omitempty"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TotalWeeks returns DurationWeeks, or the number of weeks in the structure
// when the duration was left unset.
func (p *Program) TotalWeeks() int {
	if p.DurationWeeks > 0 {
		return p.DurationWeeks
	}
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.Weeks)
	}
	return n
}

// EndDate is the first date after the program span, or nil without a start date.
func (p *Program) EndDate() *time.Time {
	if p.StartDate == nil {
		return nil
	}
	end := StartOfDay(*p.StartDate).AddDate(0, 0, p.TotalWeeks()*7)
	return &end
}

// FindWeek scans every phase for the week with the given number.
func (p *Program) FindWeek(weekNumber int) (*Phase, *Week, bool) {
	for i := range p.Phases {
		phase := &p.Phases[i]
		for j := range phase.Weeks {
			if phase.Weeks[j].WeekNumber == weekNumber {
				return phase, &phase.Weeks[j], true
			}
		}
	}
	return nil, nil, false
}

// FirstWeek returns the first week of the first phase that has any.
func (p *Program) FirstWeek() (*Phase, *Week, bool) {
	for i := range p.Phases {
		if len(p.Phases[i].Weeks) > 0 {
			return &p.Phases[i], &p.Phases[i].Weeks[0], true
		}
	}
	return nil, nil, false
}

// PhaseByID returns the phase with the given id.
func (p *Program) PhaseByID(id string) (*Phase, bool) {
	for i := range p.Phases {
		if p.Phases[i].ID == id {
			return &p.Phases[i], true
		}
	}
	return nil, false
}

// HasWeek reports whether the phase owns a week with the given number.
func (ph *Phase) HasWeek(weekNumber int) bool {
	if ph == nil {
		return false
	}
	for _, w := range ph.Weeks {
		if w.WeekNumber == weekNumber {
			return true
		}
	}
	return false
}
