package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"alcyxob/fitness-calendar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strengthYAML = `
id: strength-12
name: Strength 12
startDate: 2024-01-01
durationWeeks: 12
phases:
  - id: ph2
    number: 2
    weeks:
      - weekNumber: 6
        days:
          - code: B1
            exercises:
              - name: Deadlift
                sets: 5
                reps: "5"
      - weekNumber: 5
        isTestWeek: true
        days:
          - id: t1
            type: test
            code: TEST
  - id: ph1
    number: 1
    weeks:
      - id: w1
        weekNumber: 1
        days:
          - id: d1
            type: workout
            code: A1
            exercises:
              - id: squat
                name: Back Squat
                sets: 4
                reps: 8-12
          - id: r1
`

func TestParse_YAML(t *testing.T) {
	programs, err := Parse([]byte(strengthYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, programs, 1)

	p := programs[0]
	assert.Equal(t, "strength-12", p.ID)
	assert.Equal(t, 12, p.DurationWeeks)
	require.NotNil(t, p.StartDate)
	assert.Equal(t, "2024-01-01", domain.FormatISODate(*p.StartDate))

	// phases and weeks come back ordered
	require.Len(t, p.Phases, 2)
	assert.Equal(t, "ph1", p.Phases[0].ID)
	assert.Equal(t, "ph2", p.Phases[1].ID)
	assert.Equal(t, 5, p.Phases[1].Weeks[0].WeekNumber)
	assert.Equal(t, 6, p.Phases[1].Weeks[1].WeekNumber)

	// ids and phase links are filled in
	for _, phase := range p.Phases {
		for _, week := range phase.Weeks {
			assert.NotEmpty(t, week.ID)
			assert.Equal(t, phase.ID, week.PhaseID)
			for _, day := range week.Days {
				assert.NotEmpty(t, day.ID)
				assert.True(t, day.Type.IsValid())
				for _, ex := range day.Exercises {
					assert.NotEmpty(t, ex.ID)
				}
			}
		}
	}

	week1 := p.Phases[0].Weeks[0]
	assert.Equal(t, "8-12", week1.Days[0].Exercises[0].Reps)
	assert.Equal(t, domain.DayTypeRest, week1.Days[1].Type)

	// missing type with exercises is a workout
	assert.Equal(t, domain.DayTypeWorkout, p.Phases[1].Weeks[1].Days[0].Type)
	assert.True(t, p.Phases[1].Weeks[0].IsTestWeek)
}

func TestParse_JSONList(t *testing.T) {
	data := []byte(`[
		{"id": "a", "name": "A", "durationWeeks": 2, "phases": []},
		{"id": "b", "name": "B", "startDate": "2024-03-04T00:00:00Z", "phases": [
			{"id": "p", "number": 1, "weeks": [{"id": "w", "weekNumber": 1, "days": [{"id": "d", "type": "rest"}]}]}
		]}
	]`)

	programs, err := Parse(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Nil(t, programs[0].StartDate)
	require.NotNil(t, programs[1].StartDate)
	assert.True(t, programs[1].StartDate.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "p", programs[1].Phases[0].Weeks[0].PhaseID)
}

func TestParse_JSONSingleProgramGetsID(t *testing.T) {
	programs, err := Parse([]byte(`{"name": "No id", "startDate": "2024-05-06"}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.NotEmpty(t, programs[0].ID)
	assert.Equal(t, time.May, programs[0].StartDate.Month())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`[]`), FormatJSON)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Parse([]byte(``), FormatYAML)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Parse([]byte(`{"name": "x", "startDate": "next monday"}`), FormatJSON)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = Parse([]byte(`{"phases": [{"number": 1, "weeks": [{"weekNumber": 1, "days": [{"type": "yoga"}]}]}]}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidDayType)

	_, err = Parse([]byte(`{`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte(`x`), Format("toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strength.yml")
	require.NoError(t, os.WriteFile(path, []byte(strengthYAML), 0o644))

	programs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, programs, 1)

	_, err = LoadFile(filepath.Join(dir, "strength.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
