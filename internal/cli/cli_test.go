package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alcyxob/fitness-calendar/internal/service"
	"alcyxob/fitness-calendar/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseProgramYAML = `
id: base-2
name: Base Building
durationWeeks: 2
phases:
  - id: ph1
    number: 1
    name: Base
    weeks:
      - id: w1
        weekNumber: 1
        days:
          - id: d1
            type: workout
            code: A1
            exercises:
              - id: e1
                name: Squat
                sets: 3
                reps: "8"
          - id: d2
            type: workout
            code: A2
          - id: t1
            type: test
            code: TEST
      - id: w2
        weekNumber: 2
        days:
          - id: d3
            type: workout
            code: B1
`

// newWorkspace writes a config pointing at a fresh sqlite file plus the
// program file, and returns the config dir and program path.
func newWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("storage:\n  backend: sqlite\n  sqlite_path: %q\n", filepath.Join(dir, "fit.db"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o644))

	programPath := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(programPath, []byte(baseProgramYAML), 0o644))
	return dir, programPath
}

func run(t *testing.T, configDir, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configDir}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fitcal", cmd.Use)

	for _, name := range []string{"import", "programs", "select", "active", "calendar", "day",
		"toggle-workout", "toggle-exercise", "log", "sessions", "stats"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	dir, _ := newWorkspace(t)
	_, err := run(t, dir, "", "--format", "xml", "programs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestImportAndSelect(t *testing.T) {
	dir, programPath := newWorkspace(t)

	out, err := run(t, dir, "", "programs")
	require.NoError(t, err)
	assert.Contains(t, out, "no programs imported")

	out, err = run(t, dir, "", "import", programPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported base-2 (Base Building), 2 weeks")

	// the first program is current until one is selected
	out, err = run(t, dir, "", "--format", "json", "programs")
	require.NoError(t, err)
	programs := decodeData[[]ProgramSummary](t, out)
	require.Len(t, programs, 1)
	assert.True(t, programs[0].Current)
	assert.Empty(t, programs[0].StartDate)

	out, err = run(t, dir, "", "select", "base-2", "--start", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "starts 2024-01-01, 2 weeks")

	_, err = run(t, dir, "", "select", "missing")
	assert.ErrorIs(t, err, service.ErrProgramNotFound)

	_, err = run(t, dir, "", "select", "base-2", "--start", "01/01/2024")
	assert.Error(t, err)
}

func TestActiveCalendarAndDay(t *testing.T) {
	dir, programPath := newWorkspace(t)
	_, err := run(t, dir, "", "import", programPath)
	require.NoError(t, err)
	_, err = run(t, dir, "", "select", "base-2", "--start", "2024-01-01")
	require.NoError(t, err)

	out, err := run(t, dir, "", "--format", "json", "active", "--date", "2024-01-08")
	require.NoError(t, err)
	active := decodeData[ActiveWeekView](t, out)
	assert.Equal(t, 2, active.WeekNumber)
	assert.Equal(t, "ph1", active.PhaseID)
	assert.Equal(t, "w2", active.Week.ID)

	out, err = run(t, dir, "", "calendar", "--year", "2024", "--month", "1", "--today", "2024-01-03")
	require.NoError(t, err)
	assert.Contains(t, out, "January 2024 (active week 1)")
	assert.Contains(t, out, " 1 A1")
	assert.Contains(t, out, " 2 -")
	assert.Contains(t, out, " 3 A2")
	assert.Contains(t, out, " 6 TEST")
	assert.Contains(t, out, " 8 B1#")

	out, err = run(t, dir, "", "day", "2024-01-01", "--today", "2024-01-03")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-01: workout A1 (week 1)")
	assert.Contains(t, out, "- Squat 3x8  [d1-e1]")

	out, err = run(t, dir, "", "day", "2024-01-20")
	require.NoError(t, err)
	assert.Contains(t, out, "outside the program")

	out, err = run(t, dir, "", "--format", "json", "day", "2024-01-09", "--today", "2024-01-03")
	require.NoError(t, err)
	day := decodeData[DayView](t, out)
	assert.Equal(t, "rest", string(day.Projection.Kind))
	assert.False(t, day.Available)
}

func TestDayAvailableWhenStructureIsShort(t *testing.T) {
	dir, _ := newWorkspace(t)
	shortPath := filepath.Join(dir, "short.yaml")
	require.NoError(t, os.WriteFile(shortPath, []byte(`
id: short-4
name: Short
durationWeeks: 4
phases:
  - id: ph1
    number: 1
    weeks:
      - {id: w1, weekNumber: 1, days: [{id: d1, type: workout, code: A1}]}
      - {id: w2, weekNumber: 2, days: [{id: d2, type: workout, code: B1}]}
`), 0o644))
	_, err := run(t, dir, "", "import", shortPath)
	require.NoError(t, err)
	_, err = run(t, dir, "", "select", "short-4", "--start", "2024-01-01")
	require.NoError(t, err)

	out, err := run(t, dir, "", "--format", "json", "day", "2024-01-08", "--today", "2024-01-22")
	require.NoError(t, err)
	day := decodeData[DayView](t, out)
	assert.Equal(t, 2, day.Projection.WeekNumber)
	assert.True(t, day.Available)
}

func TestToggleShowsInCalendar(t *testing.T) {
	dir, programPath := newWorkspace(t)
	_, err := run(t, dir, "", "import", programPath)
	require.NoError(t, err)
	_, err = run(t, dir, "", "select", "base-2", "--start", "2024-01-01")
	require.NoError(t, err)

	out, err := run(t, dir, "", "toggle-workout", "ph1-w1-d1")
	require.NoError(t, err)
	assert.Equal(t, "ph1-w1-d1: completed\n", out)

	out, err = run(t, dir, "", "calendar", "--year", "2024", "--month", "1", "--today", "2024-01-03")
	require.NoError(t, err)
	assert.Contains(t, out, " 1 A1+")

	out, err = run(t, dir, "", "--format", "json", "active", "--date", "2024-01-02")
	require.NoError(t, err)
	active := decodeData[ActiveWeekView](t, out)
	assert.Equal(t, []string{"d1"}, active.Completed)
	assert.Equal(t, 1, active.Progress.Completed)
	assert.Equal(t, 3, active.Progress.Total)

	out, err = run(t, dir, "", "toggle-workout", "ph1-w1-d1")
	require.NoError(t, err)
	assert.Equal(t, "ph1-w1-d1: not completed\n", out)

	out, err = run(t, dir, "", "--format", "json", "toggle-exercise", "d1-e1")
	require.NoError(t, err)
	assert.True(t, decodeData[ToggleResult](t, out).Completed)
}

func TestLogSessionsAndStats(t *testing.T) {
	dir, _ := newWorkspace(t)

	_, err := run(t, dir, `{"date": "2024-01-01", "programId": "base-2", "dayId": "d1",
		"exercises": [{"id": "e1", "name": "Squat", "notes": "  "}]}`, "log", "-")
	assert.ErrorIs(t, err, service.ErrNoExerciseData)

	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		session := `{"date": "` + date + `", "programId": "base-2", "dayId": "d1",
			"exercises": [{"id": "e1", "name": "Squat", "actualSets": 3}, {"id": "e2", "name": "Row"}]}`
		out, err := run(t, dir, session, "log", "-")
		require.NoError(t, err)
		assert.Contains(t, out, "with 1 exercise(s)")
	}

	sessionPath := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(sessionPath, []byte(`{"date": "2024-01-03", "programId": "other", "dayId": "x",
		"exercises": [{"id": "e9", "name": "Run", "actualDistance": "5km"}]}`), 0o644))
	_, err = run(t, dir, "", "log", sessionPath)
	require.NoError(t, err)

	out, err := run(t, dir, "", "sessions", "--program", "base-2")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-01-02")
	assert.NotContains(t, out, "2024-01-03")

	out, err = run(t, dir, "", "--format", "json", "stats", "--today", "2024-01-04")
	require.NoError(t, err)
	assert.Equal(t, stats.Stats{Total: 3, Streak: 3}, decodeData[stats.Stats](t, out))

	out, err = run(t, dir, "", "stats", "--today", "2024-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, "total completed: 3")
	assert.Contains(t, out, "current streak:  0 day(s)")
}
