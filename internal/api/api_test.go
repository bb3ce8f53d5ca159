package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-calendar/internal/metrics"
	"alcyxob/fitness-calendar/internal/repository/kv"
	"alcyxob/fitness-calendar/internal/service"
	"alcyxob/fitness-calendar/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testProgramJSON = `{
	"id": "base-2",
	"name": "Base Building",
	"startDate": "2024-01-01",
	"durationWeeks": 2,
	"phases": [{
		"id": "ph1", "number": 1, "name": "Base",
		"weeks": [
			{"id": "w1", "weekNumber": 1, "days": [
				{"id": "d1", "type": "workout", "code": "A1", "exercises": [{"id": "e1", "name": "Squat", "sets": 3, "reps": "8"}]},
				{"id": "d2", "type": "workout", "code": "A2"},
				{"id": "t1", "type": "test", "code": "TEST"}
			]},
			{"id": "w2", "weekNumber": 2, "days": [
				{"id": "d3", "type": "workout", "code": "B1"}
			]}
		]
	}]
}`

type testServer struct {
	router  *gin.Engine
	metrics *metrics.Manager
}

func newTestServer(t *testing.T, passwordHash string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.NewTestManager()
	store := storage.NewMemoryStore()

	authService, err := service.NewAuthService(passwordHash, "test-secret", time.Hour)
	require.NoError(t, err)
	programService := service.NewProgramService(kv.NewProgramRepository(store, m.StorageCorrupt))
	completionService := service.NewCompletionService(kv.NewCompletionRepository(store, m.StorageCorrupt), m)

	router := gin.New()
	router.Use(PanicRecovery(m), RequestMetrics(m))
	SetupRoutes(router, authService, programService, service.NewProgressService(), completionService)

	return &testServer{router: router, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) importProgram(t *testing.T) {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/v1/programs", testProgramJSON)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestPing(t *testing.T) {
	s := newTestServer(t, "")
	rr := s.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rr.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterRequests.WithLabelValues("GET", "200")))
}

func TestPrograms_ImportListSelect(t *testing.T) {
	s := newTestServer(t, "")

	rr := s.do(t, http.MethodGet, "/api/v1/programs/current", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	s.importProgram(t)

	rr = s.do(t, http.MethodGet, "/api/v1/programs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	summaries := decode[[]ProgramSummaryResponse](t, rr)
	require.Len(t, summaries, 1)
	assert.Equal(t, "base-2", summaries[0].ID)
	require.NotNil(t, summaries[0].StartDate)
	assert.Equal(t, "2024-01-01", *summaries[0].StartDate)
	assert.Equal(t, "2024-01-15", *summaries[0].EndDate)

	rr = s.do(t, http.MethodPut, "/api/v1/programs/current", `{"programId": "base-2", "startDate": "2024-02-05"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "2024-02-05", *decode[ProgramSummaryResponse](t, rr).StartDate)

	rr = s.do(t, http.MethodPut, "/api/v1/programs/current", `{"programId": "nope"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPut, "/api/v1/programs/current", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/programs/base-2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"phaseId":"ph1"`)

	rr = s.do(t, http.MethodDelete, "/api/v1/programs/base-2", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/programs/base-2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPrograms_ImportRejectsBadBody(t *testing.T) {
	s := newTestServer(t, "")

	rr := s.do(t, http.MethodPost, "/api/v1/programs", `{"phases": [{"number": 1, "weeks": [{"weekNumber": 1, "days": [{"type": "nap"}]}]}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/programs", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProgress_ActiveWeek(t *testing.T) {
	s := newTestServer(t, "")
	s.importProgram(t)

	rr := s.do(t, http.MethodGet, "/api/v1/progress/active?date=2024-01-08", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	active := decode[ActiveWeekResponse](t, rr)
	assert.Equal(t, 2, active.WeekNumber)
	assert.Equal(t, "w2", active.Week.ID)
	assert.Equal(t, "ph1", active.Phase.ID)

	rr = s.do(t, http.MethodGet, "/api/v1/progress/active?date=2023-12-01", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[ActiveWeekResponse](t, rr).WeekNumber)

	rr = s.do(t, http.MethodGet, "/api/v1/progress/active?date=01-08-2024", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProgress_WeekAvailability(t *testing.T) {
	s := newTestServer(t, "")
	s.importProgram(t)

	rr := s.do(t, http.MethodGet, "/api/v1/progress/weeks/2?today=2024-01-03", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[WeekResponse](t, rr).Available)

	rr = s.do(t, http.MethodGet, "/api/v1/progress/weeks/2?today=2024-01-09", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[WeekResponse](t, rr).Available)

	rr = s.do(t, http.MethodGet, "/api/v1/progress/weeks/9", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/progress/weeks/zero", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type cellJSON struct {
	Date       string `json:"date"`
	InMonth    bool   `json:"inMonth"`
	Available  bool   `json:"available"`
	Projection *struct {
		Kind string `json:"kind"`
		Day  *struct {
			Code string `json:"code"`
		} `json:"day"`
	} `json:"projection"`
}

func TestCalendar_Month(t *testing.T) {
	s := newTestServer(t, "")
	s.importProgram(t)

	rr := s.do(t, http.MethodGet, "/api/v1/calendar?year=2024&month=1&today=2024-01-03", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	month := decode[struct {
		ActiveWeek      int          `json:"activeWeek"`
		SelectedPhaseID string       `json:"selectedPhaseId"`
		Weeks           [][]cellJSON `json:"weeks"`
	}](t, rr)
	assert.Equal(t, 1, month.ActiveWeek)
	assert.Equal(t, "ph1", month.SelectedPhaseID)
	require.Len(t, month.Weeks, 5)

	first := month.Weeks[0]
	assert.Equal(t, "2024-01-01", first[0].Date)
	assert.Equal(t, "A1", first[0].Projection.Day.Code) // Monday
	assert.Equal(t, "rest", first[1].Projection.Kind)   // Tuesday
	assert.Equal(t, "A2", first[2].Projection.Day.Code) // Wednesday
	assert.Equal(t, "A1", first[4].Projection.Day.Code) // Friday
	assert.Equal(t, "test", first[5].Projection.Kind)   // Saturday
	assert.Equal(t, "rest", first[6].Projection.Kind)   // Sunday
	assert.True(t, first[0].Available)

	second := month.Weeks[1]
	assert.Equal(t, "B1", second[0].Projection.Day.Code)
	assert.False(t, second[0].Available)

	third := month.Weeks[2]
	assert.Equal(t, "outside", third[0].Projection.Kind)

	last := month.Weeks[4]
	assert.False(t, last[6].InMonth)
	assert.Nil(t, last[6].Projection)

	rr = s.do(t, http.MethodGet, "/api/v1/calendar?month=13", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProgress_ShortStructureKeepsElapsedWeeksOpen(t *testing.T) {
	s := newTestServer(t, "")
	rr := s.do(t, http.MethodPost, "/api/v1/programs", `{
		"id": "short-4", "name": "Short", "startDate": "2024-01-01", "durationWeeks": 4,
		"phases": [{"id": "ph1", "number": 1, "weeks": [
			{"id": "w1", "weekNumber": 1, "days": [{"id": "d1", "type": "workout", "code": "A1"}]},
			{"id": "w2", "weekNumber": 2, "days": [{"id": "d2", "type": "workout", "code": "B1"}]}
		]}]
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// week 4 is not in the structure, so the active week falls back to week 1
	rr = s.do(t, http.MethodGet, "/api/v1/progress/active?date=2024-01-22", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "w1", decode[ActiveWeekResponse](t, rr).Week.ID)

	rr = s.do(t, http.MethodGet, "/api/v1/progress/weeks/2?today=2024-01-22", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[WeekResponse](t, rr).Available)

	rr = s.do(t, http.MethodGet, "/api/v1/calendar/2024-01-08?today=2024-01-22", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	day := decode[DayResponse](t, rr)
	assert.Equal(t, "B1", day.Projection.Code())
	assert.True(t, day.Available)

	rr = s.do(t, http.MethodGet, "/api/v1/calendar/2024-01-08?today=2024-01-03", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[DayResponse](t, rr).Available)

	rr = s.do(t, http.MethodGet, "/api/v1/calendar?year=2024&month=1&today=2024-01-22", "")
	require.Equal(t, http.StatusOK, rr.Code)
	month := decode[struct {
		ActiveWeek int          `json:"activeWeek"`
		Weeks      [][]cellJSON `json:"weeks"`
	}](t, rr)
	assert.Equal(t, 4, month.ActiveWeek)
	assert.Equal(t, "2024-01-08", month.Weeks[1][0].Date)
	assert.True(t, month.Weeks[1][0].Available)
}

func TestCalendar_DayAndToggle(t *testing.T) {
	s := newTestServer(t, "")
	s.importProgram(t)

	rr := s.do(t, http.MethodGet, "/api/v1/calendar/2024-01-06", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	day := decode[DayResponse](t, rr)
	assert.Equal(t, "TEST", day.Projection.Code())
	assert.Equal(t, 6, day.Projection.DayOfMonth)
	assert.False(t, day.Completed)

	key, ok := day.Projection.WorkoutKey()
	require.True(t, ok)
	assert.Equal(t, "ph1-w1-t1", key)

	rr = s.do(t, http.MethodPost, "/api/v1/completions/workouts/"+key+"/toggle", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[ToggleResponse](t, rr).Completed)

	rr = s.do(t, http.MethodGet, "/api/v1/calendar/2024-01-06", "")
	assert.True(t, decode[DayResponse](t, rr).Completed)

	rr = s.do(t, http.MethodPost, "/api/v1/completions/workouts/"+key+"/toggle", "")
	assert.False(t, decode[ToggleResponse](t, rr).Completed)

	rr = s.do(t, http.MethodGet, "/api/v1/completions/workouts", "")
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/v1/completions/exercises/d1-e1/toggle", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/completions/exercises", "")
	assert.JSONEq(t, `["d1-e1"]`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/v1/calendar/not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessions_SaveListStats(t *testing.T) {
	s := newTestServer(t, "")

	rr := s.do(t, http.MethodPost, "/api/v1/sessions", `{
		"date": "2024-01-01", "programId": "base-2", "dayId": "d1",
		"exercises": [{"id": "e1", "name": "Squat", "notes": ""}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		rr = s.do(t, http.MethodPost, "/api/v1/sessions", `{
			"date": "`+date+`", "programId": "base-2", "dayId": "d1",
			"exercises": [{"id": "e1", "name": "Squat", "actualReps": "8"}, {"id": "e2", "name": "Lunge"}]
		}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	assert.NotContains(t, rr.Body.String(), `"e2"`)

	rr = s.do(t, http.MethodGet, "/api/v1/sessions?programId=base-2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, strings.Count(rr.Body.String(), `"dayId":"d1"`))

	rr = s.do(t, http.MethodGet, "/api/v1/sessions/2024-01-02", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/sessions/2024-02-02", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/stats?today=2024-01-03", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total": 3, "streak": 3}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/v1/stats?today=2024-01-05", "")
	assert.JSONEq(t, `{"total": 3, "streak": 0}`, rr.Body.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterSessionsRejected))
}

func TestAuth_ProtectsRoutesWhenPasswordSet(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)
	s := newTestServer(t, string(hash))

	rr := s.do(t, http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/stats", "", "Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/stats", "", "Authorization", "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/login", `{"password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/login", `{"password": "letmein"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	token := decode[LoginResponse](t, rr).Token
	require.NotEmpty(t, token)

	rr = s.do(t, http.MethodGet, "/api/v1/stats", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewTestManager()
	router := gin.New()
	router.Use(PanicRecovery(m))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterHandleRequestPanic))
}
