package api

import (
	"net/http"
	"strconv"
	"time"

	"alcyxob/fitness-calendar/internal/calendar"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves the active week, week details and the calendar.
// All dates are YYYY-MM-DD in the server's local zone.
type ProgressHandler struct {
	programService    service.ProgramService
	progressService   service.ProgressService
	completionService service.CompletionService
	now               func() time.Time
}

func NewProgressHandler(
	programService service.ProgramService,
	progressService service.ProgressService,
	completionService service.CompletionService,
) *ProgressHandler {
	return &ProgressHandler{
		programService:    programService,
		progressService:   progressService,
		completionService: completionService,
		now:               time.Now,
	}
}

type MonthResponse struct {
	calendar.MonthView
	ProgramID         string   `json:"programId"`
	SelectedPhaseID   string   `json:"selectedPhaseId,omitempty"`
	CompletedWorkouts []string `json:"completedWorkouts"`
}

// GetActiveWeek handles GET /progress/active?date=
func (h *ProgressHandler) GetActiveWeek(c *gin.Context) {
	program, ok := h.loadProgram(c)
	if !ok {
		return
	}
	date, ok := h.dateQuery(c, "date")
	if !ok {
		return
	}

	active := h.progressService.ResolveActive(program, date)
	if active == nil {
		abortWithServiceError(c, service.ErrNoActiveWeek)
		return
	}

	progress, err := h.completionService.WeekProgress(c.Request.Context(), active.Week)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ActiveWeekResponse{
		ProgramID:  program.ID,
		Date:       domain.FormatISODate(date),
		WeekNumber: active.WeekNumber,
		Phase:      MapPhaseToResponse(active.Phase),
		Week:       active.Week,
		Progress:   progress,
	})
}

// GetWeek handles GET /progress/weeks/:weekNumber?today=
func (h *ProgressHandler) GetWeek(c *gin.Context) {
	weekNumber, err := strconv.Atoi(c.Param("weekNumber"))
	if err != nil || weekNumber < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid week number in URL path.")
		return
	}
	program, ok := h.loadProgram(c)
	if !ok {
		return
	}
	today, ok := h.dateQuery(c, "today")
	if !ok {
		return
	}

	phase, week, found := program.FindWeek(weekNumber)
	if !found {
		abortWithError(c, http.StatusNotFound, "week not found in program")
		return
	}

	progress, err := h.completionService.WeekProgress(c.Request.Context(), week)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, WeekResponse{
		Week:      week,
		Phase:     MapPhaseToResponse(phase),
		Available: h.progressService.IsAvailable(program, week, h.progressService.ActiveWeekNumber(program, today)),
		Progress:  progress,
	})
}

// GetMonth handles GET /calendar?year=&month=&phase=&today=
func (h *ProgressHandler) GetMonth(c *gin.Context) {
	program, ok := h.loadProgram(c)
	if !ok {
		return
	}
	today, ok := h.dateQuery(c, "today")
	if !ok {
		return
	}

	year, month := today.Year(), today.Month()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid year.")
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			abortWithError(c, http.StatusBadRequest, "Invalid month, expected 1-12.")
			return
		}
		month = time.Month(m)
	}

	selected := h.selectedPhase(c, program, today)
	view := h.progressService.ProjectMonth(year, month, program, selected, today)

	completed, err := h.completionService.CompletedWorkoutIDs(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	resp := MonthResponse{
		MonthView:         view,
		ProgramID:         program.ID,
		CompletedWorkouts: completed,
	}
	if selected != nil {
		resp.SelectedPhaseID = selected.ID
	}
	c.JSON(http.StatusOK, resp)
}

// GetDay handles GET /calendar/:date?phase=&today=
func (h *ProgressHandler) GetDay(c *gin.Context) {
	date, err := domain.ParseISODate(c.Param("date"), time.Local)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	program, ok := h.loadProgram(c)
	if !ok {
		return
	}
	today, ok := h.dateQuery(c, "today")
	if !ok {
		return
	}

	projection := h.progressService.Project(date, program, h.selectedPhase(c, program, today))
	resp := DayResponse{Projection: projection}

	if projection.Kind != domain.ProjectionOutside {
		_, week, found := program.FindWeek(projection.WeekNumber)
		if found {
			resp.Available = h.progressService.IsAvailable(program, week, h.progressService.ActiveWeekNumber(program, today))
		}
	}

	if key, ok := projection.WorkoutKey(); ok {
		completed, err := h.completionService.CompletedWorkoutIDs(c.Request.Context())
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		for _, id := range completed {
			if id == key {
				resp.Completed = true
				break
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// --- Helpers ---

// loadProgram uses ?programId= when given, the current program otherwise.
func (h *ProgressHandler) loadProgram(c *gin.Context) (*domain.Program, bool) {
	var (
		program *domain.Program
		err     error
	)
	if id := c.Query("programId"); id != "" {
		program, err = h.programService.Get(c.Request.Context(), id)
	} else {
		program, err = h.programService.Current(c.Request.Context())
	}
	if err != nil {
		abortWithServiceError(c, err)
		return nil, false
	}
	return program, true
}

func (h *ProgressHandler) dateQuery(c *gin.Context, name string) (time.Time, bool) {
	return parseDateQuery(c, name, h.now)
}

// selectedPhase is ?phase= when it names a phase of the program, the
// active phase otherwise.
func (h *ProgressHandler) selectedPhase(c *gin.Context, program *domain.Program, today time.Time) *domain.Phase {
	if id := c.Query("phase"); id != "" {
		if phase, ok := program.PhaseByID(id); ok {
			return phase
		}
	}
	if active := h.progressService.ResolveActive(program, today); active != nil {
		return active.Phase
	}
	return nil
}

// parseDateQuery reads an optional YYYY-MM-DD query value, defaulting to now.
func parseDateQuery(c *gin.Context, name string, now func() time.Time) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return now(), true
	}
	t, err := domain.ParseISODate(v, time.Local)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, name+": "+err.Error())
		return time.Time{}, false
	}
	return t, true
}
