package api

import (
	"net/http"
	"time"

	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

// CompletionHandler serves toggles, the session log and statistics.
type CompletionHandler struct {
	completionService service.CompletionService
	now               func() time.Time
}

func NewCompletionHandler(completionService service.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		completionService: completionService,
		now:               time.Now,
	}
}

// ToggleWorkout handles POST /completions/workouts/:id/toggle
// The id is "{phaseId}-{weekId}-{dayId}".
func (h *CompletionHandler) ToggleWorkout(c *gin.Context) {
	id := c.Param("id")
	done, err := h.completionService.ToggleWorkout(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{ID: id, Completed: done})
}

// ToggleExercise handles POST /completions/exercises/:id/toggle
// The id is "{dayId}-{exerciseId}".
func (h *CompletionHandler) ToggleExercise(c *gin.Context) {
	id := c.Param("id")
	done, err := h.completionService.ToggleExercise(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{ID: id, Completed: done})
}

// ListCompletedWorkouts handles GET /completions/workouts
func (h *CompletionHandler) ListCompletedWorkouts(c *gin.Context) {
	ids, err := h.completionService.CompletedWorkoutIDs(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// ListCompletedExercises handles GET /completions/exercises
func (h *CompletionHandler) ListCompletedExercises(c *gin.Context) {
	ids, err := h.completionService.CompletedExerciseIDs(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// SaveSession handles POST /sessions
func (h *CompletionHandler) SaveSession(c *gin.Context) {
	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	saved, err := h.completionService.SaveSession(c.Request.Context(), req.toRecord())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListSessions handles GET /sessions?programId=
func (h *CompletionHandler) ListSessions(c *gin.Context) {
	var (
		sessions []domain.CompletionRecord
		err      error
	)
	if programID := c.Query("programId"); programID != "" {
		sessions, err = h.completionService.ListSessionsByProgram(c.Request.Context(), programID)
	} else {
		sessions, err = h.completionService.ListSessions(c.Request.Context())
	}
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if sessions == nil {
		sessions = []domain.CompletionRecord{}
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSessionForDate handles GET /sessions/:date
func (h *CompletionHandler) GetSessionForDate(c *gin.Context) {
	session, err := h.completionService.FindSessionForDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetStats handles GET /stats?today=
func (h *CompletionHandler) GetStats(c *gin.Context) {
	today, ok := parseDateQuery(c, "today", h.now)
	if !ok {
		return
	}
	st, err := h.completionService.GetStats(c.Request.Context(), today)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
