package api

import (
	"io"
	"net/http"
	"time"

	"alcyxob/fitness-calendar/internal/catalog"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImportBytes = 8 << 20

// ProgramHandler serves the program catalog and the current-program pointer.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// ListPrograms handles GET /programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.List(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramsToSummaries(programs))
}

// ImportPrograms handles POST /programs. The body is one program or a JSON
// array of programs.
func (h *ProgramHandler) ImportPrograms(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	programs, err := catalog.Parse(body, catalog.FormatJSON)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program: "+err.Error())
		return
	}

	imported, err := h.programService.Import(c.Request.Context(), programs)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramsToSummaries(imported))
}

// GetProgram handles GET /programs/:programId and returns the full structure.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programService.Get(c.Request.Context(), c.Param("programId"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// DeleteProgram handles DELETE /programs/:programId
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	if err := h.programService.Delete(c.Request.Context(), c.Param("programId")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectProgram handles PUT /programs/current
func (h *ProgramHandler) SelectProgram(c *gin.Context) {
	var req SelectProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var startDate *time.Time
	if req.StartDate != "" {
		start, err := domain.ParseISODate(req.StartDate, nil)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		startDate = &start
	}

	program, err := h.programService.Select(c.Request.Context(), req.ProgramID, startDate)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToSummary(program))
}

// GetCurrentProgram handles GET /programs/current
func (h *ProgramHandler) GetCurrentProgram(c *gin.Context) {
	program, err := h.programService.Current(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}
