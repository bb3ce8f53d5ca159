package api

import (
	"net/http"

	"alcyxob/fitness-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	programService service.ProgramService,
	progressService service.ProgressService,
	completionService service.CompletionService,
) {
	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(programService)
	progressHandler := NewProgressHandler(programService, progressService, completionService)
	completionHandler := NewCompletionHandler(completionService)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Program Catalog ---
		programGroup := protected.Group("/programs")
		{
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.POST("", programHandler.ImportPrograms)
			programGroup.GET("/current", programHandler.GetCurrentProgram)
			programGroup.PUT("/current", programHandler.SelectProgram)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.DELETE("/:programId", programHandler.DeleteProgram)
		}

		// --- Progression & Calendar ---
		protected.GET("/progress/active", progressHandler.GetActiveWeek)
		protected.GET("/progress/weeks/:weekNumber", progressHandler.GetWeek)
		protected.GET("/calendar", progressHandler.GetMonth)
		protected.GET("/calendar/:date", progressHandler.GetDay)

		// --- Completion State ---
		completionGroup := protected.Group("/completions")
		{
			completionGroup.POST("/workouts/:id/toggle", completionHandler.ToggleWorkout)
			completionGroup.POST("/exercises/:id/toggle", completionHandler.ToggleExercise)
			completionGroup.GET("/workouts", completionHandler.ListCompletedWorkouts)
			completionGroup.GET("/exercises", completionHandler.ListCompletedExercises)
		}

		// --- Session Log ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", completionHandler.SaveSession)
			sessionGroup.GET("", completionHandler.ListSessions)
			sessionGroup.GET("/:date", completionHandler.GetSessionForDate)
		}

		protected.GET("/stats", completionHandler.GetStats)
	}
}
