package api

import (
	"alcyxob/gymtrackr/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface over the services.
func SetupRoutes(
	router *gin.Engine,
	draftService service.DraftService,
	programService service.ProgramService,
	logService service.LogService,
) {
	draftHandler := NewDraftHandler(draftService)
	programHandler := NewProgramHandler(programService)
	logHandler := NewLogHandler(logService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// --- Draft Routes (single resume slot) ---
		draftGroup := apiV1.Group("/drafts")
		{
			draftGroup.GET("/program", draftHandler.GetOngoingDraft)
			draftGroup.PUT("/program", draftHandler.ReplaceOngoingDraft)
			draftGroup.DELETE("/program", draftHandler.DiscardOngoingDraft)
			draftGroup.GET("/program/watch", draftHandler.WatchOngoingDraft)
			// POST /api/v1/drafts/program/workouts - merge a workout draft
			draftGroup.POST("/program/workouts", draftHandler.SaveWorkoutDraft)
		}

		// --- Program Routes ---
		programGroup := apiV1.Group("/programs")
		{
			programGroup.POST("", programHandler.SaveProgram)
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/current", programHandler.GetCurrentProgram)
			programGroup.GET("/watch", programHandler.WatchPrograms)
			programGroup.GET("/:id", programHandler.GetProgram)
			programGroup.PATCH("/:id", programHandler.RenameProgram)
			programGroup.DELETE("/:id", programHandler.DeleteProgram)
		}

		// --- Workout Log Routes ---
		workoutGroup := apiV1.Group("/workouts")
		{
			workoutGroup.POST("/:workoutId/logs", logHandler.LogWorkout)
			workoutGroup.GET("/:workoutId/logs", logHandler.GetWorkoutLogs)
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
