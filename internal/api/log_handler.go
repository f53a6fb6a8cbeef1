package api

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LogHandler holds the log service dependency.
type LogHandler struct {
	logService service.LogService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// --- DTOs for API ---

// LogWorkoutRequest carries one exercise log draft per workout exercise, in
// workout order.
type LogWorkoutRequest struct {
	ExerciseLogs []domain.ExerciseLogDraft `json:"exerciseLogs" binding:"required"`
}

// WorkoutLogResponse is the DTO for one logged session.
type WorkoutLogResponse struct {
	ID           string                `json:"id"`
	WorkoutID    string                `json:"workoutId"`
	CreationDate time.Time             `json:"creationDate"`
	ExerciseLogs []ExerciseLogResponse `json:"exerciseLogs"`
}

// ExerciseLogResponse carries one exercise's logged sets.
type ExerciseLogResponse struct {
	ID         string           `json:"id"`
	ExerciseID string           `json:"exerciseId"`
	SetLogs    []SetLogResponse `json:"setLogs"`
}

// SetLogResponse carries one performed set.
type SetLogResponse struct {
	ID     string `json:"id"`
	Order  int    `json:"order"`
	Reps   int    `json:"reps"`
	Weight int    `json:"weight"`
}

// MapWorkoutLogDetailToResponse converts a domain.WorkoutLogDetail to its DTO.
func MapWorkoutLogDetailToResponse(detail *domain.WorkoutLogDetail) WorkoutLogResponse {
	if detail == nil {
		return WorkoutLogResponse{}
	}
	response := WorkoutLogResponse{
		ID:           detail.WorkoutLog.ID.Hex(),
		WorkoutID:    detail.WorkoutLog.WorkoutID.Hex(),
		CreationDate: detail.WorkoutLog.CreationDate,
		ExerciseLogs: make([]ExerciseLogResponse, 0, len(detail.ExerciseLogs)),
	}
	for _, exerciseLogDetail := range detail.ExerciseLogs {
		exerciseLogResponse := ExerciseLogResponse{
			ID:         exerciseLogDetail.ExerciseLog.ID.Hex(),
			ExerciseID: exerciseLogDetail.ExerciseLog.ExerciseID.Hex(),
			SetLogs:    make([]SetLogResponse, 0, len(exerciseLogDetail.SetLogs)),
		}
		for _, setLog := range exerciseLogDetail.SetLogs {
			exerciseLogResponse.SetLogs = append(exerciseLogResponse.SetLogs, SetLogResponse{
				ID:     setLog.ID.Hex(),
				Order:  setLog.Order,
				Reps:   setLog.Reps,
				Weight: setLog.Weight,
			})
		}
		response.ExerciseLogs = append(response.ExerciseLogs, exerciseLogResponse)
	}
	return response
}

// --- Handler Methods ---

// LogWorkout godoc
// @Summary Log a workout session
// @Description Validates the exercise log drafts and commits one session atomically against the workout.
// @Tags Logs
// @Accept json
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Success 201 {object} WorkoutLogResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId}/logs [post]
func (h *LogHandler) LogWorkout(c *gin.Context) {
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	detail, err := h.logService.LogWorkout(c.Request.Context(), workoutID, req.ExerciseLogs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout not found.")
		case errors.Is(err, domain.ErrNegativeSetValue),
			errors.Is(err, service.ErrExerciseLogMismatch):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to log workout: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutLogDetailToResponse(detail))
}

// GetWorkoutLogs returns a workout's logged sessions, newest first.
func (h *LogHandler) GetWorkoutLogs(c *gin.Context) {
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	logs, err := h.logService.WorkoutLogs(c.Request.Context(), workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch logs: "+err.Error())
		return
	}
	responses := make([]WorkoutLogResponse, len(logs))
	for i := range logs {
		responses[i] = MapWorkoutLogDetailToResponse(&logs[i])
	}
	c.JSON(http.StatusOK, responses)
}
