package api

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/service"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs for API (Data Transfer Objects) ---

// SaveProgramRequest optionally carries the draft to commit. When omitted,
// the ongoing draft from the resume store is saved.
type SaveProgramRequest struct {
	Draft *domain.ProgramDraft `json:"draft"`
}

// RenameProgramRequest carries the new program name.
type RenameProgramRequest struct {
	Name string `json:"name" binding:"required"`
}

// ProgramResponse is the DTO for returning program summary details.
type ProgramResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
	UpdateDate   time.Time `json:"updateDate"`
}

// ProgramDetailResponse is the full hierarchical projection DTO.
type ProgramDetailResponse struct {
	ProgramResponse
	Workouts []WorkoutDetailResponse `json:"workouts"`
}

// WorkoutDetailResponse carries one workout and its ordered exercises.
type WorkoutDetailResponse struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Order     int                       `json:"order"`
	Exercises []WorkoutExerciseResponse `json:"exercises"`
}

// WorkoutExerciseResponse carries one exercise of a workout.
type WorkoutExerciseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	SetCount int    `json:"setCount"`
}

// MapProgramToResponse converts a domain.Program to ProgramResponse DTO.
func MapProgramToResponse(program *domain.Program) ProgramResponse {
	if program == nil {
		return ProgramResponse{}
	}
	return ProgramResponse{
		ID:           program.ID.Hex(),
		Name:         program.Name,
		CreationDate: program.CreationDate,
		UpdateDate:   program.UpdateDate,
	}
}

// MapProgramDetailToResponse converts a domain.ProgramDetail to its DTO.
func MapProgramDetailToResponse(detail *domain.ProgramDetail) ProgramDetailResponse {
	if detail == nil {
		return ProgramDetailResponse{}
	}
	response := ProgramDetailResponse{
		ProgramResponse: MapProgramToResponse(&detail.Program),
		Workouts:        make([]WorkoutDetailResponse, 0, len(detail.Workouts)),
	}
	for _, workoutDetail := range detail.Workouts {
		workoutResponse := WorkoutDetailResponse{
			ID:        workoutDetail.Workout.ID.Hex(),
			Name:      workoutDetail.Workout.Name,
			Order:     workoutDetail.Workout.Order,
			Exercises: make([]WorkoutExerciseResponse, 0, len(workoutDetail.Exercises)),
		}
		for _, exercise := range workoutDetail.Exercises {
			workoutResponse.Exercises = append(workoutResponse.Exercises, WorkoutExerciseResponse{
				ID:       exercise.ID.Hex(),
				Name:     exercise.Name,
				Order:    exercise.Order,
				SetCount: exercise.SetCount,
			})
		}
		response.Workouts = append(response.Workouts, workoutResponse)
	}
	return response
}

// MapProgramDetailsToResponse converts a snapshot of program details.
func MapProgramDetailsToResponse(details []domain.ProgramDetail) []ProgramDetailResponse {
	responses := make([]ProgramDetailResponse, len(details))
	for i := range details {
		responses[i] = MapProgramDetailToResponse(&details[i])
	}
	return responses
}

// --- Handler Methods ---

// SaveProgram godoc
// @Summary Save a program
// @Description Validates the draft (given or ongoing) and commits it atomically. Clears the resume slot on success.
// @Tags Programs
// @Accept json
// @Produce json
// @Success 201 {object} ProgramDetailResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 500 {object} gin.H "Storage error"
// @Router /programs [post]
func (h *ProgramHandler) SaveProgram(c *gin.Context) {
	var req SaveProgramRequest
	// The body is optional; an empty body means "save the ongoing draft".
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	detail, err := h.programService.SaveProgram(c.Request.Context(), req.Draft)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingProgramName),
			errors.Is(err, domain.ErrMissingWorkout),
			errors.Is(err, service.ErrNoOngoingDraft):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save program: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, MapProgramDetailToResponse(detail))
}

// GetCurrentProgram godoc
// @Summary Get the current program
// @Description Returns the most recently updated program as an ordered hierarchical projection.
// @Tags Programs
// @Produce json
// @Success 200 {object} ProgramDetailResponse
// @Failure 404 {object} gin.H "No program exists"
// @Router /programs/current [get]
func (h *ProgramHandler) GetCurrentProgram(c *gin.Context) {
	detail, err := h.programService.CurrentProgram(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch current program: "+err.Error())
		return
	}
	if detail == nil {
		abortWithError(c, http.StatusNotFound, "No program exists yet.")
		return
	}
	c.JSON(http.StatusOK, MapProgramDetailToResponse(detail))
}

// ListPrograms godoc
// @Summary List programs
// @Description Returns program summaries ordered by update date descending.
// @Tags Programs
// @Produce json
// @Success 200 {array} ProgramResponse
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.ListPrograms(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs: "+err.Error())
		return
	}
	responses := make([]ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = MapProgramToResponse(&programs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetProgram returns one program's hierarchical projection by ID.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.programService.GetProgram(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, "Program not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch program: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, MapProgramDetailToResponse(detail))
}

// RenameProgram updates a program's name (and thereby its update date).
func (h *ProgramHandler) RenameProgram(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req RenameProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.RenameProgram(c.Request.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, "Program not found.")
		case errors.Is(err, domain.ErrMissingProgramName):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to rename program: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// DeleteProgram removes a program and its whole subtree.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.programService.DeleteProgram(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, "Program not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete program: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// WatchPrograms streams full program-list snapshots over SSE: one event per
// underlying change, each carrying the complete recomputed ordered list.
func (h *ProgramHandler) WatchPrograms(c *gin.Context) {
	snapshots, err := h.programService.WatchPrograms(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to watch programs: "+err.Error())
		return
	}

	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-snapshots
		if !ok {
			return false
		}
		c.SSEvent("programs", MapProgramDetailsToResponse(snapshot))
		return true
	})
}

// objectIDParam parses a hex ObjectID path parameter, aborting on failure.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}
