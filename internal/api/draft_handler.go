package api

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/service"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DraftHandler holds the draft service dependency.
type DraftHandler struct {
	draftService service.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// --- DTOs for API ---

// SaveWorkoutDraftRequest merges a workout draft into the ongoing program
// draft. Index, when present, replaces the workout at that position;
// otherwise the workout is appended.
type SaveWorkoutDraftRequest struct {
	Index   *int                `json:"index"`
	Workout domain.WorkoutDraft `json:"workout" binding:"required"`
}

// --- Handler Methods ---

// GetOngoingDraft godoc
// @Summary Get the ongoing program draft
// @Description Returns the resumable draft from the single slot, or 404 when none exists.
// @Tags Drafts
// @Produce json
// @Success 200 {object} domain.ProgramDraft
// @Failure 404 {object} gin.H "No ongoing draft"
// @Router /drafts/program [get]
func (h *DraftHandler) GetOngoingDraft(c *gin.Context) {
	draft, err := h.draftService.Ongoing(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read draft: "+err.Error())
		return
	}
	if draft == nil {
		abortWithError(c, http.StatusNotFound, "No ongoing draft.")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ReplaceOngoingDraft overwrites the slot with the given draft. An empty
// draft clears the slot.
func (h *DraftHandler) ReplaceOngoingDraft(c *gin.Context) {
	var draft domain.ProgramDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.draftService.ReplaceOngoing(c.Request.Context(), draft); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to store draft: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// DiscardOngoingDraft clears the slot.
func (h *DraftHandler) DiscardOngoingDraft(c *gin.Context) {
	if err := h.draftService.Discard(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to discard draft: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveWorkoutDraft godoc
// @Summary Save a workout draft
// @Description Validates the workout draft and merges it into the ongoing program draft (replace at index, or append). Returns the merged draft.
// @Tags Drafts
// @Accept json
// @Produce json
// @Success 200 {object} domain.ProgramDraft
// @Failure 400 {object} gin.H "Validation or index error"
// @Router /drafts/program/workouts [post]
func (h *DraftHandler) SaveWorkoutDraft(c *gin.Context) {
	var req SaveWorkoutDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	merged, err := h.draftService.SaveWorkoutDraft(c.Request.Context(), req.Workout, req.Index)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingWorkoutName),
			errors.Is(err, domain.ErrMissingExerciseName),
			errors.Is(err, domain.ErrMissingExerciseSetCount),
			errors.Is(err, service.ErrWorkoutDraftIndex):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save workout draft: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, merged)
}

// WatchOngoingDraft streams slot changes over SSE. A cleared slot is sent as
// a null payload.
func (h *DraftHandler) WatchOngoingDraft(c *gin.Context) {
	changes, err := h.draftService.WatchOngoing(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to watch draft: "+err.Error())
		return
	}

	c.Stream(func(w io.Writer) bool {
		draft, ok := <-changes
		if !ok {
			return false
		}
		c.SSEvent("draft", draft)
		return true
	})
}
