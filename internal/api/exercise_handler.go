package api

import (
	"errors"
	"net/http"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler exposes the catalog maintenance surface.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// UpsertExerciseRequest is one record in a bulk-upsert batch. The slug is
// always derived server-side from the name.
type UpsertExerciseRequest struct {
	ID        int64    `json:"id" binding:"required"`
	Name      string   `json:"name" binding:"required"`
	Aliases   []string `json:"aliases"`
	BodyPart  string   `json:"bodyPart"`
	Equipment []string `json:"equipment"`
	Pattern   string   `json:"pattern"`
}

// BulkUpsert ingests a capped batch of catalog records and reports what
// was inserted, updated, and skipped.
func (h *ExerciseHandler) BulkUpsert(c *gin.Context) {
	var reqs []UpsertExerciseRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	records := make([]domain.ExerciseRecord, len(reqs))
	for i, r := range reqs {
		records[i] = domain.ExerciseRecord{
			ID:        r.ID,
			Name:      r.Name,
			Aliases:   r.Aliases,
			BodyPart:  r.BodyPart,
			Equipment: r.Equipment,
			Pattern:   r.Pattern,
		}
	}

	summary, err := h.exerciseService.BulkUpsert(c.Request.Context(), records)
	if err != nil {
		if errors.Is(err, service.ErrBatchTooLarge) || errors.Is(err, service.ErrEmptyBatch) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to upsert exercises.")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListExercises returns the full catalog.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises.")
		return
	}
	c.JSON(http.StatusOK, exercises)
}
