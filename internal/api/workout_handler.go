package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler exposes the generation pipeline over HTTP.
type WorkoutHandler struct {
	generationService service.GenerationService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(generationService service.GenerationService) *WorkoutHandler {
	return &WorkoutHandler{generationService: generationService}
}

// --- DTOs ---

// GenerateDayRequest is the body of POST /workouts/generate-day.
type GenerateDayRequest struct {
	Date string `json:"date" binding:"required"`
}

// WorkoutDayResponse is the wire shape of one WorkoutDay row. Payload is
// the generated document for ready rows and {"error_reason": ...} for
// error rows; this union is a compatibility contract with the client.
type WorkoutDayResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MapWorkoutDayToResponse converts a domain.WorkoutDay to its DTO.
func MapWorkoutDayToResponse(day *domain.WorkoutDay) (WorkoutDayResponse, error) {
	resp := WorkoutDayResponse{
		ID:          day.ID.Hex(),
		UserID:      day.UserID,
		Date:        day.Date,
		Status:      string(day.Status),
		CompletedAt: day.CompletedAt,
		CreatedAt:   day.CreatedAt,
		UpdatedAt:   day.UpdatedAt,
	}

	switch day.Status {
	case domain.StatusReady:
		raw, err := json.Marshal(day.Payload)
		if err != nil {
			return WorkoutDayResponse{}, err
		}
		resp.Payload = raw
	case domain.StatusError:
		raw, err := json.Marshal(gin.H{"error_reason": day.ErrorReason})
		if err != nil {
			return WorkoutDayResponse{}, err
		}
		resp.Payload = raw
	}
	return resp, nil
}

// --- Handler methods ---

// GenerateDay accepts a generation request for one date. The call always
// succeeds at the "request accepted" level; pipeline failures surface
// later through the day's status.
func (h *WorkoutHandler) GenerateDay(c *gin.Context) {
	var req GenerateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	result, err := h.generationService.RequestDay(c.Request.Context(), userID, req.Date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to accept generation request.")
		return
	}

	c.JSON(http.StatusAccepted, result)
}

// GetDay returns the WorkoutDay row for ?date=YYYY-MM-DD.
func (h *WorkoutHandler) GetDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'date' is required.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	day, err := h.generationService.GetDay(c.Request.Context(), userID, date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDayNotFound):
			abortWithError(c, http.StatusNotFound, "not_found")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to read workout day.")
		}
		return
	}

	resp, err := MapWorkoutDayToResponse(day)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to encode workout day.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateWeek triggers day generation for the 7 dates of the current week.
func (h *WorkoutHandler) GenerateWeek(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	statuses, err := h.generationService.RequestWeek(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to accept week generation request.")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"days": statuses})
}

// GetWeek returns all WorkoutDay rows of the current week.
func (h *WorkoutHandler) GetWeek(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	days, err := h.generationService.GetWeek(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read workout week.")
		return
	}

	responses := make([]WorkoutDayResponse, 0, len(days))
	for i := range days {
		resp, err := MapWorkoutDayToResponse(&days[i])
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to encode workout day.")
			return
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, gin.H{"days": responses})
}
