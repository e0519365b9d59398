package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "test-secret"

type stubGenerationService struct {
	dayResult  service.DayRequestResult
	weekResult []service.WeekDayStatus
	day        *domain.WorkoutDay
	week       []domain.WorkoutDay
	err        error
	lastUserID string
	lastDate   string
}

func (s *stubGenerationService) RequestDay(_ context.Context, userID, date string) (service.DayRequestResult, error) {
	s.lastUserID, s.lastDate = userID, date
	return s.dayResult, s.err
}

func (s *stubGenerationService) RequestWeek(_ context.Context, userID string) ([]service.WeekDayStatus, error) {
	s.lastUserID = userID
	return s.weekResult, s.err
}

func (s *stubGenerationService) GetDay(_ context.Context, userID, date string) (*domain.WorkoutDay, error) {
	s.lastUserID, s.lastDate = userID, date
	return s.day, s.err
}

func (s *stubGenerationService) GetWeek(_ context.Context, userID string) ([]domain.WorkoutDay, error) {
	s.lastUserID = userID
	return s.week, s.err
}

func (s *stubGenerationService) Wait() {}

type stubExerciseService struct {
	summary   service.BulkUpsertSummary
	exercises []domain.ExerciseRecord
	err       error
	received  []domain.ExerciseRecord
}

func (s *stubExerciseService) BulkUpsert(_ context.Context, records []domain.ExerciseRecord) (service.BulkUpsertSummary, error) {
	s.received = records
	return s.summary, s.err
}

func (s *stubExerciseService) ListExercises(_ context.Context) ([]domain.ExerciseRecord, error) {
	return s.exercises, s.err
}

func setupTestRouter(gen service.GenerationService, ex service.ExerciseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testJWTSecret, gen, ex)
	return router
}

func authToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPingIsUnauthenticated(t *testing.T) {
	router := setupTestRouter(&stubGenerationService{}, &stubExerciseService{})

	w := doRequest(t, router, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "pong"}`, w.Body.String())
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := setupTestRouter(&stubGenerationService{}, &stubExerciseService{})

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day?date=2026-03-04", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRejectBadSignature(t *testing.T) {
	router := setupTestRouter(&stubGenerationService{}, &stubExerciseService{})
	token := authToken(t, "some-other-secret", "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day?date=2026-03-04", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateDayAccepted(t *testing.T) {
	gen := &stubGenerationService{
		dayResult: service.DayRequestResult{Status: service.RequestGenerating, Message: "workout generation started"},
	}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/workouts/generate-day", token, `{"date": "2026-03-04"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var result service.DayRequestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, service.RequestGenerating, result.Status)

	assert.Equal(t, "user-1", gen.lastUserID)
	assert.Equal(t, "2026-03-04", gen.lastDate)
}

func TestGenerateDayRejectsMissingDate(t *testing.T) {
	router := setupTestRouter(&stubGenerationService{}, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/workouts/generate-day", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateDayRejectsInvalidDate(t *testing.T) {
	gen := &stubGenerationService{err: service.ErrInvalidDate}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/workouts/generate-day", token, `{"date": "04-03-2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date")
}

func TestGetDayReturnsReadyPayload(t *testing.T) {
	completed := time.Date(2026, time.March, 4, 10, 30, 0, 0, time.UTC)
	gen := &stubGenerationService{day: &domain.WorkoutDay{
		ID:     primitive.NewObjectID(),
		UserID: "user-1",
		Date:   "2026-03-04",
		Status: domain.StatusReady,
		Payload: &domain.WorkoutPayload{
			Date:            "2026-03-04",
			Title:           "Midweek Full Body",
			DurationMinutes: 30,
			Blocks: []domain.WorkoutBlock{
				{Type: domain.BlockWarmup, Items: []domain.WorkoutItem{
					{ExerciseID: 5, Name: "Jumping Jacks", Sets: 1, Reps: domain.Reps{Count: 20}},
				}},
			},
		},
		CompletedAt: &completed,
	}}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day?date=2026-03-04", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string                 `json:"status"`
		Payload *domain.WorkoutPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, "Midweek Full Body", resp.Payload.Title)
	assert.Equal(t, 20, resp.Payload.Blocks[0].Items[0].Reps.Count)
}

func TestGetDayReturnsErrorReasonPayload(t *testing.T) {
	gen := &stubGenerationService{day: &domain.WorkoutDay{
		ID:          primitive.NewObjectID(),
		UserID:      "user-1",
		Date:        "2026-03-04",
		Status:      domain.StatusError,
		ErrorReason: "generation call timeout after 45s",
	}}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day?date=2026-03-04", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string `json:"status"`
		Payload struct {
			ErrorReason string `json:"error_reason"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "generation call timeout after 45s", resp.Payload.ErrorReason)
}

func TestGetDayPendingHasNoPayload(t *testing.T) {
	gen := &stubGenerationService{day: &domain.WorkoutDay{
		ID:     primitive.NewObjectID(),
		UserID: "user-1",
		Date:   "2026-03-05",
		Status: domain.StatusPending,
	}}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day?date=2026-03-05", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, hasPayload := resp["payload"]
	assert.False(t, hasPayload)
}

func TestGetDayNotFound(t *testing.T) {
	gen := &stubGenerationService{err: service.ErrDayNotFound}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day?date=2026-03-04", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestGetDayRequiresDateParam(t *testing.T) {
	router := setupTestRouter(&stubGenerationService{}, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/day", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateWeekAccepted(t *testing.T) {
	gen := &stubGenerationService{weekResult: []service.WeekDayStatus{
		{Date: "2026-03-02", Status: service.RequestPending},
		{Date: "2026-03-04", Status: service.RequestGenerating},
	}}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/workouts/generate-week", token, "")
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		Days []service.WeekDayStatus `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-03-04", resp.Days[1].Date)
}

func TestGetWeekReturnsAllRows(t *testing.T) {
	gen := &stubGenerationService{week: []domain.WorkoutDay{
		{ID: primitive.NewObjectID(), UserID: "user-1", Date: "2026-03-02", Status: domain.StatusPending},
		{ID: primitive.NewObjectID(), UserID: "user-1", Date: "2026-03-04", Status: domain.StatusError, ErrorReason: "generation call failed: boom"},
	}}
	router := setupTestRouter(gen, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/workouts/week", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Days []struct {
			Date    string          `json:"date"`
			Status  string          `json:"status"`
			Payload json.RawMessage `json:"payload"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "pending", resp.Days[0].Status)
	assert.Nil(t, resp.Days[0].Payload)
	assert.JSONEq(t, `{"error_reason": "generation call failed: boom"}`, string(resp.Days[1].Payload))
}
