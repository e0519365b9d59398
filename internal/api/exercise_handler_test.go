package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsertReturnsSummary(t *testing.T) {
	ex := &stubExerciseService{summary: service.BulkUpsertSummary{Inserted: 1, Updated: 1}}
	router := setupTestRouter(&stubGenerationService{}, ex)
	token := authToken(t, testJWTSecret, "admin-1")

	body := `[
	  {"id": 1, "name": "Push-Ups", "bodyPart": "chest"},
	  {"id": 2, "name": "Bodyweight Squats", "bodyPart": "legs"}
	]`
	w := doRequest(t, router, http.MethodPost, "/api/v1/exercises/bulk-upsert", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	var summary service.BulkUpsertSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)

	require.Len(t, ex.received, 2)
	assert.Equal(t, "Push-Ups", ex.received[0].Name)
}

func TestBulkUpsertRejectsOversizedBatch(t *testing.T) {
	ex := &stubExerciseService{err: service.ErrBatchTooLarge}
	router := setupTestRouter(&stubGenerationService{}, ex)
	token := authToken(t, testJWTSecret, "admin-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/exercises/bulk-upsert", token, `[{"id": 1, "name": "Push-Ups"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkUpsertStoreOutageAnswers500(t *testing.T) {
	ex := &stubExerciseService{err: errors.New("connection refused")}
	router := setupTestRouter(&stubGenerationService{}, ex)
	token := authToken(t, testJWTSecret, "admin-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/exercises/bulk-upsert", token, `[{"id": 1, "name": "Push-Ups"}]`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "validationErrors")
}

func TestBulkUpsertRejectsMalformedBody(t *testing.T) {
	router := setupTestRouter(&stubGenerationService{}, &stubExerciseService{})
	token := authToken(t, testJWTSecret, "admin-1")

	w := doRequest(t, router, http.MethodPost, "/api/v1/exercises/bulk-upsert", token, `{"id": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListExercises(t *testing.T) {
	ex := &stubExerciseService{exercises: []domain.ExerciseRecord{
		{ID: 1, Slug: "push-ups", Name: "Push-Ups"},
		{ID: 2, Slug: "plank", Name: "Plank"},
	}}
	router := setupTestRouter(&stubGenerationService{}, ex)
	token := authToken(t, testJWTSecret, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/exercises", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []domain.ExerciseRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "plank", records[1].Slug)
}
