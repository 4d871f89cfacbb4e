package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"heliogen/internal/domain"
	"heliogen/internal/handler"
	"heliogen/mocks"
)

func setupGenerationRouter(svc *mocks.MockGenerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewGenerationHandler(svc)
	r := gin.New()
	r.POST("/api/v1/generation/aggregate", h.Aggregate)
	r.PUT("/api/v1/generation/:id", h.Correct)
	return r
}

func TestAggregate_ReturnsBatchOutcome(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	outcome := &domain.BatchOutcome{
		Processed: 1,
		Items: []domain.ItemOutcome{
			{PlantName: "Plant-A", Year: 2024, Month: 3, Status: domain.ItemProcessed},
		},
	}
	svc.On("Aggregate", mock.Anything, mock.AnythingOfType("[]domain.Reading")).
		Return(outcome, nil)

	body := `[{"plant_name":"Plant-A","billing_date":"2024-03-15","generation_kwh":1000}]`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generation/aggregate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    domain.BatchOutcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Processed)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, domain.ItemProcessed, resp.Data.Items[0].Status)

	// The handler parsed the date before handing over.
	readings := svc.Calls[0].Arguments.Get(1).([]domain.Reading)
	require.Len(t, readings, 1)
	assert.Equal(t, 2024, readings[0].BillingDate.Year())
	assert.Equal(t, 3, int(readings[0].BillingDate.Month()))
}

func TestAggregate_MalformedJSON(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generation/aggregate", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestAggregate_RejectsBadBillingDate(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	body := `[{"plant_name":"Plant-A","billing_date":"15/03/2024","generation_kwh":1000}]`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generation/aggregate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_DATE")
	svc.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestAggregate_StorageFailureIs500(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	svc.On("Aggregate", mock.Anything, mock.Anything).
		Return(nil, errors.New("persisting record: connection reset"))

	body := `[{"plant_name":"Plant-A","billing_date":"2024-03-15","generation_kwh":1000}]`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generation/aggregate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCorrect_ReturnsUpdatedRecord(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	id := uuid.New()
	rec := &domain.GenerationRecord{
		ID: id, PlantID: "PL-A", Year: 2024, Month: 3,
		CurrentGeneration: 800, TotalValue: 80000,
	}
	svc.On("Correct", mock.Anything, id, 800.0).Return(rec, nil)

	body := `{"generation_kwh":800}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/generation/"+id.String(), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                    `json:"success"`
		Data    domain.GenerationRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.Data.ID)
	assert.Equal(t, 800.0, resp.Data.CurrentGeneration)
}

func TestCorrect_InvalidID(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/generation/not-a-uuid", bytes.NewBufferString(`{"generation_kwh":800}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
	svc.AssertNotCalled(t, "Correct", mock.Anything, mock.Anything, mock.Anything)
}

func TestCorrect_UnknownRecordIs404(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	id := uuid.New()
	svc.On("Correct", mock.Anything, id, 800.0).Return(nil, domain.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/generation/"+id.String(), bytes.NewBufferString(`{"generation_kwh":800}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RECORD_NOT_FOUND")
}

func TestCorrect_MissingExportDataIs422(t *testing.T) {
	svc := new(mocks.MockGenerationService)
	r := setupGenerationRouter(svc)

	id := uuid.New()
	svc.On("Correct", mock.Anything, id, 800.0).Return(nil, domain.ErrExportDataUnavailable)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/generation/"+id.String(), bytes.NewBufferString(`{"generation_kwh":800}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "EXPORT_DATA_UNAVAILABLE")
}
