package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"heliogen/internal/domain"
	"heliogen/internal/service"
)

// GenerationHandler handles aggregation and correction endpoints.
type GenerationHandler struct {
	generationService service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// readingRequest is one raw reading as submitted by the monitoring gateway.
type readingRequest struct {
	PlantName   string  `json:"plant_name"`
	BillingDate string  `json:"billing_date" binding:"required"`
	Generation  float64 `json:"generation_kwh"`
}

// correctionRequest carries the replacement generation value for a record.
type correctionRequest struct {
	Generation float64 `json:"generation_kwh" binding:"required"`
}

// Aggregate handles POST /api/v1/generation/aggregate
// @Summary Aggregate a batch of monthly generation readings
// @Description Processes readings in input order per plant, computing billed value, savings, and cumulative totals. Per-item failures are reported in the outcome; only storage failures fail the call.
// @Tags generation
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=domain.BatchOutcome} "Batch outcome"
// @Failure 400 {object} APIResponse "Malformed payload"
// @Failure 500 {object} APIResponse "Storage failure"
// @Router /generation/aggregate [post]
func (h *GenerationHandler) Aggregate(c *gin.Context) {
	var reqs []readingRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "malformed readings payload: "+err.Error())
		return
	}

	readings := make([]domain.Reading, 0, len(reqs))
	for _, req := range reqs {
		date, err := time.Parse("2006-01-02", req.BillingDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "billing_date must be YYYY-MM-DD: "+req.BillingDate)
			return
		}
		readings = append(readings, domain.Reading{
			PlantName:   req.PlantName,
			BillingDate: date,
			Generation:  req.Generation,
		})
	}

	outcome, err := h.generationService.Aggregate(c.Request.Context(), readings)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, outcome)
}

// Correct handles PUT /api/v1/generation/:id
// @Summary Correct the generation value of an aggregated period
// @Description Recomputes every derived field of the record from the replacement generation value. The record's id, plant, year, and month never change.
// @Tags generation
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} APIResponse{data=domain.GenerationRecord} "Corrected record"
// @Failure 400 {object} APIResponse "Invalid id or generation value"
// @Failure 404 {object} APIResponse "Record not found"
// @Failure 422 {object} APIResponse "Export data unavailable"
// @Router /generation/{id} [put]
func (h *GenerationHandler) Correct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "record id must be a UUID")
		return
	}

	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "malformed correction payload: "+err.Error())
		return
	}

	rec, err := h.generationService.Correct(c.Request.Context(), id, req.Generation)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}
