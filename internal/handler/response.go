package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"heliogen/internal/domain"
	"heliogen/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "RECORD_NOT_FOUND", "generation record not found"
	case errors.Is(err, domain.ErrPlantNotFound):
		return http.StatusNotFound, "PLANT_NOT_FOUND", "plant not found"
	case errors.Is(err, domain.ErrTariffNotFound):
		return http.StatusNotFound, "TARIFF_NOT_FOUND", "operator tariff not found"
	case errors.Is(err, domain.ErrExportDataUnavailable):
		return http.StatusUnprocessableEntity, "EXPORT_DATA_UNAVAILABLE", "cannot correct without export data for this period"
	case errors.Is(err, domain.ErrInvalidGeneration):
		return http.StatusBadRequest, "INVALID_GENERATION", "generation value must be greater than zero"
	case errors.Is(err, domain.ErrRecordExists):
		return http.StatusConflict, "RECORD_EXISTS", "generation record already exists for this period"
	default:
		return 0, "", ""
	}
}

// HandleError writes the mapped domain error, or a 500 for unexpected errors.
func HandleError(c *gin.Context, err error) {
	if status, code, msg := MapDomainError(err); status != 0 {
		RespondError(c, status, code, msg)
		return
	}
	log.Printf("[%s] unexpected error: %v", middleware.RequestIDFrom(c), err)
	RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
