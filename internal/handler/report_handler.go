package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"heliogen/internal/domain"
	"heliogen/internal/service"
	"heliogen/internal/xlsxexport"
)

// ReportHandler handles report projection and export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Project handles POST /api/v1/generation/report
// @Summary Project aggregated periods into formatted report rows
// @Description Resolves each (plant, year, month) key to a formatted snapshot or an explicit pending marker. Best-effort: one bad key never aborts the rest.
// @Tags reports
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.ReportRow} "Report rows"
// @Failure 400 {object} APIResponse "Malformed payload"
// @Router /generation/report [post]
func (h *ReportHandler) Project(c *gin.Context) {
	var keys []domain.ReportKey
	if err := c.ShouldBindJSON(&keys); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "malformed report keys payload: "+err.Error())
		return
	}

	rows := h.reportService.Project(c.Request.Context(), keys)
	RespondOK(c, rows)
}

// Export handles POST /api/v1/reports/export
// @Summary Export report rows as an XLSX workbook
// @Tags reports
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Workbook attachment"
// @Failure 400 {object} APIResponse "Malformed payload"
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var keys []domain.ReportKey
	if err := c.ShouldBindJSON(&keys); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "malformed report keys payload: "+err.Error())
		return
	}

	rows := h.reportService.Project(c.Request.Context(), keys)

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, rows); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("generation-report-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
