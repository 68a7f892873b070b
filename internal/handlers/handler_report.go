package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/middleware"
)

// reportHandler handles HTTP requests for the reporting rollups.
type reportHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportHandler creates a new reportHandler.
func newReportHandler(reportingService portssvc.ReportingSvc) *reportHandler {
	return &reportHandler{reportingService: reportingService}
}

// registerReportRoutes sets up the reporting routes. Statistics are
// school-wide and therefore admin-only; recaps are scoped per user by the
// service.
func registerReportRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/recap", h.classRecap)
		reports.GET("/recap/export", h.exportRecap)
		reports.GET("/classes/summary", h.classSummaries)
		reports.GET("/statistics", middleware.RequireAdmin(), h.globalStatistics)
	}
}

// classRecap returns per-student rows for the classes visible to the caller.
func (h *reportHandler) classRecap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.RecapParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid recap query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	recap, err := h.reportingService.ClassRecap(c.Request.Context(), requestingUserID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recap)
}

// exportRecap streams the recap as an xlsx download.
func (h *reportHandler) exportRecap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.RecapParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid recap export query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	f, err := h.reportingService.ExportRecap(c.Request.Context(), requestingUserID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("rekap-komite-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		logger.Error("Failed to stream recap export", slog.String("error", err.Error()))
	}
}

// classSummaries returns per-class totals and status counts.
func (h *reportHandler) classSummaries(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summaries, err := h.reportingService.ClassSummaries(c.Request.Context(), requestingUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClassSummariesResponse{Classes: summaries})
}

// globalStatistics returns the school-wide rollup.
func (h *reportHandler) globalStatistics(c *gin.Context) {
	stats, err := h.reportingService.GlobalStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
