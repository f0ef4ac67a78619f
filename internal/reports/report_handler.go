package reports

import (
	"net/http"
	"time"

	"barpos/internal/repository"
	"barpos/pkg/roles"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	Repository *ReportRepository
	exporter   *SheetsExporter
	logger     *zap.Logger
}

// NewHandler wires the report routes. The exporter may be nil when
// Google credentials are not configured; the export route then
// responds 503 instead of failing startup.
func NewHandler(r *repository.Repository, exporter *SheetsExporter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		Repository: NewRepository(r),
		exporter:   exporter,
		logger:     logger,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/eod", security.Authorize(roles.Manager), h.GetEODReportHandler)
	router.POST("/reports/eod/export", security.Authorize(roles.Manager), h.ExportEODReportHandler)
}

func (h *ReportHandler) GetEODReportHandler(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	summary, err := h.Repository.GetDailySummary(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) ExportEODReportHandler(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Sheets export is not configured"})
		return
	}

	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	summary, err := h.Repository.GetDailySummary(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build report", "details": err.Error()})
		return
	}

	if err := h.exporter.Export(summary); err != nil {
		h.logger.Error("EOD export failed", zap.String("date", summary.Date), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not export report", "details": err.Error()})
		return
	}

	h.logger.Info("EOD report exported", zap.String("date", summary.Date), zap.Int("orders", summary.OrderCount))

	c.JSON(http.StatusOK, gin.H{"message": "Report exported", "date": summary.Date})
}

func (h *ReportHandler) parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}

	return day, true
}
