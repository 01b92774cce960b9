package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/service/reporting"
)

// ReportHandler serves the stored daily summaries.
type ReportHandler struct {
	svc          *reporting.Service
	logger       *zap.Logger
	exposeDetail bool
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger, exposeDetail bool) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, exposeDetail: exposeDetail}
}

// DailySummaries lists stored summaries within the optional date range.
func (h *ReportHandler) DailySummaries(c *gin.Context) {
	summaries, err := h.svc.ListDailySummaries(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
