package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
	"github.com/prasadnk/dairydesk/internal/service/export"
)

// ExportHandler serves CSV and PDF downloads of the history views.
type ExportHandler struct {
	svc          *export.Service
	logger       *zap.Logger
	exposeDetail bool
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(svc *export.Service, logger *zap.Logger, exposeDetail bool) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger, exposeDetail: exposeDetail}
}

// ProductionCSV downloads the filtered production history as CSV.
func (h *ExportHandler) ProductionCSV(c *gin.Context) {
	data, err := h.svc.ProductionCSV(c.Request.Context(), productionQuery(c))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	sendAttachment(c, "production", "csv", "text/csv", data)
}

// ProductionPDF downloads the filtered production history as PDF.
func (h *ExportHandler) ProductionPDF(c *gin.Context) {
	data, err := h.svc.ProductionPDF(c.Request.Context(), productionQuery(c))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	sendAttachment(c, "production", "pdf", "application/pdf", data)
}

// ProcurementCSV downloads the filtered procurement history as CSV.
func (h *ExportHandler) ProcurementCSV(c *gin.Context) {
	data, err := h.svc.ProcurementCSV(c.Request.Context(), procurementExportQuery(c))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	sendAttachment(c, "procurement", "csv", "text/csv", data)
}

// ProcurementPDF downloads the filtered procurement history as PDF.
func (h *ExportHandler) ProcurementPDF(c *gin.Context) {
	data, err := h.svc.ProcurementPDF(c.Request.Context(), procurementExportQuery(c))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	sendAttachment(c, "procurement", "pdf", "application/pdf", data)
}

func procurementExportQuery(c *gin.Context) mongodb.ProcurementQuery {
	return mongodb.ProcurementQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
}

func sendAttachment(c *gin.Context, prefix, extension, contentType string, data []byte) {
	filename := fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("2006-01-02"), extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
