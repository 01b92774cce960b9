package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
	"github.com/prasadnk/dairydesk/internal/service/procurement"
)

// historyCacheControl lets an edge cache hold the bulk history read briefly;
// the view tolerates slightly stale data.
const historyCacheControl = "public, max-age=60, stale-while-revalidate=300"

// ProcurementHandler serves the /supplier/procurement endpoints.
type ProcurementHandler struct {
	svc          *procurement.Service
	logger       *zap.Logger
	exposeDetail bool
}

// NewProcurementHandler constructs the HTTP handler adapter.
func NewProcurementHandler(svc *procurement.Service, logger *zap.Logger, exposeDetail bool) *ProcurementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcurementHandler{svc: svc, logger: logger, exposeDetail: exposeDetail}
}

// ListBySupplier returns all deliveries for the supplier named by the
// supplierId query parameter.
func (h *ProcurementHandler) ListBySupplier(c *gin.Context) {
	supplierID := c.Query("supplierId")
	if supplierID == "" {
		writeError(c, h.logger, h.exposeDetail, apperr.Invalidf("supplierId is required"))
		return
	}

	procurements, err := h.svc.ListBySupplier(c.Request.Context(), supplierID)
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, procurements)
}

// Create records a new delivery.
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req models.ProcurementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid procurement payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// History returns the capped, projected bulk read.
func (h *ProcurementHandler) History(c *gin.Context) {
	query := mongodb.ProcurementQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	procurements, err := h.svc.History(c.Request.Context(), query)
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}

	c.Header("Cache-Control", historyCacheControl)
	c.JSON(http.StatusOK, procurements)
}
