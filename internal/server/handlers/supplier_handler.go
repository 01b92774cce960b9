package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/service/supplier"
)

// SupplierHandler serves the /supplier endpoints.
type SupplierHandler struct {
	svc          *supplier.Service
	logger       *zap.Logger
	exposeDetail bool
}

// NewSupplierHandler constructs the HTTP handler adapter.
func NewSupplierHandler(svc *supplier.Service, logger *zap.Logger, exposeDetail bool) *SupplierHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierHandler{svc: svc, logger: logger, exposeDetail: exposeDetail}
}

// List returns all suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// Create registers a new supplier.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req models.SupplierCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid supplier payload", zap.Error(err))
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

// Update applies a partial update to the supplier named by the id query
// parameter.
func (h *SupplierHandler) Update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		writeError(c, h.logger, h.exposeDetail, apperr.Invalidf("id is required"))
		return
	}

	var req models.SupplierUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid supplier payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes one supplier by the id query parameter.
func (h *SupplierHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		writeError(c, h.logger, h.exposeDetail, apperr.Invalidf("id is required"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
