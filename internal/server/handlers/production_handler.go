package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
	"github.com/prasadnk/dairydesk/internal/service/production"
)

// ProductionHandler serves the /production endpoints.
type ProductionHandler struct {
	svc          *production.Service
	logger       *zap.Logger
	exposeDetail bool
}

// NewProductionHandler constructs the HTTP handler adapter.
func NewProductionHandler(svc *production.Service, logger *zap.Logger, exposeDetail bool) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{svc: svc, logger: logger, exposeDetail: exposeDetail}
}

// List returns the filtered, capped production listing.
func (h *ProductionHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), productionQuery(c))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// History returns the unbounded filtered read backing the history view.
func (h *ProductionHandler) History(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context(), productionQuery(c))
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Create records a new batch, renaming it on a label collision.
func (h *ProductionHandler) Create(c *gin.Context) {
	var req models.ProductionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, h.exposeDetail, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Delete removes one entry by the id query parameter.
func (h *ProductionHandler) Delete(c *gin.Context) {
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

func productionQuery(c *gin.Context) mongodb.ProductionQuery {
	return mongodb.ProductionQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Product:   c.Query("product"),
	}
}
