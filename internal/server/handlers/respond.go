package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
)

// writeError maps the error taxonomy onto HTTP statuses. Validation,
// not-found and conflict errors carry their specific message to the caller;
// anything else is logged with context and returned with a generic message
// unless detail exposure is enabled (non-production deployments).
func writeError(c *gin.Context, logger *zap.Logger, exposeDetail bool, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		message := "internal server error"
		if exposeDetail {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
