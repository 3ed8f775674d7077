package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/pkg/apperr"
)

// writeError maps the apperr taxonomy onto HTTP outcomes: rejection 409,
// permission 403, not found 404, integrity 500, transient 503.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var rejection *apperr.ValidationRejection
	if errors.As(err, &rejection) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "validation rejected",
			"reasons": rejection.Reasons,
		})
		return
	}

	var denied *apperr.PermissionDenied
	if errors.As(err, &denied) {
		c.JSON(http.StatusForbidden, gin.H{"error": denied.Error()})
		return
	}

	var notFound *apperr.NotFound
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var integrity *apperr.IntegrityFault
	if errors.As(err, &integrity) {
		logger.Error("Data integrity fault", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "data integrity fault"})
		return
	}

	var transient *apperr.TransientFault
	if errors.As(err, &transient) {
		logger.Error("Transient store fault", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, retry"})
		return
	}

	logger.Error("Unclassified error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
