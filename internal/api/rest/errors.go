package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/crazycube/graveyard-api/internal/api/shared/errors"
	"github.com/crazycube/graveyard-api/internal/logger"
)

// respondServiceError maps a service error to its status and envelope
func respondServiceError(c *gin.Context, err error, message string) {
	status, apiErr := apierrors.FromError(c.Request.Context(), err, message)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err,
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		)
	}
	_ = c.Error(err)
	c.JSON(status, apiErr)
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}
