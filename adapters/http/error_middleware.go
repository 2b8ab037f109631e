package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/logger"
)

// ErrorMiddleware turns errors attached via c.Error into the JSON
// error contract. Handlers never write error bodies themselves.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		var appErr *apperror.AppError
		if errors.As(last.Err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("request failed", appErr, zap.String("path", c.FullPath()))
			} else {
				log.Warn("request rejected", zap.String("path", c.FullPath()), zap.String("reason", appErr.Message))
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("unhandled error", last.Err, zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"message": "An internal server error occurred",
		})
	}
}
