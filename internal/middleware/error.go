package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/logger"
)

// ErrorHandler converts errors attached to the gin context into the JSON
// error envelope the API promises: {"error": {"code", "message"}}. AppErrors
// keep their code and status; anything else becomes a generic 500 so
// database or parser details never reach the client. Log lines carry the
// request ID assigned by RequestLogging so an error can be matched to its
// access-log entry.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Handlers abort on the first failure, so the last error is the
		// one that ended the request.
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("request failed",
					"request_id", RequestID(c),
					"code", appErr.Code,
					"message", appErr.Message,
					"cause", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			writeError(c, appErr)
			return
		}

		logger.Get().Errorw("unhandled error",
			"request_id", RequestID(c),
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		writeError(c, apperrors.ErrInternalServer)
	}
}

func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
