package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func LogApi() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] | %s | %d | %s | %s | %s | %s | %s | %s\n",
			param.TimeStamp.Format("2006-01-02 15:04:05"),
			param.ClientIP,
			param.StatusCode,
			param.Method,
			param.Path,
			param.Request.UserAgent(),
			param.ErrorMessage,
			param.Latency,
			param.Request.Proto,
		)
	})
}

// StructuredLogger logs one slog record per request.
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		requestAttrs := slog.Group("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("remote_addr", c.ClientIP()),
		)
		responseAttrs := slog.Group("response",
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("latency", time.Since(start).String()),
		)

		if status >= 500 {
			logger.Error("server error", requestAttrs, responseAttrs)
		} else {
			logger.Info("request completed", requestAttrs, responseAttrs)
		}
	}
}
