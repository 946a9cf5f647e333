package logger

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request id in and out of the service
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// RequestID assigns every request an id, reusing one set by an upstream proxy
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or an empty string
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// GinLogger writes one structured line per request
func GinLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request served", fields...)
		}
	}
}

// GinRecovery turns a panic into a 500 response and logs the stack
func GinRecovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.ByteString("stack", debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "Something went wrong on the server",
				})
			}
		}()
		c.Next()
	}
}
