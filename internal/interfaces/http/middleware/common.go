// Package middleware provides the gin middleware of the invoice API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is where RequestID stores the id in the gin context
	RequestIDKey = "request_id"
	// RequestIDHeader carries the id on requests and responses
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength caps caller-supplied ids
	MaxRequestIDLength = 128
)

// RequestID adds a unique request ID to each request. A caller-supplied
// X-Request-ID is kept so OCR workers can correlate their own logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// Secure adds the response headers a JSON API should always send
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}
