package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-list-service/pkg/security"
)

// RequestIDHeader carries the request id in and out of the service.
const RequestIDHeader = "X-Request-ID"

// RequestID is a gin middleware that attaches a request id to the request context.
// A well-formed inbound X-Request-ID is reused; otherwise a new UUID is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := security.ValidateRequestID(c.GetHeader(RequestIDHeader))
		if !ok {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
