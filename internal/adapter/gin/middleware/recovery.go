package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-list-service/pkg/logger"
)

// Recovery returns a gin middleware that turns a panic into a 500 response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered in handler",
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					c.String(http.StatusInternalServerError, fmt.Sprint(r))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
