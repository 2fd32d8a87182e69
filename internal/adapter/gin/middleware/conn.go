package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-list-service/pkg/database"
	apperrors "user-list-service/pkg/errors"
	"user-list-service/pkg/logger"
)

const connKey = "db_conn"

// BorrowConn returns a gin middleware that borrows one pooled connection for
// the rest of the chain. If no connection can be acquired the request is
// answered with 500 and the error text, and later handlers do not run.
// The connection goes back to the pool when the chain returns, including
// when a later handler panics or the client has gone away.
func BorrowConn(pool *database.Pool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		err := pool.WithConn(ctx, func(conn *database.Conn) error {
			c.Set(connKey, conn)
			defer c.Set(connKey, nil)

			if w := conn.Waited(); w > 0 {
				logger.WithContext(ctx, log).Debug("connection acquired", zap.Duration("waited", w))
			}

			c.Next()
			return nil
		})
		if err != nil {
			err = apperrors.Acquire(err)
			stats := pool.Stats()
			logger.WithContext(ctx, log).Error("failed to acquire connection",
				zap.Error(err),
				zap.Int("in_use", stats.InUse),
				zap.Int("max_open", stats.MaxOpen),
			)
			status, body := apperrors.Response(err)
			c.String(status, body)
			c.Abort()
		}
	}
}

// ConnFrom returns the connection borrowed by BorrowConn for this request.
func ConnFrom(c *gin.Context) (*database.Conn, bool) {
	v, ok := c.Get(connKey)
	if !ok {
		return nil, false
	}
	conn, ok := v.(*database.Conn)
	return conn, ok && conn != nil
}
