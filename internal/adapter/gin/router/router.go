package router

import (
	"user-list-service/internal/adapter/gin/handler"
	"user-list-service/internal/adapter/gin/middleware"
	"user-list-service/pkg/database"
	"user-list-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter configures the gin engine: one route, GET /, which lists users
// over a connection borrowed from pool. Unknown paths get gin's 404 and other
// methods on / get 405.
func SetupRouter(userHandler *handler.UserHandler, pool *database.Pool, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middleware. Recovery sits inside Logger so a recovered panic still gets an access line.
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	router.GET("/", middleware.BorrowConn(pool, log), userHandler.ListUsers)

	return router
}
