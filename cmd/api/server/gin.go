package server

import (
	"net/http"
	"time"

	ginhandler "user-list-service/internal/adapter/gin/handler"
	ginrouter "user-list-service/internal/adapter/gin/router"
	"user-list-service/pkg/database"

	"go.uber.org/zap"
)

// SetupGinServer creates the HTTP server serving the gin router on ginAddr.
func SetupGinServer(
	handler *ginhandler.UserHandler,
	pool *database.Pool,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, pool, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(l.Named("http")),
	}
}
