package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"user-list-service/cmd/api/di"
	apperrors "user-list-service/pkg/errors"

	"go.uber.org/zap"
)

// ListenAddr is the fixed address the service binds to.
const ListenAddr = "127.0.0.1:8000"

// Server struct holds all server dependencies
type Server struct {
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(l *zap.Logger, c *di.Container) *Server {
	return &Server{
		Logger: l,
		Gin:    SetupGinServer(c.GinHandler, c.Pool, ListenAddr, l),
	}
}

// Listen binds the TCP listener. Failing here is fatal for the process.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		return nil, apperrors.Bind(fmt.Errorf("failed to listen on %s: %w", s.Gin.Addr, err))
	}
	return lis, nil
}

// Serve serves HTTP on lis until Shutdown is called.
func (s *Server) Serve(lis net.Listener) error {
	s.Logger.Debug("listening", zap.String("address", lis.Addr().String()))

	if err := s.Gin.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server...")
	return s.Gin.Shutdown(ctx)
}
