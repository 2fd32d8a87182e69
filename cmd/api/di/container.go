package di

import (
	"context"
	"fmt"

	"user-list-service/cmd/api/infrastructure"
	"user-list-service/internal/adapter/db/postgres"
	ginhandler "user-list-service/internal/adapter/gin/handler"
	"user-list-service/internal/config"
	"user-list-service/internal/usecase/user"
	"user-list-service/pkg/database"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Pool       *database.Pool
	UserUC     user.UserUsecase
	GinHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	pool, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return NewContainerWithPool(cfg, l, pool), nil
}

// NewContainerWithPool wires the dependencies around an already open pool.
func NewContainerWithPool(cfg *config.Config, l *zap.Logger, pool *database.Pool) *Container {
	repo := postgres.NewUserRepoPG(l)
	userUC := user.New(repo, l)

	return &Container{
		Config:     cfg,
		Logger:     l,
		Pool:       pool,
		UserUC:     userUC,
		GinHandler: ginhandler.NewUserHandler(userUC, l),
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.Pool == nil {
		return nil
	}
	if err := c.Pool.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
