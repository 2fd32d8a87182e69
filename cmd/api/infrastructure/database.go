package infrastructure

import (
	"context"
	"fmt"

	"user-list-service/internal/config"
	"user-list-service/pkg/database"
	apperrors "user-list-service/pkg/errors"
	"user-list-service/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
)

// NewDatabase builds the process-wide PostgreSQL pool. The first connection
// must be established within the acquire timeout.
func NewDatabase(ctx context.Context, cfg *config.Config, l *zap.Logger) (*database.Pool, error) {
	// Parse up front so a malformed URL fails before dialing and the log never shows the password
	pgCfg, err := pgx.ParseConfig(cfg.DB.URL)
	if err != nil {
		return nil, apperrors.PoolInit(fmt.Errorf("invalid DATABASE_URL: %w", err))
	}

	if cfg.DB.URL == config.DefaultDatabaseURL {
		l.Warn("DATABASE_URL not set, using the development default")
	}

	l.Info("connecting to database",
		zap.String("host", pgCfg.Host),
		zap.Uint16("port", pgCfg.Port),
		zap.String("database", pgCfg.Database),
		zap.String("user", pgCfg.User),
	)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DB.AcquireTimeout)
	defer cancel()

	pool, err := database.Open(connectCtx, pgdriver.Open(cfg.DB.URL), database.Config{
		MaxConnections:  cfg.DB.MaxConnections,
		MinConnections:  cfg.DB.MinConnections,
		AcquireTimeout:  cfg.DB.AcquireTimeout,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
		SQLLogger:       logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level),
	}, l)
	if err != nil {
		return nil, apperrors.PoolInit(err)
	}

	return pool, nil
}
