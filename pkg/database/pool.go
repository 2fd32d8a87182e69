package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrAcquireTimeout is returned when no connection became free within the acquire timeout.
	ErrAcquireTimeout = errors.New("pool timed out while waiting for an open connection")
	// ErrPoolClosed is returned when acquiring from a pool that has been closed.
	ErrPoolClosed = errors.New("attempted to acquire a connection on a closed pool")
)

// Config holds the pool limits.
type Config struct {
	MaxConnections  int           // hard cap on open connections
	MinConnections  int           // idle connections kept open between requests
	AcquireTimeout  time.Duration // longest wait for a free connection
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	SQLLogger       gormlogger.Interface
}

// Stats is a snapshot of the pool occupancy.
type Stats struct {
	MaxOpen      int
	Open         int
	InUse        int
	Idle         int
	WaitCount    int64
	WaitDuration time.Duration
}

// Pool is a bounded set of database connections shared by all requests.
type Pool struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	cfg    Config
	log    *zap.Logger
	closed atomic.Bool
}

// Open builds a pool on top of dialector and verifies that a first connection
// can be established before ctx expires.
func Open(ctx context.Context, dialector gorm.Dialector, cfg Config, log *zap.Logger) (*Pool, error) {
	if cfg.MaxConnections < 1 {
		return nil, fmt.Errorf("max connections must be positive, got %d", cfg.MaxConnections)
	}
	if cfg.AcquireTimeout <= 0 {
		return nil, fmt.Errorf("acquire timeout must be positive, got %s", cfg.AcquireTimeout)
	}
	if cfg.MinConnections > cfg.MaxConnections {
		cfg.MinConnections = cfg.MaxConnections
	}

	gormCfg := &gorm.Config{DisableAutomaticPing: true}
	if cfg.SQLLogger != nil {
		gormCfg.Logger = cfg.SQLLogger
	} else {
		gormCfg.Logger = gormlogger.Discard
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(max(cfg.MinConnections, 1))
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	p := &Pool{db: db, sqlDB: sqlDB, cfg: cfg, log: log}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := p.warm(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("database pool ready",
		zap.Int("max_connections", cfg.MaxConnections),
		zap.Int("min_connections", cfg.MinConnections),
		zap.Duration("acquire_timeout", cfg.AcquireTimeout),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		zap.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime),
	)

	return p, nil
}

// warm opens MinConnections connections up front so the first requests do not pay for dialing.
func (p *Pool) warm(ctx context.Context) error {
	held := make([]*sql.Conn, 0, p.cfg.MinConnections)
	defer func() {
		for _, c := range held {
			_ = c.Close()
		}
	}()

	for range p.cfg.MinConnections {
		c, err := p.sqlDB.Conn(ctx)
		if err != nil {
			return fmt.Errorf("failed to open idle connection %d/%d: %w", len(held)+1, p.cfg.MinConnections, err)
		}
		held = append(held, c)
	}
	return nil
}

// Acquire borrows a connection exclusively. It waits at most AcquireTimeout;
// if ctx ends first, ctx's error is returned. The caller must Release the connection.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	acquireCtx, cancel := context.WithTimeout(ctx, p.cfg.AcquireTimeout)
	defer cancel()

	start := time.Now()
	c, err := p.sqlDB.Conn(acquireCtx)
	if err != nil {
		switch {
		case p.closed.Load():
			return nil, ErrPoolClosed
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrAcquireTimeout
		default:
			return nil, err
		}
	}

	return &Conn{conn: c, root: p.db, log: p.log, acquiredAt: time.Now(), waited: time.Since(start)}, nil
}

// WithConn borrows a connection for the duration of fn. The connection is
// released when fn returns or panics.
func (p *Pool) WithConn(ctx context.Context, fn func(*Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return fn(conn)
}

// Stats returns the current occupancy of the pool.
func (p *Pool) Stats() Stats {
	s := p.sqlDB.Stats()
	return Stats{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration,
	}
}

// Ping checks that the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	return p.sqlDB.PingContext(ctx)
}

// Close closes the pool. Borrowed connections are closed as they are released.
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.log.Info("closing database pool")
	return p.sqlDB.Close()
}

// Conn is a connection borrowed from a Pool.
type Conn struct {
	conn       *sql.Conn
	root       *gorm.DB
	log        *zap.Logger
	acquiredAt time.Time
	waited     time.Duration

	once       sync.Once
	releaseErr error
}

// DB returns a gorm session whose statements all run on this connection and honour ctx.
func (c *Conn) DB(ctx context.Context) *gorm.DB {
	tx := c.root.WithContext(ctx)
	tx.Statement.ConnPool = c.conn
	return tx
}

// Waited reports how long Acquire blocked before the connection was handed out.
func (c *Conn) Waited() time.Duration {
	return c.waited
}

// Release returns the connection to the pool. Safe to call more than once.
func (c *Conn) Release() error {
	c.once.Do(func() {
		c.releaseErr = c.conn.Close()
		c.log.Debug("connection released",
			zap.Duration("held", time.Since(c.acquiredAt)),
			zap.Duration("waited", c.waited),
		)
	})
	return c.releaseErr
}
