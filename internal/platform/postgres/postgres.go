package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyDSN is returned when no connection string was configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

type poolConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	pingTimeout     time.Duration
	slowQuery       time.Duration
	logger          *slog.Logger
}

// Option tunes the connection pool.
type Option func(*poolConfig)

// WithMaxOpenConns caps concurrent connections.
func WithMaxOpenConns(n int) Option {
	return func(c *poolConfig) { c.maxOpenConns = n }
}

// WithMaxIdleConns caps idle connections kept in the pool.
func WithMaxIdleConns(n int) Option {
	return func(c *poolConfig) { c.maxIdleConns = n }
}

// WithConnMaxLifetime recycles connections older than d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(c *poolConfig) { c.connMaxLifetime = d }
}

// WithLogger routes slow-query and error logs from GORM to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *poolConfig) { c.logger = logger }
}

// Connect opens a PostgreSQL connection via GORM, sizes the pool, and verifies connectivity.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	cfg := poolConfig{
		maxOpenConns:    20,
		maxIdleConns:    5,
		connMaxLifetime: 30 * time.Minute,
		pingTimeout:     5 * time.Second,
		slowQuery:       200 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Discard}
	if cfg.logger != nil {
		gormCfg.Logger = gormlogger.NewSlogLogger(cfg.logger, gormlogger.Config{
			SlowThreshold:             cfg.slowQuery,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.maxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.maxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOrFallback dials dsn and returns the DB plus a cleanup function.
// When dsn is empty or the connection fails it logs a warning and returns a nil DB,
// so callers can fall back to in-memory adapters.
func ConnectOrFallback(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := Connect(ctx, dsn, append([]Option{WithLogger(logger)}, opts...)...)
	switch {
	case errors.Is(err, ErrEmptyDSN):
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	case err != nil:
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}
