package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

type options struct {
	maxConns int32
	logger   *zap.Logger
	level    tracelog.LogLevel
}

// Option tunes the pool created by Connect.
type Option func(*options)

// WithMaxConns caps the pool size. Non-positive values keep the pgx default.
func WithMaxConns(n int32) Option {
	return func(o *options) { o.maxConns = n }
}

// WithQueryLogger routes pgx trace output at or above level to logger.
func WithQueryLogger(logger *zap.Logger, level tracelog.LogLevel) Option {
	return func(o *options) {
		o.logger = logger
		o.level = level
	}
}

// Connect opens a PostgreSQL connection pool using pgx and verifies connectivity.
func Connect(ctx context.Context, dsn string, opts ...Option) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN must not be empty")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	if o.maxConns > 0 {
		cfg.MaxConns = o.maxConns
	}
	if o.logger != nil {
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   zapTraceLogger(o.logger),
			LogLevel: o.level,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func zapTraceLogger(logger *zap.Logger) tracelog.Logger {
	logger = logger.Named("pgx")
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		fields := make([]zap.Field, 0, len(data))
		for k, v := range data {
			fields = append(fields, zap.Any(k, v))
		}
		switch level {
		case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
			logger.Debug(msg, fields...)
		case tracelog.LogLevelInfo:
			logger.Info(msg, fields...)
		case tracelog.LogLevelWarn:
			logger.Warn(msg, fields...)
		default:
			logger.Error(msg, fields...)
		}
	})
}
