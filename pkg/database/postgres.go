package database

import (
	"context"
	"fmt"
	"time"

	"loyalty-rewards/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgxIface is the slice of *pgxpool.Pool the repositories use. Tests swap in
// a pgxmock pool.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var _ PgxIface = (*pgxpool.Pool)(nil)

const (
	minConns    = 2
	pingTimeout = 3 * time.Second
)

// poolConfig applies the pool limits on top of the parsed DSN.
func poolConfig(config utils.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(config.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	if config.MaxConns > 0 {
		pc.MaxConns = config.MaxConns
	}
	pc.MinConns = min(minConns, pc.MaxConns)
	pc.MaxConnLifetime = 30 * time.Minute
	pc.MaxConnIdleTime = 5 * time.Minute
	pc.HealthCheckPeriod = time.Minute
	pc.ConnConfig.ConnectTimeout = 5 * time.Second

	return pc, nil
}

// InitDB opens the connection pool and, when enabled, applies migrations
// before any repository touches the schema.
func InitDB(ctx context.Context, config utils.DatabaseConfig, log *zap.Logger) (PgxIface, error) {
	pc, err := poolConfig(config)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s: %w", pc.ConnConfig.Host, err)
	}

	log.Info("Database pool ready",
		zap.String("host", pc.ConnConfig.Host),
		zap.String("database", pc.ConnConfig.Database),
		zap.Int32("max_conns", pc.MaxConns))

	if config.AutoMigrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("Database migrations applied")
	}

	return pool, nil
}
