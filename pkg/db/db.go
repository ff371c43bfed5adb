// Package db wraps a pgxpool.Pool with the connection-lifecycle and
// goose-migration conventions the teacher's deployment expects.
package db

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Config holds pool-sizing knobs, mirroring the teacher's InitDependencies
// call site.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DB wraps the pgx connection pool used by every store.Repository call.
type DB struct {
	Pool *pgxpool.Pool
	dsn  string
}

// New opens a pool against cfg.DSN without running migrations.
func New(cfg Config, logger interface{ Info(string, ...any) }) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	if logger != nil {
		logger.Info("database pool ready", "max_conns", poolCfg.MaxConns)
	}

	return &DB{Pool: pool, dsn: cfg.DSN}, nil
}

// RunMigrations applies every embedded goose migration, opening a short-lived
// database/sql connection (goose's own requirement; pgxpool is unsuitable
// since goose drives *sql.DB directly).
func (d *DB) RunMigrations() error {
	sqlDB := stdlib.OpenDB(*d.Pool.Config().ConnConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("db: set dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("db: migrate up: %w", err)
	}
	return nil
}

// Health pings the pool; used by the /health handler.
func (d *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.Pool.Ping(ctx)
}

// Close releases the pool.
func (d *DB) Close() {
	d.Pool.Close()
}
