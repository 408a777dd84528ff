// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// It owns the pgx connection pool and wires the logger and
// query tracers into the driver.
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool) with the configured limits
//   - wiring query tracing/logging (pgx tracelog, slow query log)
//   - optional New Relic instrumentation (nrpgx5)
//   - applying the embedded schema (tern)
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/lightbnb/internal/config"
	loggerConfig "github.com/deppfellow/lightbnb/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Database wraps the pgx connection pool and a logger.
//
// Pool is the shared connection pool; every repository borrows one
// connection from it per query.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
const DatabasePingTimeout = 10

// New creates a PostgreSQL connection pool with instrumentation.
//
// Behavior:
//   - Parse cfg.Database.DSN() into a pgxpool config
//   - Apply pool limits from config (zero keeps the pgx default)
//   - Attach New Relic tracer if available
//   - In local env: attach SQL tracelogger
//   - Attach the slow query tracer when a threshold is configured
//   - Create pool, ping it, and return Database
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	applyPoolLimits(pgxPoolConfig, cfg.Database)

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// Very noisy, which is why it's only in local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	if cfg.Observability != nil {
		if slow := newSlowQueryTracer(cfg.Observability.Logging.SlowQueryThreshold, logger); slow != nil {
			tracers = append(tracers, slow)
		}
	}

	pgxPoolConfig.ConnConfig.Tracer = chainTracers(tracers...)

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	// Ping with a timeout, so startup fails fast if the DB is down.
	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Msg("connected to the database")

	return database, nil
}

// applyPoolLimits copies the optional pool tuning knobs into the pgxpool config.
//
// MaxOpenConns -> MaxConns, MaxIdleConns -> MinConns (connections kept warm),
// lifetimes are in seconds.
func applyPoolLimits(pc *pgxpool.Config, db config.DatabaseConfig) {
	if db.MaxOpenConns > 0 {
		pc.MaxConns = int32(db.MaxOpenConns)
	}
	if db.MaxIdleConns > 0 {
		minConns := int32(db.MaxIdleConns)
		if minConns > pc.MaxConns {
			minConns = pc.MaxConns
		}
		pc.MinConns = minConns
	}
	if db.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(db.ConnMaxLifetime) * time.Second
	}
	if db.ConnMaxIdleTime > 0 {
		pc.MaxConnIdleTime = time.Duration(db.ConnMaxIdleTime) * time.Second
	}
}

// Ping verifies the pool can still reach the database.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool.
//
// Returns nil currently because pgxpool.Close doesn't return error.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
