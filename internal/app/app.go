// Package app defines the App struct that composes the module's shared
// dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/lightbnb/internal/config"
	"github.com/deppfellow/lightbnb/internal/database"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/lightbnb/internal/logger"
)

// App is the application container that holds shared resources.
type App struct {
	// Config holds all environment/config values.
	Config *config.Config

	// Logger is the main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database
}

// New opens the PostgreSQL pool and builds the container.
// The pool is pinged before New returns.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*App, error) {
	db, err := database.New(ctx, cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}, nil
}

// healthCheckTimeout bounds a single CheckHealth call.
const healthCheckTimeout = 5 * time.Second

// CheckHealth pings the database and logs the outcome with its response time.
func (a *App) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := a.DB.Ping(ctx); err != nil {
		a.Logger.Error().
			Err(err).
			Str("operation", "health_check").
			Dur("response_time", time.Since(start)).
			Msg("database health check failed")
		return fmt.Errorf("database unhealthy: %w", err)
	}

	a.Logger.Info().
		Str("operation", "health_check").
		Str("environment", a.Config.Primary.Env).
		Dur("response_time", time.Since(start)).
		Msg("database healthy")
	return nil
}

// Shutdown closes the pool and flushes the New Relic agent, if any.
func (a *App) Shutdown(_ context.Context) error {
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if a.LoggerService != nil {
		a.LoggerService.Shutdown()
	}

	return nil
}
