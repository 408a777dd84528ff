// Command lightbnb bootstraps the LightBnB data layer: it applies the
// schema, opens the connection pool and checks that the repositories can
// query it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/lightbnb/internal/app"
	"github.com/deppfellow/lightbnb/internal/config"
	"github.com/deppfellow/lightbnb/internal/database"
	"github.com/deppfellow/lightbnb/internal/logger"
	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/deppfellow/lightbnb/internal/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	a, err := app.New(ctx, cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize app")
	}

	if err := a.CheckHealth(ctx); err != nil {
		log.Fatal().Err(err).Msg("database is not reachable")
	}

	repos := repository.NewRepositories(a)

	listings, err := repos.Properties.Search(ctx, model.PropertyFilter{}, 1)
	if err != nil {
		log.Error().Err(err).Msg("readiness check failed")
	} else {
		log.Info().
			Str("env", cfg.Primary.Env).
			Bool("has_listings", len(listings) > 0).
			Msg("lightbnb data layer ready")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
