// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bus-booking/cmd"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/usecase"
	"bus-booking/internal/wire"
	"bus-booking/pkg/cache"
	"bus-booking/pkg/database"
	"bus-booking/pkg/events"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Store.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := usecase.Deps{Clock: utils.SystemClock{}}

	switch config.Store.Driver {
	case utils.StoreDriverMemory:
		deps.Store = repository.NewMemoryStore(logger)
		logger.Warn("Using in-memory store; data is lost on restart")

	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if config.Database.EnsureSchema {
			if err := database.EnsureSchema(ctx, db); err != nil {
				logger.Fatal("Failed to create schema", zap.Error(err))
			}
		}

		logger.Info("Database connected successfully")
		deps.Store = repository.NewPostgresStore(db, logger)
	}

	if config.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, seat layouts will not be cached", zap.Error(err))
		} else {
			defer client.Close()
			deps.Cache = cache.NewRedisCache(client, config.App.Name+":", config.Redis.LayoutTTL)
		}
	}

	if config.Events.Enabled {
		bus := events.NewBus(logger)
		defer bus.Close()

		for _, topic := range events.Topics {
			if err := bus.Subscribe(ctx, topic, events.AuditHandler(logger, topic)); err != nil {
				logger.Fatal("Failed to subscribe", zap.Error(err), zap.String("topic", topic))
			}
		}
		deps.Publisher = bus
	}

	app := wire.Wiring(deps, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
