// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"loyalty-rewards/cmd"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/wire"
	"loyalty-rewards/pkg/database"
	"loyalty-rewards/pkg/metrics"
	"loyalty-rewards/pkg/storage"
	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Menu file storage
	store, err := storage.New(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err), zap.String("driver", config.Storage.Driver))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, wire.Deps{
		Tokens:  token.NewService(config.JWT.Secret, config.JWT.SessionTTL, config.JWT.TransactionTTL),
		Store:   store,
		Metrics: metrics.New(),
	}, logger)

	app.LoginLimiter.StartCleanup(10*time.Minute, ctx.Done())

	// Seed admin
	if config.Auth.AdminUsername != "" && config.Auth.AdminPassword != "" {
		if err := app.Service.Auth.EnsureAdmin(ctx, config.Auth.AdminUsername, config.Auth.AdminEmail, config.Auth.AdminPassword); err != nil {
			logger.Fatal("Failed to seed admin", zap.Error(err))
		}
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
