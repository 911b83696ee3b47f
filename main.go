package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TallyCrew/tally-crew-backend/config"
	"github.com/TallyCrew/tally-crew-backend/db"
	"github.com/TallyCrew/tally-crew-backend/handlers"
	"github.com/TallyCrew/tally-crew-backend/internal/store/postgres"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/TallyCrew/tally-crew-backend/router"
	"github.com/TallyCrew/tally-crew-backend/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// @title TallyCrew API
// @version 1.0
// @description Shared expense tracking with automatic debt simplification.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbURL := cfg.Database.URL()
	log.Infow("Running database migrations", "database", logger.MaskConnectionString(dbURL))
	if err := db.RunMigrations(dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	if cfg.Database.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.Database.MaxConnections)
	}
	if cfg.IsProduction() {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		_ = redisClient.Close()
	}()

	// Services
	rateLimitService := services.NewRateLimitService(redisClient)
	eventService := services.NewRedisEventService(redisClient, cfg.EventService)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	// Stores
	groupStore := postgres.NewGroupStore(pool)
	expenseStore := postgres.NewExpenseStore(pool)
	settlementStore := postgres.NewSettlementStore(pool)
	debtStore := postgres.NewDebtStore(pool)

	// Models
	groupModel := models.NewGroupModel(groupStore, eventService)
	expenseModel := models.NewExpenseModel(expenseStore, debtStore, groupModel, eventService)
	settlementModel := models.NewSettlementModel(settlementStore, debtStore, groupModel, eventService)
	recalculateCooldown := time.Duration(cfg.RateLimit.RecalculateCooldownMinutes) * time.Minute
	debtModel := models.NewDebtModel(debtStore, groupStore, groupModel, eventService, recalculateCooldown)

	deps := router.Dependencies{
		Config:            cfg,
		JWTValidator:      middleware.NewJWTValidator(cfg.Server.JwtSecretKey),
		RateLimiter:       rateLimitService,
		GroupHandler:      handlers.NewGroupHandler(groupModel),
		ExpenseHandler:    handlers.NewExpenseHandler(expenseModel),
		SettlementHandler: handlers.NewSettlementHandler(settlementModel),
		DebtHandler:       handlers.NewDebtHandler(debtModel),
		EventsHandler:     handlers.NewEventsHandler(groupModel, eventService),
		HealthHandler:     handlers.NewHealthHandler(healthService),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if err := eventService.Shutdown(ctx); err != nil {
		log.Errorw("Event service shutdown failed", "error", err)
	}

	log.Info("Server stopped")
}
