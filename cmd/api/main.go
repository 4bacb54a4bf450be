package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-tracker-backend/config"
	_ "job-tracker-backend/docs" // Important for Swagger
	v1 "job-tracker-backend/internal/delivery/http/v1"
	"job-tracker-backend/internal/migrations"
	"job-tracker-backend/internal/repository/postgres"
	"job-tracker-backend/internal/usecase"
	"job-tracker-backend/pkg/auth"
	"job-tracker-backend/pkg/database"
	"job-tracker-backend/pkg/logger"
	"job-tracker-backend/pkg/redis"
	"job-tracker-backend/pkg/supabase"

	"github.com/gin-gonic/gin"
)

// @title           Job Tracker API
// @version         1.0
// @description     Personal job-application tracker backed by Supabase auth and Postgres.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job tracker backend", "port", cfg.Port)
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, dbPool, migrations.Migrations); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	healthChecks := map[string]usecase.HealthCheck{
		"database": dbPool.Ping,
		"redis":    nil,
	}
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			healthChecks["redis"] = redis.HealthCheck
			defer redis.Close()
		}
	}

	// 5. Setup Repositories
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 6. Setup UseCases
	supabaseClient := supabase.NewClient(cfg.SupabaseUrl, cfg.SupabaseKey, cfg.AuthTimeout)
	authUC := usecase.NewAuthUsecase(supabaseClient)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo)
	healthUC := usecase.NewHealthUsecase(healthChecks)

	// 7. Setup token verification (HS256 secret and/or JWKS)
	verifier := auth.NewVerifier(cfg.SupabaseJWTSecret, auth.NewProvider(cfg.JWKSURL()))

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		Verifier:      verifier,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
