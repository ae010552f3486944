package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/config"
	httpDelivery "github.com/place-microservice/internal/delivery/http"
	"github.com/place-microservice/internal/delivery/http/handler"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/infrastructure/googleplaces"
	"github.com/place-microservice/internal/infrastructure/wikipedia"
	"github.com/place-microservice/internal/pkg/logger"
	"github.com/place-microservice/internal/pkg/metrics"
	"github.com/place-microservice/internal/repository/cache"
	"github.com/place-microservice/internal/repository/postgres"
	"github.com/place-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Place Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("view_stats_backend", cfg.ViewStats.Backend),
	)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// 4. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	checks := map[string]handler.HealthChecker{"postgres": db}

	// 5. View counters: Postgres по умолчанию, Redis по конфигу
	var viewRepo repository.ViewStatRepository = postgres.NewViewStatRepository(db, log)

	var redisClient *cache.Redis
	if cfg.ViewStats.Backend == config.ViewStatsBackendRedis {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Info("Redis connected")

		viewRepo = cache.NewViewStatRepository(redisClient)
		checks["redis"] = redisClient
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	for name, check := range checks {
		if err := check.Health(ctx); err != nil {
			log.Fatal("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
	}
	cancel()
	log.Info("All connections healthy")

	// 6. External providers
	places := googleplaces.NewCircuitBreakerProvider(
		googleplaces.NewClient(&cfg.Places, m, log),
		googleplaces.BreakerSettings{
			ConsecutiveFailures: cfg.Places.BreakerFailures,
			OpenTimeout:         cfg.Places.BreakerTimeout,
		},
		m,
		log,
	)
	wiki := wikipedia.NewClient(&cfg.Wikipedia, m, log)

	// 7. Repositories
	reviewRepo := postgres.NewReviewRepository(db, log)
	likeRepo := postgres.NewLikeRepository(db, log)

	log.Info("Repositories initialized")

	// 8. Use cases
	viewUC := usecase.NewViewUseCase(viewRepo, m, log)
	likeUC := usecase.NewLikeUseCase(likeRepo, places, m, log)
	placeUC := usecase.NewPlaceUseCase(places, wiki, viewUC, likeUC, cfg.Discovery, m, log)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, places, m, log)

	log.Info("Use cases initialized")

	// 9. HTTP server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Place:  handler.NewPlaceHandler(placeUC, log),
		Review: handler.NewReviewHandler(reviewUC, log),
		Like:   handler.NewLikeHandler(likeUC, log),
		Health: handler.NewHealthHandler(checks, log),
	}, m, registry)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
