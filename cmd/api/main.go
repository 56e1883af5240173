package main

// @title Housing Survey Dashboard API
// @version 1.0.0
// @description Сервис дашборда по обследованию жилищных проектов. Держит состояние сессии пользователя (набор проектов, фильтры, выделение, окно карты) и после каждого взаимодействия возвращает пересчитанное представление.
// @description
// @description Основные возможности:
// @description - Загрузка анкет в форматах XLSX, CSV и GeoJSON с приведением к каноническому виду
// @description - Каскадные фильтры по категориальным полям
// @description - Синхронизация списка, графиков и итогов с видимой областью карты
// @description - Выбор проекта кликом по карте или из списка, приближение к проекту

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/config"
	httpDelivery "github.com/housing-survey-dashboard/internal/delivery/http"
	"github.com/housing-survey-dashboard/internal/delivery/http/handler"
	"github.com/housing-survey-dashboard/internal/domain/repository"
	"github.com/housing-survey-dashboard/internal/infrastructure/ingest"
	"github.com/housing-survey-dashboard/internal/pkg/logger"
	"github.com/housing-survey-dashboard/internal/repository/cache"
	"github.com/housing-survey-dashboard/internal/repository/file"
	"github.com/housing-survey-dashboard/internal/repository/memory"
	"github.com/housing-survey-dashboard/internal/repository/postgres"
	"github.com/housing-survey-dashboard/internal/usecase"
	"github.com/housing-survey-dashboard/internal/worker"
	"github.com/housing-survey-dashboard/internal/worker/session"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "housing-dashboard")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Housing Survey Dashboard")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("session_store", cfg.Session.Store),
		zap.String("dataset_source", cfg.Dataset.Source),
	)

	healthChecks := make(map[string]handler.HealthCheck)
	ingester := ingest.NewAdapter(cfg.Dataset.FallbackEPSG, cfg.Upload.MaxBytes, log)

	// 3. Dataset source
	var (
		datasetRepo repository.DatasetRepository
		db          *postgres.DB
	)
	switch cfg.Dataset.Source {
	case config.DatasetNone:
		log.Info("No default dataset configured, sessions start empty")
	case config.DatasetFile:
		datasetRepo = file.NewDatasetRepository(cfg.Dataset.Path, ingester, log)
		log.Info("Default dataset file", zap.String("path", cfg.Dataset.Path))
	case config.DatasetPostgres:
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		repo, err := postgres.NewDatasetRepository(db, cfg.Dataset.Table)
		if err != nil {
			log.Fatal("Failed to initialize dataset repository", zap.Error(err))
		}
		datasetRepo = repo
		healthChecks["postgres"] = db.Health
		log.Info("PostgreSQL connected", zap.String("table", cfg.Dataset.Table))
	default:
		log.Fatal("Unknown dataset source", zap.String("source", cfg.Dataset.Source))
	}

	// 4. Session store
	var (
		sessionRepo repository.SessionRepository
		redisClient *cache.Redis
	)
	workerManager := worker.NewWorkerManager(log)

	switch cfg.Session.Store {
	case config.StoreMemory:
		sessionRepo = memory.NewSessionRepository()
		workerManager.Register(session.NewJanitorWorker(
			sessionRepo,
			cfg.Session.TTL,
			cfg.Session.SweepInterval,
			log,
		))
	case config.StoreRedis:
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sessionRepo = cache.NewSessionRepository(cache.NewSnapshotStore(redisClient), cfg.Session.TTL, log)
		healthChecks["redis"] = redisClient.Health
		log.Info("Redis connected")
	default:
		log.Fatal("Unknown session store", zap.String("store", cfg.Session.Store))
	}

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	for name, check := range healthChecks {
		if err := check(ctx); err != nil {
			log.Fatal("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
	}
	cancel()

	log.Info("All connections healthy")

	// 6. Initialize Use Cases
	dashboardUC := usecase.NewDashboardUseCase(
		sessionRepo,
		datasetRepo,
		ingester,
		log,
		usecase.DashboardConfig{
			ListLimit:       cfg.View.ListLimit,
			ClickToleranceM: cfg.View.ClickToleranceM,
		},
	)

	// 7. Initialize HTTP Handlers
	dashboardHandler := handler.NewDashboardHandler(dashboardUC, cfg.Upload.AllowedTypes, cfg.Upload.MaxBytes, log)
	healthHandler := handler.NewHealthHandler(healthChecks, log)

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, dashboardHandler, healthHandler)

	// 9. Start workers and server
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Redis сам удаляет сессии по TTL, уборщик нужен только хранилищу в памяти
	if cfg.Session.Store == config.StoreMemory {
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

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

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workerManager.Stop(ctx); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
