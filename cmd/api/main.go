package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/retailops/inventory-service/config"
	"go.uber.org/zap"

	"github.com/retailops/inventory-service/internal/audit"
	"github.com/retailops/inventory-service/internal/auth"
	"github.com/retailops/inventory-service/internal/pkg/broker"
	"github.com/retailops/inventory-service/internal/pkg/cache"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/pkg/postgres"

	catRepoPkg "github.com/retailops/inventory-service/internal/catalog/repository"

	invH "github.com/retailops/inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/retailops/inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/retailops/inventory-service/internal/inventory/repository"
	invUCPkg "github.com/retailops/inventory-service/internal/inventory/usecase"

	statusH "github.com/retailops/inventory-service/internal/stockstatus/handler"
	statusRepoPkg "github.com/retailops/inventory-service/internal/stockstatus/repository"
	statusUCPkg "github.com/retailops/inventory-service/internal/stockstatus/usecase"

	trfH "github.com/retailops/inventory-service/internal/transfer/handler"
	trfRepoPkg "github.com/retailops/inventory-service/internal/transfer/repository"
	trfUCPkg "github.com/retailops/inventory-service/internal/transfer/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka
	orderConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer orderConsumer.Close()

	auditProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Audit.Topic,
	})
	defer auditProducer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))

	// 6. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	statusRepo := statusRepoPkg.NewPGRepository(db)
	trfRepo := trfRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	recorder := audit.NewKafkaRecorder(auditProducer, appLogger)
	statusUC := statusUCPkg.NewStockStatusUseCase(statusRepo, appLogger)
	invUC := invUCPkg.NewStockUseCase(invRepo, catRepo, statusUC, redisClient, recorder, appLogger)
	trfUC := trfUCPkg.NewTransferUseCase(trfRepo, invUC, catRepo, recorder, appLogger)

	// 8. Start Sales Listener
	salesListener := invListenerPkg.NewSalesListener(orderConsumer, invUC, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go salesListener.Start(ctx)

	// 9. HTTP Router
	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(auth.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	invH.NewStockHandler(invUC, appLogger).Register(api)
	statusH.NewStockStatusHandler(statusUC, appLogger).Register(api)
	trfH.NewTransferHandler(trfUC, appLogger).Register(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
