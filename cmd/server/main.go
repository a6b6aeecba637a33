package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/partstock-inventory-service/config"
	"github.com/fekuna/partstock-inventory-service/pkg/broker"
	"github.com/fekuna/partstock-inventory-service/pkg/cache"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"github.com/fekuna/partstock-inventory-service/pkg/postgres"
	"github.com/fekuna/partstock-inventory-service/pkg/search"

	catRepoPkg "github.com/fekuna/partstock-inventory-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/partstock-inventory-service/internal/catalog/usecase"

	invH "github.com/fekuna/partstock-inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/partstock-inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/partstock-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/partstock-inventory-service/internal/inventory/usecase"

	priceH "github.com/fekuna/partstock-inventory-service/internal/pricing/handler"
	priceRepoPkg "github.com/fekuna/partstock-inventory-service/internal/pricing/repository"
	priceUCPkg "github.com/fekuna/partstock-inventory-service/internal/pricing/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
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
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
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

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (movement audit search disabled)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	priceRepo := priceRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	supplierTTL := time.Duration(cfg.Redis.SupplierTTL) * time.Second
	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, supplierTTL, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, catUC, esClient, appLogger)
	priceUC := priceUCPkg.NewPricingUseCase(priceRepo, catUC, appLogger)

	// 9. Start Listener
	movementListener := invListenerPkg.NewMovementListener(kafkaConsumer, invUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go movementListener.Start(ctx)

	// 10. Initialize Handlers and HTTP server
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	priceHandler := priceH.NewPricingHandler(priceUC, appLogger)

	app := fiber.New(fiber.Config{
		AppName: "partstock-inventory-service",
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api/v1")
	invHandler.Register(api)
	priceHandler.Register(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
