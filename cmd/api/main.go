package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/config"
	"github.com/stridewear/catalog-service/internal/auth"
	"github.com/stridewear/catalog-service/internal/platform/broker"
	"github.com/stridewear/catalog-service/internal/platform/cache"
	"github.com/stridewear/catalog-service/internal/platform/database"
	"github.com/stridewear/catalog-service/internal/platform/logger"
	"github.com/stridewear/catalog-service/internal/platform/search"

	catalogH "github.com/stridewear/catalog-service/internal/catalog/handler"
	catalogRepoPkg "github.com/stridewear/catalog-service/internal/catalog/repository"
	catalogUCPkg "github.com/stridewear/catalog-service/internal/catalog/usecase"

	ledgerH "github.com/stridewear/catalog-service/internal/ledger/handler"
	ledgerListenerPkg "github.com/stridewear/catalog-service/internal/ledger/listener"
	ledgerRepoPkg "github.com/stridewear/catalog-service/internal/ledger/repository"
	ledgerUCPkg "github.com/stridewear/catalog-service/internal/ledger/usecase"

	attrindexUCPkg "github.com/stridewear/catalog-service/internal/attrindex/usecase"

	selectionH "github.com/stridewear/catalog-service/internal/selection/handler"
	selectionUCPkg "github.com/stridewear/catalog-service/internal/selection/usecase"

	storefrontH "github.com/stridewear/catalog-service/internal/storefront/handler"
	storefrontUCPkg "github.com/stridewear/catalog-service/internal/storefront/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
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
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, redisClient, esClient, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, catalogRepo, redisClient, appLogger)
	attrindexUC := attrindexUCPkg.NewAttrIndexUseCase(catalogRepo, redisClient, appLogger)
	storefrontUC := storefrontUCPkg.NewStorefrontUseCase(catalogRepo, attrindexUC, redisClient, esClient, appLogger)
	selectionUC := selectionUCPkg.NewSelectionUseCase(catalogRepo, attrindexUC)

	// 9. Start Listener
	ledgerListener := ledgerListenerPkg.NewLedgerListener(kafkaConsumer, ledgerUC, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ledgerListener.Start(ctx)

	// 10. Initialize Handlers
	catalogHandler := catalogH.NewCatalogHandler(catalogUC, appLogger)
	ledgerHandler := ledgerH.NewLedgerHandler(ledgerUC, appLogger)
	storefrontHandler := storefrontH.NewStorefrontHandler(storefrontUC, appLogger)
	selectionHandler := selectionH.NewSelectionHandler(selectionUC, appLogger)

	// 11. Router
	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", storefrontHandler.ListProducts)
		v1.GET("/products/:id", storefrontHandler.GetProduct)
		v1.GET("/products/:id/selection", selectionHandler.Evaluate)
		v1.GET("/colors", catalogHandler.ListColors)
		v1.GET("/sizes", catalogHandler.ListSizes)

		admin := v1.Group("/admin", auth.RequireOperator())
		{
			admin.POST("/products", catalogHandler.CreateProduct)
			admin.PUT("/products/:id", catalogHandler.UpdateProduct)
			admin.DELETE("/products/:id", catalogHandler.DeleteProduct)
			admin.GET("/products/:id/variants", catalogHandler.ListVariants)

			admin.POST("/variants", catalogHandler.UpsertVariant)
			admin.PUT("/variants/:id/active", catalogHandler.SetVariantActive)
			admin.GET("/variants/:id/entries", ledgerHandler.ListEntries)
			admin.GET("/variants/:id/stock", ledgerHandler.CurrentStock)

			admin.POST("/imports", ledgerHandler.RecordImport)
			admin.POST("/adjustments", ledgerHandler.RecordAdjustment)

			admin.POST("/colors", catalogHandler.CreateColor)
			admin.POST("/sizes", catalogHandler.CreateSize)
		}
	}

	// 12. Start HTTP Server
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	appLogger.Info("Server stopped")
}
