package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/config"
	"github.com/dukapos/retail-core/internal/auth"
	"github.com/dukapos/retail-core/internal/events"
	"github.com/dukapos/retail-core/internal/middleware"
	"github.com/dukapos/retail-core/pkg/broker"
	"github.com/dukapos/retail-core/pkg/cache"
	"github.com/dukapos/retail-core/pkg/database/postgres"
	"github.com/dukapos/retail-core/pkg/logger"
	"github.com/dukapos/retail-core/pkg/search"
	"github.com/dukapos/retail-core/prometheus"

	auditH "github.com/dukapos/retail-core/internal/audit/handler"
	auditRepoPkg "github.com/dukapos/retail-core/internal/audit/repository"
	auditUCPkg "github.com/dukapos/retail-core/internal/audit/usecase"

	catalogH "github.com/dukapos/retail-core/internal/catalog/handler"
	catalogRepoPkg "github.com/dukapos/retail-core/internal/catalog/repository"
	catalogUCPkg "github.com/dukapos/retail-core/internal/catalog/usecase"

	invH "github.com/dukapos/retail-core/internal/inventory/handler"
	invRepoPkg "github.com/dukapos/retail-core/internal/inventory/repository"
	invUCPkg "github.com/dukapos/retail-core/internal/inventory/usecase"

	salesH "github.com/dukapos/retail-core/internal/sales/handler"
	salesListenerPkg "github.com/dukapos/retail-core/internal/sales/listener"
	salesRepoPkg "github.com/dukapos/retail-core/internal/sales/repository"
	salesUCPkg "github.com/dukapos/retail-core/internal/sales/usecase"

	staffRepoPkg "github.com/dukapos/retail-core/internal/staff/repository"

	transferH "github.com/dukapos/retail-core/internal/transfer/handler"
	transferRepoPkg "github.com/dukapos/retail-core/internal/transfer/repository"
	transferUCPkg "github.com/dukapos/retail-core/internal/transfer/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	prometheus.InitMetrics("retail_core")

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
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	ordersConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
		GroupID: cfg.Kafka.ConsumerGroup,
	})
	defer ordersConsumer.Close()

	eventsProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.EventsTopic,
	})
	defer eventsProducer.Close()
	appLogger.Info("connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		// Search degrades to SQL lookups when ES is down.
		appLogger.Warn("could not connect to Elasticsearch", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	vatRate, err := decimal.NewFromString(cfg.Sales.VATRate)
	if err != nil {
		appLogger.Fatal("invalid SALES_VAT_RATE", zap.String("value", cfg.Sales.VATRate))
	}
	commissionRate, err := decimal.NewFromString(cfg.Sales.DefaultCommissionRate)
	if err != nil {
		appLogger.Fatal("invalid SALES_DEFAULT_COMMISSION_RATE", zap.String("value", cfg.Sales.DefaultCommissionRate))
	}

	txm := postgres.NewTxManager(db)
	emitter := events.NewEmitter(eventsProducer, appLogger)

	auditRepo := auditRepoPkg.NewPGRepository()
	staffRepo := staffRepoPkg.NewPGRepository()
	catalogRepo := catalogRepoPkg.NewPGRepository()
	invRepo := invRepoPkg.NewPGRepository()
	salesRepo := salesRepoPkg.NewPGRepository()
	transferRepo := transferRepoPkg.NewPGRepository()

	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, db, esClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, staffRepo, auditRepo, txm, db, redisClient, emitter, appLogger)
	salesUC := salesUCPkg.NewSalesUseCase(salesRepo, invRepo, catalogRepo, staffRepo, auditRepo, txm, db, emitter,
		salesUCPkg.Config{VATRate: vatRate, DefaultCommissionRate: commissionRate}, appLogger)
	transferUC := transferUCPkg.NewTransferUseCase(transferRepo, invRepo, catalogRepo, staffRepo, auditRepo, txm, db, emitter, appLogger)
	auditUC := auditUCPkg.NewAuditUseCase(auditRepo, staffRepo, db, appLogger)

	orderListener := salesListenerPkg.NewOrderListener(ordersConsumer, salesUC, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", auth.JWTMiddleware(cfg.JWT.SecretKey, appLogger))

	catalogH.NewCatalogHandler(catalogUC, appLogger).MapRoutes(api.Group("/catalog"))
	invH.NewInventoryHandler(invUC, appLogger).MapRoutes(api.Group("/inventory"))
	salesH.NewSalesHandler(salesUC, appLogger).MapRoutes(api.Group("/sales"))
	transferH.NewTransferHandler(transferUC, appLogger).MapRoutes(api.Group("/transfers"))
	auditH.NewAuditHandler(auditUC, appLogger).MapRoutes(api.Group("/audit"))

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	go func() {
		if err := e.Start(port); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()
	appLogger.Info("started HTTP server", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
