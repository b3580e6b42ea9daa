package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	_ "github.com/tair/inventory-dashboard/docs"
	"github.com/tair/inventory-dashboard/internal/config"
	"github.com/tair/inventory-dashboard/internal/dashboard"
	"github.com/tair/inventory-dashboard/internal/dashboard/client"
	grpcDelivery "github.com/tair/inventory-dashboard/internal/dashboard/delivery/grpc"
	httpDelivery "github.com/tair/inventory-dashboard/internal/dashboard/delivery/http"
	"github.com/tair/inventory-dashboard/internal/dashboard/delivery/ops"
	"github.com/tair/inventory-dashboard/internal/dashboard/domain"
	"github.com/tair/inventory-dashboard/internal/dashboard/health"
	"github.com/tair/inventory-dashboard/internal/dashboard/metrics"
	"github.com/tair/inventory-dashboard/internal/dashboard/snapshot"
	"github.com/tair/inventory-dashboard/internal/dashboard/usecase/command"
	"github.com/tair/inventory-dashboard/kafka"
	"github.com/tair/inventory-dashboard/pkg/database"
	"github.com/tair/inventory-dashboard/pkg/logger"
	"github.com/tair/inventory-dashboard/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("instance_id", cfg.InstanceID).
		Str("snapshot_backend", cfg.Snapshot.Backend).
		Msg("Starting inventory dashboard")

	// Initialize tracer
	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	var redisClient *redis.Client
	if cfg.Snapshot.Backend == config.BackendRedis || cfg.RateLimit.Enabled {
		redisClient = connectRedis(ctx, cfg.Redis)
		if redisClient != nil {
			defer redisClient.Close()
		}
	}

	store, closeStore := openStore(ctx, cfg, redisClient)
	defer closeStore()

	catalog := client.NewCatalogClient(dashboard.ProvideCatalogConfig(cfg))

	var publisher domain.EventPublisher
	var kafkaPublisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher, err = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.InstanceID)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to create Kafka publisher, inventory events disabled")
		} else {
			kafkaPublisher.SetObserver(m)
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	svc, err := dashboard.InitializeService(cfg, catalog, store, publisher, m)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize dashboard service")
	}

	if cfg.Kafka.Enabled {
		consumer := startConsumer(ctx, cfg, svc.Invalidate)
		if consumer != nil {
			defer consumer.Close()
		}
	}

	checker := health.NewChecker(cfg.ServiceName, catalog.Breaker(),
		health.Dependency{Name: "snapshot_store", Critical: true, Check: store.Ping},
		health.Dependency{Name: "catalog", Check: catalog.Ping},
	)

	// Ops server: metrics, health, swagger
	opsServer := ops.NewServer(cfg.Server.OpsPort, ops.NewRouter(checker, prometheus.DefaultGatherer))
	go func() {
		logger.Logger.Info().
			Str("port", cfg.Server.OpsPort).
			Str("metrics_endpoint", "/metrics").
			Msg("Ops server started")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start ops server")
		}
	}()

	// gRPC health service
	healthServer := grpcDelivery.NewHealthServer(checker)
	go healthServer.Watch(ctx, cfg.Server.HealthInterval)
	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
		if err != nil {
			logger.Logger.Fatal().Err(err).Str("port", cfg.Server.GRPCPort).Msg("Failed to listen")
		}
		logger.Logger.Info().Str("port", cfg.Server.GRPCPort).Msg("gRPC health server started")
		if err := healthServer.Server().Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	// Public API
	var limiter *httpDelivery.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter = httpDelivery.NewRateLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		logger.Logger.Info().
			Int("max_requests", cfg.RateLimit.MaxRequests).
			Dur("window", cfg.RateLimit.Window).
			Msg("Rate limiting enabled")
	}
	app := httpDelivery.NewApp(httpDelivery.AppConfig{
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, svc.Handler, limiter, m)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.Server.HTTPPort).
			Str("upstream", cfg.Upstream.BaseURL).
			Msg("Dashboard API started")
		if err := app.Listen(":" + cfg.Server.HTTPPort); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start dashboard API")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down inventory dashboard...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Dashboard API forced to shutdown")
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Ops server forced to shutdown")
	}
	healthServer.Server().GracefulStop()

	logger.Logger.Info().Msg("Inventory dashboard stopped")
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.Addr).
			Msg("Failed to connect to Redis")
		redisClient.Close()
		return nil
	}

	logger.Logger.Info().Str("redis_addr", cfg.Addr).Msg("Connected to Redis")
	return redisClient
}

// openStore builds the configured snapshot store wrapped with tracing
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (snapshot.Store, func()) {
	noop := func() {}

	switch cfg.Snapshot.Backend {
	case config.BackendRedis:
		if redisClient == nil {
			logger.Logger.Fatal().Msg("Redis snapshot backend selected but Redis is unreachable")
		}
		return snapshot.NewTracingStore(snapshot.NewRedisStore(redisClient, cfg.Snapshot.TTL), config.BackendRedis), noop

	case config.BackendPostgres:
		sqlDB, err := database.NewPostgresConnection(cfg.Database)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		db, err := database.NewGormConnection(sqlDB)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to open gorm session")
		}
		store := snapshot.NewGormStore(db)
		if err := store.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Logger.Info().Msg("Snapshot store initialized on PostgreSQL")
		return snapshot.NewTracingStore(store, config.BackendPostgres), closer(sqlDB)

	default:
		return snapshot.NewTracingStore(snapshot.NewMemoryStore(), config.BackendMemory), noop
	}
}

func closer(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close database")
		}
	}
}

// startConsumer subscribes this instance to inventory events. Every instance
// uses its own group so each one sees every edit.
func startConsumer(ctx context.Context, cfg *config.Config, invalidate *command.InvalidateProductsHandler) *kafka.Consumer {
	groupID := cfg.Kafka.GroupID + "-" + cfg.InstanceID
	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, groupID, []string{kafka.TopicInventoryUpdated})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create Kafka consumer, remote edits will not invalidate snapshots")
		return nil
	}

	consumer.RegisterHandler(kafka.EventTypeInventoryUpdated, func(ctx context.Context, event kafka.InventoryUpdatedEvent) error {
		return invalidate.Handle(ctx, command.InvalidateProductsCommand{
			Source:    event.Source,
			ProductID: event.ProductID,
		})
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer")
		consumer.Close()
		return nil
	}
	return consumer
}
