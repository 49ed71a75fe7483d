package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/wooconnect/backend/internal/application/sync"
	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/infrastructure/cache"
	"github.com/wooconnect/backend/internal/infrastructure/config"
	"github.com/wooconnect/backend/internal/infrastructure/logger"
	"github.com/wooconnect/backend/internal/infrastructure/persistence"
	"github.com/wooconnect/backend/internal/infrastructure/queue"
	"github.com/wooconnect/backend/internal/infrastructure/scheduler"
	"github.com/wooconnect/backend/internal/infrastructure/storage"
	"github.com/wooconnect/backend/internal/infrastructure/telemetry"
	"github.com/wooconnect/backend/internal/infrastructure/woocommerce"
	"github.com/wooconnect/backend/internal/interfaces/http/handler"
	"github.com/wooconnect/backend/internal/interfaces/http/middleware"
	"github.com/wooconnect/backend/internal/interfaces/http/router"
)

// jobChannel groups every import job this instance enqueues so operators can
// filter the queue by source.
const jobChannel = "root.woocommerce"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WooConnect Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	backendRepo := persistence.NewGormBackendRepository(db.DB)
	bindingRepo := persistence.NewGormBindingRepository(db.DB)
	watermarkStore := persistence.NewGormWatermarkStore(db.DB)
	jobStore := persistence.NewGormJobStore(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentModeRepo := persistence.NewGormPaymentModeRepository(db.DB)
	carrierRepo := persistence.NewGormCarrierRepository(db.DB)

	// Remote client factory with API call recording
	clientFactory := woocommerce.NewFactory(woocommerce.NewLogRecorder(log))

	// Binder over the binding table
	binder := appsync.NewBinder(bindingRepo)

	// Job queue backed by the job store
	jobQueue := queue.NewStoreQueue(jobStore)

	// Dedupe store: Redis when enabled, in-memory fallback otherwise
	dedupeFactory := cache.NewDedupeStoreFactory(cfg.Redis, cache.WithLogger(log))
	dedupeStore, err := dedupeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create dedupe store", zap.Error(err))
	}

	// Product image storage: S3 when configured, otherwise a stub that keeps
	// imports running without image sync
	var imageStorage appsync.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("Image storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		imageStorage = storage.NewStubImageStorage()
	}

	// Build the importer registry: one record importer and one batch importer
	// per entity kind
	registry := appsync.NewRegistry()

	categoryHandler := appsync.NewCategoryHandler(categoryRepo)
	productHandler := appsync.NewProductHandler(productRepo, imageStorage, log)
	customerHandler := appsync.NewCustomerHandler(partnerRepo, log)
	orderHandler := appsync.NewOrderHandler(orderRepo, partnerRepo, paymentModeRepo, log)
	carrierHandler := appsync.NewCarrierHandler(carrierRepo)

	registry.RegisterImporter(appsync.NewImporter(categoryHandler, nil, binder, clientFactory, registry, log))
	registry.RegisterImporter(appsync.NewImporter(productHandler, nil, binder, clientFactory, registry, log))
	registry.RegisterImporter(appsync.NewImporter(customerHandler, nil, binder, clientFactory, registry, log))
	registry.RegisterImporter(appsync.NewImporter(orderHandler, appsync.NewOrderImportRule(paymentModeRepo), binder, clientFactory, registry, log))
	registry.RegisterImporter(appsync.NewImporter(carrierHandler, nil, binder, clientFactory, registry, log))

	defaultBatch := appsync.BatchConfig{
		JobOptions: connector.JobOptions{Channel: jobChannel},
		DedupeTTL:  cfg.Queue.DedupeTTL,
	}
	// Bound orders are never re-enqueued and never retried automatically, so
	// a transient failure cannot create a duplicate sale order unnoticed.
	orderBatch := appsync.BatchConfig{
		JobOptions: connector.JobOptions{
			Priority:   5,
			MaxRetries: connector.MaxRetries(0),
			Channel:    jobChannel,
		},
		SkipBound: true,
		DedupeTTL: cfg.Queue.DedupeTTL,
	}
	for _, kind := range connector.AllEntityKinds() {
		batchCfg := defaultBatch
		if kind == connector.EntityKindOrder {
			batchCfg = orderBatch
		}
		registry.RegisterBatch(appsync.NewBatchImporter(kind, clientFactory, binder, jobQueue, dedupeStore, batchCfg, log))
	}

	// Inventory exporter and the sync service in front of it all
	exporter := appsync.NewInventoryExporter(clientFactory, binder, productRepo, log)
	syncService := appsync.NewService(backendRepo, watermarkStore, registry, exporter, log)

	// Start the job processor (if enabled)
	if cfg.Queue.ProcessorEnabled {
		processor := queue.NewProcessor(jobStore, syncService, queue.ProcessorConfig{
			BatchSize:      cfg.Queue.BatchSize,
			PollInterval:   cfg.Queue.PollInterval,
			BaseRetryDelay: cfg.Queue.BaseRetryDelay,
			MaxRetryDelay:  cfg.Queue.MaxRetryDelay,
		}, log)
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start job processor", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := processor.Stop(ctx); err != nil {
				log.Error("Error stopping job processor", zap.Error(err))
			}
		}()
	}

	// Start the periodic sync scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.DefaultSyncSchedulerConfig()
		schedulerConfig.CheckInterval = cfg.Scheduler.CheckInterval
		syncScheduler, err := scheduler.NewSyncScheduler(schedulerConfig, backendRepo, syncService, log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := syncScheduler.Stop(ctx); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
		log.Info("Sync scheduler started",
			zap.Duration("check_interval", schedulerConfig.CheckInterval),
		)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler()).
		Register(handler.NewBackendHandler(backendRepo)).
		Register(handler.NewSyncHandler(syncService, jobQueue)).
		Register(handler.NewBindingHandler(bindingRepo)).
		Register(handler.NewJobHandler(jobStore))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
