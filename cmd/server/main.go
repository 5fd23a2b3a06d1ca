package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	aliasapp "github.com/wholesale/backend/internal/application/alias"
	syncapp "github.com/wholesale/backend/internal/application/sync"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
	"github.com/wholesale/backend/internal/infrastructure/cache"
	"github.com/wholesale/backend/internal/infrastructure/config"
	"github.com/wholesale/backend/internal/infrastructure/ecommerce"
	"github.com/wholesale/backend/internal/infrastructure/logger"
	"github.com/wholesale/backend/internal/infrastructure/persistence"
	"github.com/wholesale/backend/internal/infrastructure/scheduler"
	"github.com/wholesale/backend/internal/infrastructure/storage"
	"github.com/wholesale/backend/internal/interfaces/http/handler"
	"github.com/wholesale/backend/internal/interfaces/http/middleware"
	"github.com/wholesale/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Wholesale Catalog Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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
	log.Info("Database connected successfully")

	// Initialize repositories
	skuRepo := persistence.NewGormSKURepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	aliasRepo := persistence.NewGormAliasMappingRepository(db.DB)
	runRepo := persistence.NewGormSyncRunRepository(db.DB)
	rawRepo := persistence.NewGormRawRecordRepository(db.DB)

	// Alias resolution backed by Redis when available, in-memory otherwise
	aliasCache := cache.NewAliasMappingCache(cfg.Redis, log)
	resolver := aliasapp.NewResolver(aliasRepo, aliasCache, log)
	aliasAdmin := aliasapp.NewAdminService(aliasRepo, aliasCache, log)

	// Bulk extraction client against the source platform
	bulkClient, err := ecommerce.NewBulkClient(&ecommerce.BulkConfig{
		Endpoint:       cfg.Platform.Endpoint,
		AccessToken:    cfg.Platform.AccessToken,
		TimeoutSeconds: cfg.Platform.TimeoutSeconds,
		PollInterval:   cfg.Sync.PollInterval,
		MaxWait:        cfg.Sync.MaxWait,
	}, log)
	if err != nil {
		log.Fatal("Failed to create bulk extraction client", zap.Error(err))
	}
	extractor := ecommerce.NewExtractor(bulkClient, log)

	// Transform pipeline with the shipped field mapping
	transformer := syncapp.NewTransformer(
		syncapp.DefaultStageConfig(),
		resolver,
		collectionRepo,
		cfg.Sync.ExcludedCategories,
	)

	// Catalog snapshots go to object storage when configured; the stub
	// keeps the pipeline runnable without credentials.
	var backup syncapp.BackupStore
	if cfg.Sync.BackupEnabled && cfg.Storage.Bucket != "" {
		s3Backup, err := storage.NewS3BackupStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to create backup store", zap.Error(err))
		}
		backup = s3Backup
		log.Info("Catalog backups enabled",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.Duration("retention", cfg.Sync.BackupRetention))
	} else {
		backup = storage.NewStubBackupStore(log)
	}

	orchestrator := syncapp.NewOrchestrator(
		runRepo,
		rawRepo,
		skuRepo,
		extractor,
		transformer,
		backup,
		nil,
		syncapp.Options{
			ProductStatus:   cfg.Sync.ProductStatus,
			BatchSize:       cfg.Sync.BatchSize,
			BackupEnabled:   cfg.Sync.BackupEnabled,
			BackupRetention: cfg.Sync.BackupRetention,
			SizeAliases:     cfg.Sync.SizeAliases,
		},
		log,
	)
	statusService := syncapp.NewStatusService(runRepo, cfg.Sync.StaleAfter)

	// Scheduled sync runs
	catalogScheduler := scheduler.NewCatalogSyncScheduler(orchestrator, log, scheduler.CatalogSyncSchedulerConfig{
		Enabled:  cfg.Scheduler.Enabled,
		Interval: cfg.Scheduler.Interval,
	})
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := catalogScheduler.Start(schedulerCtx); err != nil {
		log.Fatal("Failed to start catalog sync scheduler", zap.Error(err))
	}

	// Initialize handlers
	syncHandler := handler.NewSyncHandler(orchestrator, statusService)
	aliasHandler := handler.NewAliasHandler(aliasAdmin)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
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

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

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

	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.POST("/start", syncHandler.Start)
	syncRoutes.POST("/cancel", syncHandler.Cancel)
	syncRoutes.GET("/status", syncHandler.Status)
	syncRoutes.GET("/history", syncHandler.History)
	syncRoutes.POST("/webhook", syncHandler.Webhook)

	aliasRoutes := router.NewDomainGroup("alias", "/alias")
	aliasRoutes.GET("/signals", aliasHandler.ListSignals)
	aliasRoutes.POST("/signals/:id/assign", aliasHandler.Assign)
	aliasRoutes.POST("/signals/:id/defer", aliasHandler.Defer)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(syncRoutes).
		Register(aliasRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	if err := catalogScheduler.Stop(ctx); err != nil {
		log.Error("Error stopping catalog sync scheduler", zap.Error(err))
	}

	// Cancel any active run so its bookkeeping is flushed before exit
	if err := orchestrator.Cancel(ctx); err != nil && !errors.Is(err, syncdomain.ErrNoActiveRun) {
		log.Error("Error cancelling active sync run", zap.Error(err))
	}
	orchestrator.Wait()

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
