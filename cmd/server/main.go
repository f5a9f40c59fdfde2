package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dashboardapp "github.com/bizops/backend/internal/application/dashboard"
	directoryapp "github.com/bizops/backend/internal/application/directory"
	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/infrastructure/auth"
	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/bizops/backend/internal/infrastructure/logger"
	"github.com/bizops/backend/internal/infrastructure/persistence"
	"github.com/bizops/backend/internal/infrastructure/storage"
	"github.com/bizops/backend/internal/infrastructure/telemetry"
	"github.com/bizops/backend/internal/interfaces/http/handler"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
	"github.com/bizops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
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

	log.Info("Starting BizOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize telemetry
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize the change feed. With Redis enabled, change events fan out
	// across instances; otherwise events stay within this process.
	var feed event.ChangeFeed
	if cfg.Feed.RedisEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()

		redisFeed := event.NewRedisChangeFeed(redisClient,
			event.WithRedisChannel(cfg.Feed.Channel),
			event.WithRedisLogger(log),
		)
		if err := redisFeed.Start(context.Background()); err != nil {
			log.Fatal("Failed to start redis change feed", zap.Error(err))
		}
		defer redisFeed.Stop(5 * time.Second)

		feed = redisFeed
		log.Info("Redis change feed started", zap.String("channel", cfg.Feed.Channel))
	} else {
		feed = event.NewInMemoryChangeFeed(log)
	}

	// Initialize invoice storage. Without credentials the stub keeps upload
	// endpoints functional in local development.
	var invoiceStorage ledgerapp.InvoiceStorage
	if cfg.Storage.AccessKeyID != "" || cfg.Storage.Endpoint != "" {
		s3Storage, err := storage.NewS3InvoiceStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiry),
		)
		if err != nil {
			log.Fatal("Failed to initialize invoice storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure invoice bucket", zap.Error(err))
		}
		invoiceStorage = s3Storage
		log.Info("Invoice storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		invoiceStorage = storage.NewStubInvoiceStorage()
		log.Warn("No object storage credentials configured, using in-memory invoice storage")
	}

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	incomeRepo := persistence.NewIncomeRepository(db.DB)
	expenseRepo := persistence.NewExpenseRepository(db.DB)

	// Initialize application services
	sessions := auth.ContextSessionProvider{}
	clientService := directoryapp.NewClientService(clientRepo, sessions, feed, log)
	credentialService := vaultapp.NewCredentialService(credentialRepo, sessions, feed, log)
	incomeService := ledgerapp.NewIncomeService(incomeRepo, sessions, feed, log)
	expenseService := ledgerapp.NewExpenseService(expenseRepo, sessions, feed, log)
	invoiceService := ledgerapp.NewInvoiceService(invoiceStorage)
	dashboardService := dashboardapp.NewService(clientRepo, incomeRepo, expenseRepo, credentialService, feed, log)

	if err := dashboardService.Start(context.Background()); err != nil {
		log.Fatal("Failed to start dashboard renewals mirror", zap.Error(err))
	}
	defer dashboardService.Stop()

	// JWT validation for the API surface
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	clientHandler := handler.NewClientHandler(clientService)
	credentialHandler := handler.NewCredentialHandler(credentialService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	streamHandler := handler.NewStreamHandler(feed, handler.WithStreamLogger(log))
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

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
	// 4. Tracing - Record spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
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

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint outside API versioning, for load balancer probes
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply authentication to API routes. Health and system probes stay
	// public; the SSE stream authenticates via the access_token query
	// parameter because EventSource cannot set headers.
	r.Use(middleware.AuthWithConfig(middleware.AuthConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	r.Register(clientHandler).
		Register(credentialHandler).
		Register(incomeHandler).
		Register(expenseHandler).
		Register(invoiceHandler).
		Register(dashboardHandler).
		Register(streamHandler).
		Register(systemHandler)

	r.Setup()

	// Create HTTP server with config. WriteTimeout stays unset because SSE
	// connections on /api/v1/stream are held open indefinitely.
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
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
