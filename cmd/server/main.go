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

	checkoutapp "github.com/bizreg/backend/internal/application/checkout"
	registrationapp "github.com/bizreg/backend/internal/application/registration"
	"github.com/bizreg/backend/internal/infrastructure/auth"
	"github.com/bizreg/backend/internal/infrastructure/config"
	"github.com/bizreg/backend/internal/infrastructure/logger"
	"github.com/bizreg/backend/internal/infrastructure/payment"
	"github.com/bizreg/backend/internal/infrastructure/persistence"
	"github.com/bizreg/backend/internal/infrastructure/session"
	"github.com/bizreg/backend/internal/infrastructure/storage"
	"github.com/bizreg/backend/internal/interfaces/http/handler"
	"github.com/bizreg/backend/internal/interfaces/http/middleware"
	"github.com/bizreg/backend/internal/interfaces/http/router"
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

	log.Info("Starting business registration backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Wizard session store backed by Redis
	draftStore, err := session.NewRedisDraftStore(session.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Session.TTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := draftStore.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Wizard session store connected", zap.Duration("ttl", cfg.Session.TTL))

	// Object storage for owner identity documents
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
	}
	log.Info("Object storage ready", zap.String("bucket", objectStorage.GetBucket()))

	// Payment gateway
	stripeGateway, err := payment.NewStripeCheckoutGateway(&cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	// Repositories
	draftRepo := persistence.NewGormBusinessDraftRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	draftService := registrationapp.NewDraftService(draftRepo)
	wizardService := registrationapp.NewWizardService(draftStore)
	documentService := registrationapp.NewDocumentService(objectStorage, log)
	checkoutService := checkoutapp.NewCheckoutService(stripeGateway, cfg.Stripe.Currency, log)

	// HTTP handlers
	registrationHandler := handler.NewRegistrationHandler(draftService)
	wizardHandler := handler.NewWizardHandler(wizardService)
	documentHandler := handler.NewDocumentHandler(documentService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	systemHandler := handler.NewSystemHandler(map[string]handler.ReadinessCheck{
		"database": func(context.Context) error { return db.Ping() },
		"redis":    draftStore.Ping,
	})

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, body size limit, then JWT auth.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/checkout/session",
		},
		SkipPathPrefixes: []string{
			// The wizard runs before the user has an account; its
			// state is scoped by session ID only.
			"/api/v1/wizard",
		},
		Logger: log,
	}))

	// Health and readiness live outside API versioning
	systemHandler.RegisterRoutes(engine.Group(""))

	// The hosted checkout endpoint speaks bare JSON at the root, matching
	// the payment widget's expectations.
	checkoutHandler.RegisterRoutes(engine.Group(""))

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(registrationHandler)
	r.Register(wizardHandler)
	r.Register(documentHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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
