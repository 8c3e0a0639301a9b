package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahlulathar/ahlulathar-api/config"
	"github.com/ahlulathar/ahlulathar-api/internal/cache"
	"github.com/ahlulathar/ahlulathar-api/internal/handlers"
	"github.com/ahlulathar/ahlulathar-api/internal/i18n"
	"github.com/ahlulathar/ahlulathar-api/internal/middleware"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/notify"
	"github.com/ahlulathar/ahlulathar-api/internal/prefs"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/ahlulathar/ahlulathar-api/pkg/db"
	"github.com/ahlulathar/ahlulathar-api/pkg/jwt"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"github.com/ahlulathar/ahlulathar-api/pkg/objstore"
	"github.com/ahlulathar/ahlulathar-api/pkg/profiling"
	"github.com/ahlulathar/ahlulathar-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerRoutes wires the public, session, and admin API surface
func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	tokenManager *jwt.TokenManager,
	authHandler *handlers.AuthHandler,
	languageHandler *handlers.LanguageHandler,
	updatesHandler *handlers.UpdatesHandler,
	notificationsHandler *handlers.NotificationsHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
) {
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	loginRateLimiter := middleware.NewRateLimiter(0.1, 5)     // 6 req/min, burst of 5 (login abuse prevention)
	uploadRateLimiter := middleware.NewRateLimiter(1, 3)      // 1 req/sec, burst of 3

	sessionRequired := middleware.SessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(generalRateLimiter.Middleware())

	// Authentication
	v1.POST("/auth/login", loginRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/auth/session", sessionRequired, authHandler.Session)

	// Localization
	v1.GET("/language", languageHandler.GetLanguage)
	v1.PUT("/language", middleware.BodySizeLimitMiddleware(1*1024), languageHandler.SetLanguage)
	v1.POST("/language/toggle", languageHandler.ToggleLanguage)
	v1.GET("/language/dictionary", languageHandler.GetDictionary)
	v1.POST("/language/translate", middleware.BodySizeLimitMiddleware(10*1024), languageHandler.Translate)

	// Updates feed
	v1.GET("/updates", updatesHandler.GetUpdates)
	v1.POST("/updates", sessionRequired, adminOnly, middleware.BodySizeLimitMiddleware(100*1024), updatesHandler.CreateUpdate)
	v1.DELETE("/updates/:id", sessionRequired, adminOnly, updatesHandler.DeleteUpdate)

	// Notifications
	v1.GET("/notifications/toasts", notificationsHandler.GetToasts)
	v1.POST("/notifications/toasts", middleware.BodySizeLimitMiddleware(10*1024), notificationsHandler.ShowToast)
	v1.DELETE("/notifications/toasts/:id", notificationsHandler.DismissToast)
	v1.GET("/notifications/confirm", notificationsHandler.GetConfirm)
	v1.POST("/notifications/confirm/resolve", middleware.BodySizeLimitMiddleware(1*1024), notificationsHandler.ResolveConfirm)

	// Profile
	v1.POST("/profile/avatar", sessionRequired, uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadAvatar)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Ahlul Athar API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics and infrastructure collection
	metrics.Init()
	metrics.RecordInfrastructureMetrics()

	// Continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Document store: PostgreSQL-backed in normal operation, in-memory when
	// working offline (local development without a database)
	var docStore store.Store
	if cfg.Database.WorkOffline {
		logger.Warn("Running with in-memory document store - data will not survive restarts")
		memStore := store.NewMemoryStore()
		seedOfflineFixtures(memStore)
		docStore = memStore
	} else {
		pool, err := db.NewPool(context.Background(), db.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
		}
		defer pool.Close()
		docStore = store.NewPostgresStore(pool)
	}

	// NOTE: Database migrations are run separately via the migrate command

	// Preference store backing session and language persistence
	prefStore, err := prefs.NewFileStore(cfg.Session.StateDir)
	if err != nil {
		logger.Fatal("Failed to initialize preference store", zap.Error(err))
	}

	// Language session with restored or default language
	i18nSession, err := i18n.NewSession(prefStore, i18n.Language(cfg.I18n.DefaultLanguage))
	if err != nil {
		logger.Fatal("Failed to initialize language session", zap.Error(err))
	}

	// Notification center
	notifyCenter := notify.NewCenter(
		notify.WithToastTTL(time.Duration(cfg.Notifications.ToastTTLSeconds) * time.Second),
	)
	defer notifyCenter.Shutdown()

	// Updates cache, populated synchronously before accepting requests
	updatesCache := cache.NewUpdatesCache(
		services.FetchAll(docStore),
		time.Duration(cfg.Cache.UpdatesTTLSeconds)*time.Second,
	)
	if err := updatesCache.Initialize(context.Background()); err != nil {
		logger.Fatal("Failed to initialize updates cache", zap.Error(err))
	}

	// Object storage client for avatar uploads
	var storageClient objstore.StorageClientInterface
	if cfg.ObjectStorage.AccessKeyID != "" && cfg.ObjectStorage.SecretAccessKey != "" {
		storageClient, err = objstore.NewStorageClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
	}

	// Session tokens
	tokenManager := jwt.NewTokenManager(
		cfg.Session.JWTSecret,
		cfg.Session.JWTIssuer,
		cfg.Session.SessionTTLHours,
	)

	// Services
	authService := services.NewAuthService(docStore, prefStore)
	updatesService := services.NewUpdatesService(docStore, updatesCache)
	profileService := services.NewProfileService(docStore, storageClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, i18nSession, tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	languageHandler := handlers.NewLanguageHandler(i18nSession)
	updatesHandler := handlers.NewUpdatesHandler(updatesService, i18nSession, notifyCenter)
	notificationsHandler := handlers.NewNotificationsHandler(notifyCenter)
	profileHandler := handlers.NewProfileHandler(profileService, authService)
	healthHandler := handlers.NewHealthHandler(updatesCache.IsReady)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the configured origins, plus localhost in development
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for session cookies
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router, cfg, tokenManager,
		authHandler, languageHandler, updatesHandler, notificationsHandler, profileHandler, healthHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// seedOfflineFixtures loads development fixtures into the in-memory store
func seedOfflineFixtures(memStore *store.MemoryStore) {
	memStore.Seed(store.UsersCollection, []store.Record{
		{
			"id":          "dev-admin",
			"displayName": "مدير التطوير",
			"phoneNumber": "0500000000",
			"password":    "dev-password",
			"isActive":    true,
			"role":        "admin",
		},
	})
	memStore.Seed(store.UpdatesCollection, []store.Record{
		{
			"title":       "إطلاق الموقع الجديد",
			"description": "تم إطلاق النسخة الجديدة من موقع المؤسسة",
			"date":        "2025-06-01",
			"type":        "feature",
		},
	})
}
