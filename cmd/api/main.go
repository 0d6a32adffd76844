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
	"github.com/redis/go-redis/v9"

	"github.com/lexjuris/lexjuris-api/config"
	"github.com/lexjuris/lexjuris-api/internal/cache"
	"github.com/lexjuris/lexjuris-api/internal/handlers"
	"github.com/lexjuris/lexjuris-api/internal/middleware"
	"github.com/lexjuris/lexjuris-api/internal/notify"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/repository"
	"github.com/lexjuris/lexjuris-api/internal/services"
	"github.com/lexjuris/lexjuris-api/pkg/db"
	"github.com/lexjuris/lexjuris-api/pkg/httpclient"
	"github.com/lexjuris/lexjuris-api/pkg/jwt"
	"github.com/lexjuris/lexjuris-api/pkg/logger"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
	"github.com/lexjuris/lexjuris-api/pkg/profiling"
	"github.com/lexjuris/lexjuris-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// newCounterStore builds the remote sliding-window store when a counter
// store URL is configured. Returns nil otherwise, which keeps the limiter on
// its in-process fallback.
func newCounterStore(cfg config.CounterStoreConfig) (ratelimit.CounterStore, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse counter store URL: %w", err)
	}
	if cfg.Token != "" {
		opts.Password = cfg.Token
	}

	return ratelimit.NewRedisStore(redis.NewClient(opts)), nil
}

// registerPublicRoutes registers the public website API
func registerPublicRoutes(
	router *gin.Engine,
	limiter *ratelimit.Limiter,
	contactHandler *handlers.ContactHandler,
	catalogHandler *handlers.CatalogHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/services", middleware.RateLimitMiddleware(limiter, ratelimit.PurposeAPI), catalogHandler.Services)
	// Submission throttling lives inside the orchestrator (form_submission,
	// 3 per 10 min). A second limiter in front of it would reject before the
	// third in-window submission can persist.
	v1.POST("/contact",
		middleware.BodySizeLimitMiddleware(100*1024),
		contactHandler.Submit)
}

// registerAdminRoutes registers admin dashboard authentication routes
func registerAdminRoutes(
	router *gin.Engine,
	cfg *config.Config,
	adminAuthHandler *handlers.AdminAuthHandler,
	tokenManager *jwt.TokenManager,
) {
	// Skip admin routes if JWT is not configured
	if tokenManager == nil {
		logger.Warn("Admin routes disabled: JWT_SECRET not configured")
		return
	}

	admin := router.Group("/api/v1/admin")
	admin.POST("/login", middleware.BodySizeLimitMiddleware(16*1024), adminAuthHandler.Login)
	admin.POST("/logout", adminAuthHandler.Logout)
	admin.GET("/session",
		middleware.AdminSessionMiddleware(tokenManager, cfg.AdminSession.CookieDomain, cfg.AdminSession.CookieSecure),
		adminAuthHandler.Session)
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
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting LexJuris API",
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
		cfg.Observability.CollectorEndpoint,
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

	// Initialize continuous profiling
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

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command

	// Initialize the sliding-window rate limiter. The remote store is
	// optional; without it every check runs against the in-process fallback.
	remoteStore, err := newCounterStore(cfg.CounterStore)
	if err != nil {
		logger.Fatal("Failed to initialize counter store", zap.Error(err))
	}
	if remoteStore == nil {
		logger.Warn("COUNTER_STORE_URL not configured, rate limiting is per-instance only")
	}
	limiter := ratelimit.NewLimiter(
		remoteStore,
		ratelimit.NewFallbackStore(),
		ratelimit.WithTimeout(time.Duration(cfg.CounterStore.TimeoutSeconds)*time.Second),
	)

	// Initialize HTTP client for external API calls
	httpClient := httpclient.NewStandardClient()

	// Initialize the submission notifier
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Email.ServiceID != "" {
		notifier = notify.NewEmailNotifier(cfg.Email, httpClient)
	} else {
		logger.Warn("EMAIL_SERVICE_ID not configured, submission notifications disabled")
	}

	// Initialize repositories and caches
	contactRepo := repository.NewContactRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	adminCache := cache.NewAdminCache(cfg.Cache.AdminTTLSeconds)

	// Initialize services
	submissionService := services.NewSubmissionService(contactRepo, limiter, notifier)

	var tokenManager *jwt.TokenManager
	if cfg.AdminSession.JWTSecret != "" {
		tokenManager = jwt.NewTokenManager(cfg.AdminSession.JWTSecret, cfg.AdminSession.JWTIssuer, cfg.AdminSession.SessionTTLHours)
	}
	adminAuthService := services.NewAdminAuthService(adminRepo, adminCache, limiter, tokenManager)

	// Initialize handlers
	contactHandler := handlers.NewContactHandler(submissionService)
	catalogHandler := handlers.NewCatalogHandler()
	healthHandler := handlers.NewHealthHandler(pool.Ping)
	adminAuthHandler := handlers.NewAdminAuthHandler(
		adminAuthService,
		cfg.AdminSession.CookieDomain,
		cfg.AdminSession.CookieSecure,
		time.Duration(cfg.AdminSession.SessionTTLHours)*time.Hour,
	)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true, // Required for admin session cookies
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	registerPublicRoutes(router, limiter, contactHandler, catalogHandler, healthHandler)
	registerAdminRoutes(router, cfg, adminAuthHandler, tokenManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
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
