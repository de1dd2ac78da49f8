package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"socialai/internal/caching"
	"socialai/internal/common"
	"socialai/internal/config"
	"socialai/internal/handlers"
	"socialai/internal/jobs"
	"socialai/internal/jobs/background"
	"socialai/internal/metrics"
	"socialai/internal/middleware"
	"socialai/internal/models"
	"socialai/internal/repositories"
	"socialai/internal/services"
	"socialai/internal/session"
	"socialai/pkg/database"
	"socialai/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Starting socialai API", append(cfg.LogFields(), zap.String("version", version))...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	cacheService := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zapLogger)
	defer func() {
		if err := cacheService.Close(); err != nil {
			zapLogger.Warn("Failed to close redis client", zap.Error(err))
		}
	}()

	// Media previews degrade to provider links when object storage is unavailable.
	var storage services.MinioService
	minioService, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Bucket)
	if err != nil {
		zapLogger.Warn("MinIO client unavailable, cached media disabled", zap.Error(err))
	} else {
		if err := minioService.EnsureBucketExists(ctx); err != nil {
			zapLogger.Warn("Failed to ensure media bucket", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
		}
		storage = minioService
	}

	resolver, err := session.NewResolver(cfg.Session, cacheService, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize session resolver", zap.Error(err))
	}
	defer resolver.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	invitationRepo := repositories.NewInvitationRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	integrationRepo := repositories.NewIntegrationRepo(pool)
	driveMediaRepo := repositories.NewDriveMediaRepo(pool)
	pricingRepo := repositories.NewPricingRepo(pool)
	postRepo := repositories.NewPostRepo(pool)

	// Services
	authService := services.NewAuthService(userRepo, resolver, zapLogger)
	tenantService := services.NewTenantService(tenantRepo)
	teamService := services.NewTeamService(userRepo, invitationRepo, zapLogger)
	pricingService := services.NewPricingService(pricingRepo, cacheService, zapLogger)
	mediaService := services.NewMediaService(driveMediaRepo, storage, zapLogger)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo)
	stripeService := services.NewStripeService(cfg.Stripe)
	googleDriveService := services.NewGoogleDriveService(cfg.Google, services.DefaultGoogleEndpoints(), integrationRepo, cacheService, zapLogger)
	linkedInService := services.NewLinkedInService(cfg.LinkedIn, services.DefaultLinkedInEndpoints(), integrationRepo, cacheService, zapLogger)

	var storagePinger handlers.Pinger
	if storage != nil {
		storagePinger = handlers.PingFunc(storage.Health)
	}

	h := &handlers.Handlers{
		Auth:         handlers.NewAuthHandlers(authService, resolver, cfg.IsProduction()),
		Pricing:      handlers.NewPricingHandlers(pricingService),
		Team:         handlers.NewTeamHandlers(teamService, tenantService),
		Media:        handlers.NewMediaHandlers(mediaService),
		Integrations: handlers.NewIntegrationHandlers(googleDriveService, linkedInService, cfg.Server.PublicURL),
		SuperAdmin:   handlers.NewSuperAdminHandlers(pricingService, stripeService, subscriptionService, tenantService),
		Health:       handlers.NewHealthHandlers(pool, cacheService, storagePinger, version),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.Validator = common.NewRequestValidator()

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(logger.Middleware(zapLogger, uuid.NewString))
	e.Use(echoMiddleware.Recover())
	e.Use(appMetrics.Middleware())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.Server.PublicURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.SessionMiddleware(resolver))

	handlers.RegisterRoutes(e, h,
		middleware.NewRBACMiddleware(appMetrics),
		middleware.NewAuditMiddleware(zapLogger),
		version,
	)
	e.GET("/metrics", echo.WrapHandler(appMetrics.Handler()))

	var scheduler *background.JobScheduler
	if cfg.Scheduler.Enabled {
		publisher := jobs.NewPostPublisher(postRepo, map[models.Provider]jobs.Publisher{
			models.ProviderLinkedIn: linkedInService,
		}, appMetrics, zapLogger, cfg.Scheduler.BatchSize)

		scheduler, err = background.NewJobScheduler(publisher, cfg.Scheduler.Interval, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to create job scheduler", zap.Error(err))
		}
		scheduler.Start()
		zapLogger.Info("Job scheduler started", zap.Strings("jobs", scheduler.Jobs()), zap.Duration("interval", cfg.Scheduler.Interval))
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			zapLogger.Error("Job scheduler shutdown failed", zap.Error(err))
		}
	}
	zapLogger.Info("Shutdown complete")
}
