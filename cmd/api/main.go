package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-talentflow-backend/config"
	_ "go-talentflow-backend/docs" // Important for Swagger
	v1 "go-talentflow-backend/internal/delivery/http/v1"
	"go-talentflow-backend/internal/notification"
	"go-talentflow-backend/internal/repository/postgres"
	"go-talentflow-backend/internal/repository/rediscache"
	"go-talentflow-backend/internal/usecase"
	"go-talentflow-backend/pkg/database"
	"go-talentflow-backend/pkg/email"
	"go-talentflow-backend/pkg/logger"
	"go-talentflow-backend/pkg/redis"
	"go-talentflow-backend/pkg/security"
	"go-talentflow-backend/pkg/storage"
	"go-talentflow-backend/pkg/token"
	"go-talentflow-backend/pkg/validation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// @title           TalentFlow Backend API
// @version         1.0
// @description     Job application platform backend: accounts, profiles, postings, applications, feedback, and metrics.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting talentflow backend", "port", cfg.Port)
	security.InitSecurityLogger("talentflow-backend", os.Getenv("ENVIRONMENT"))

	// 3. Setup Redis (optional: rate limiting and caching degrade gracefully)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable - falling back to in-memory rate limiting, no metrics cache", "error", err)
	}
	defer redis.Close()

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 5. Setup Object Storage
	objectStore, err := storage.NewStore(context.Background(), storage.NewClientConfigFromEnv())
	if err != nil {
		logger.Log.Error("Failed to configure object storage", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	accountRepo := postgres.NewAccountRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	feedbackRepo := postgres.NewFeedbackRepository(dbPool)
	contactRepo := postgres.NewContactRepository(dbPool)
	metricsRepo := postgres.NewMetricsRepository(dbPool)
	tokenStore := rediscache.NewRefreshTokenStore()
	metricsCache := rediscache.NewMetricsCache(time.Duration(cfg.MetricsCacheTTLSeconds) * time.Second)

	// 7. Setup Supporting Services
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - verification and feedback emails will be skipped")
	}
	tokens := token.NewManager(cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
	)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	})
	publisher := notification.NewRedisPublisher()

	// 8. Setup UseCases
	authUC := usecase.NewAuthUsecase(accountRepo, profileRepo, tokenStore, tokens, tracker, security.DefaultLogger(), emailService, publisher)
	profileUC := usecase.NewProfileUsecase(profileRepo, objectStore)
	jobUC := usecase.NewJobUsecase(jobRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, publisher, metricsCache, objectStore)
	feedbackUC := usecase.NewFeedbackUsecase(feedbackRepo, applicationRepo, jobRepo, accountRepo, applicationUC, publisher, emailService)
	contactUC := usecase.NewContactUsecase(contactRepo, applicationRepo, jobRepo)
	metricsUC := usecase.NewMetricsUsecase(metricsRepo, metricsCache)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     profileUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		FeedbackUC:    feedbackUC,
		ContactUC:     contactUC,
		MetricsUC:     metricsUC,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exited")
}
