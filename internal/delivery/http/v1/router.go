package v1

import (
	"net/http"
	"time"

	"go-talentflow-backend/config"
	"go-talentflow-backend/internal/delivery/http/middleware"
	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ProfileUC     domain.ProfileUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	FeedbackUC    domain.FeedbackUsecase
	ContactUC     domain.ContactUsecase
	MetricsUC     domain.MetricsUsecase
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(middleware.GlobalRateLimitMiddleware(deps.Config.RateLimitGlobalThreshold, window))

	loginLimiter := middleware.LoginRateLimitMiddleware(deps.Config.RateLimitLoginThreshold, window)
	uploadLimiter := middleware.UploadRateLimitMiddleware()

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, loginLimiter)
		NewProfileHandler(protected, deps.ProfileUC, uploadLimiter)
		NewJobHandler(v1, protected, deps.JobUC)
		NewApplicationHandler(protected, deps.ApplicationUC, uploadLimiter)
		NewFeedbackHandler(protected, deps.FeedbackUC)
		NewContactHandler(protected, deps.ContactUC)
		NewMetricsHandler(protected, deps.MetricsUC)
	}

	return r
}
