package v1

import (
	"time"

	"banjara-intake-backend/config"
	"banjara-intake-backend/internal/delivery/http/middleware"
	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/internal/usecase"
	"banjara-intake-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	IntakeUC    domain.IntakeUsecase
	ReviewUC    domain.ReviewUsecase
	WorkflowUC  domain.WorkflowUsecase
	ExportUC    domain.ExportUsecase
	DashboardUC domain.DashboardUsecase
	AuthUC      domain.AuthUsecase
	HealthUC    usecase.HealthUsecase
	Config      *config.Config
	Audit       *security.AuditLogger
	// FilesDir is served under /files when attachments are stored locally
	FilesDir string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	limit := func(rc middleware.RateLimitConfig) gin.HandlerFunc {
		rc.Audit = deps.Audit
		return middleware.RateLimitMiddleware(rc)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(limit(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.FilesDir != "" {
		r.Static("/files", deps.FilesDir)
	}

	v1 := r.Group("/v1")

	// Public routes
	NewHealthHandler(v1, deps.HealthUC)
	NewCategoryHandler(v1)
	NewSubmissionHandler(v1, deps.IntakeUC,
		limit(middleware.SubmitRateLimitConfig(cfg.RateLimitSubmitThreshold, window)))

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Reviewer routes
	adminPublic := v1.Group("/admin")
	protected := v1.Group("/admin")
	protected.Use(middleware.ReviewerAuth(deps.AuthUC, cfg.AdminLoginURL))
	protected.Use(middleware.CSRFMiddleware(cfg.CookieSecure))
	{
		NewAuthHandler(adminPublic, protected, deps.AuthUC, cfg.CookieSecure,
			limit(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window)))
		NewReviewHandler(protected, deps.ReviewUC, deps.WorkflowUC, deps.ExportUC)
		NewDashboardHandler(protected, deps.DashboardUC)
	}

	return r
}
