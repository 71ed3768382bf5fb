package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banjara-intake-backend/config"
	_ "banjara-intake-backend/docs" // Important for Swagger
	v1 "banjara-intake-backend/internal/delivery/http/v1"
	"banjara-intake-backend/internal/repository/postgres"
	"banjara-intake-backend/internal/repository/storage"
	"banjara-intake-backend/internal/usecase"
	"banjara-intake-backend/pkg/auth"
	"banjara-intake-backend/pkg/database"
	"banjara-intake-backend/pkg/email"
	"banjara-intake-backend/pkg/imaging"
	"banjara-intake-backend/pkg/logger"
	"banjara-intake-backend/pkg/redis"
	"banjara-intake-backend/pkg/security"
	"banjara-intake-backend/pkg/security/antivirus"
	"banjara-intake-backend/pkg/validation"
)

// @title           Banjara Intake API
// @version         1.0
// @description     Submission intake and review pipeline for job seekers and hospitality businesses.
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

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting intake backend", "port", cfg.Port, "storage", cfg.StorageProvider)

	audit := security.DefaultAudit()
	defer audit.Sync()

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	health := map[string]usecase.Pinger{"database": dbPool}
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer redis.Close()
			health["redis"] = usecase.PingFunc(redis.HealthCheck)
		}
	}

	// 5. Setup Attachment Store
	store, err := storage.NewAttachmentStore(ctx, storage.Options{
		Provider: cfg.StorageProvider,
		S3: storage.S3Config{
			Flavor:          storage.S3Flavor(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		},
		SupabaseURL:        cfg.SupabaseURL,
		SupabaseServiceKey: cfg.SupabaseServiceKey,
		LocalPath:          cfg.LocalStoragePath,
		PublicBaseURL:      cfg.PublicFilesBaseURL,
	})
	if err != nil {
		logger.Log.Error("Failed to set up attachment storage", "error", err)
		os.Exit(1)
	}
	var filesDir string
	if local, ok := store.(*storage.LocalStore); ok {
		filesDir = local.Root()
	}

	// 6. Setup Repositories and Services
	submissionRepo := postgres.NewSubmissionRepository(dbPool)

	emailService := email.NewEmailService(cfg)
	notifier := usecase.NewEmailNotifier(emailService, cfg.FrontendURL+"/admin")
	if notifier == nil {
		logger.Log.Warn("Email service not fully configured - new-submission emails are disabled")
	}

	scanner := antivirus.New(cfg.ClamAVAddress, cfg.ClamAVTimeout)
	logger.Log.Info("Attachment scanning", "scanner", scanner.Name())

	// 7. Setup UseCases
	submissionValidator := usecase.NewSubmissionValidator(validation.New())
	intakeUC := usecase.NewIntakeUsecase(submissionRepo, store, submissionValidator, scanner, notifier, imaging.Options{
		MaxDimension: cfg.ImageMaxDimension,
		Quality:      cfg.ImageQuality,
	})
	reviewUC := usecase.NewReviewUsecase(submissionRepo)
	workflowUC := usecase.NewWorkflowUsecase(submissionRepo, audit)
	exportUC := usecase.NewExportUsecase(reviewUC)
	dashboardUC := usecase.NewDashboardUsecase(submissionRepo, cfg.Location())

	// 8. Setup Reviewer Auth (optional external identity provider via JWKS)
	authCfg := usecase.AuthConfig{
		Username:     cfg.ReviewerUsername,
		PasswordHash: cfg.ReviewerPasswordHash,
		Secret:       cfg.ReviewerJWTSecret,
		TokenTTL:     cfg.ReviewerTokenTTL,
	}
	authCfg.Guard = security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.LoginMaxAttempts,
		AttemptWindow: cfg.LoginAttemptWindow,
		BlockDuration: cfg.LoginBlockDuration,
		UseIPTracking: true,
	}, audit)
	authCfg.Audit = audit
	if cfg.ReviewerJWKSURL != "" {
		authCfg.KeyFunc = auth.NewProvider(cfg.ReviewerJWKSURL).KeyFunc
	}
	authUC := usecase.NewAuthUsecase(authCfg)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		IntakeUC:    intakeUC,
		ReviewUC:    reviewUC,
		WorkflowUC:  workflowUC,
		ExportUC:    exportUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		HealthUC:    usecase.NewHealthUsecase(health),
		Config:      cfg,
		Audit:       audit,
		FilesDir:    filesDir,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if w, ok := intakeUC.(usecase.NotificationWaiter); ok {
		w.WaitNotifications()
	}

	logger.Log.Info("Server exiting")
}
