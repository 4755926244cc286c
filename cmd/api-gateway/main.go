package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/health-survey-api/api/swagger"
	"github.com/noah-isme/health-survey-api/internal/handler"
	"github.com/noah-isme/health-survey-api/internal/repository"
	"github.com/noah-isme/health-survey-api/internal/server"
	"github.com/noah-isme/health-survey-api/internal/service"
	"github.com/noah-isme/health-survey-api/pkg/cache"
	"github.com/noah-isme/health-survey-api/pkg/config"
	"github.com/noah-isme/health-survey-api/pkg/database"
	"github.com/noah-isme/health-survey-api/pkg/jobs"
	"github.com/noah-isme/health-survey-api/pkg/logger"
	"github.com/noah-isme/health-survey-api/pkg/storage"
)

// @title Health Survey API
// @version 1.0.0
// @description Role based data collection for regional health surveys
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logr.Sugar().Fatalw("failed to apply migrations", "error", err)
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()
	location := cfg.Location()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	cacheEnabled := cfg.Cache.Enabled
	if cacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, statistics cache disabled", "error", err)
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StatsTTL, logr, cacheEnabled)

	userRepo := repository.NewUserRepository(db)
	governorateRepo := repository.NewGovernorateRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	exportRepo := repository.NewExportRepository(db)

	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, regionRepo, governorateRepo, auditRepo, validate, logr)
	governorateSvc := service.NewGovernorateService(governorateRepo, auditRepo, validate, logr)
	regionSvc := service.NewRegionService(regionRepo, governorateRepo, auditRepo, validate, logr)
	surveySvc := service.NewSurveyService(surveyRepo, governorateRepo, cacheSvc, auditRepo, validate, logr)
	responseSvc := service.NewResponseService(responseRepo, surveyRepo, cacheSvc, auditRepo, validate, logr)
	submissionSvc := service.NewSubmissionService(surveyRepo, responseRepo, cacheSvc, metrics, auditRepo, validate, logr, location)
	employeeSvc := service.NewEmployeeService(userRepo, surveyRepo, logr, location)
	govAdminSvc := service.NewGovernorateAdminService(governorateRepo, regionRepo, surveyRepo, userRepo, cacheSvc, auditRepo, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, validate, logr)

	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Users:        handler.NewUserHandler(userSvc),
		Organisation: handler.NewOrganisationHandler(governorateSvc, regionSvc),
		Surveys:      handler.NewSurveyHandler(surveySvc),
		Responses:    handler.NewResponseHandler(responseSvc, location),
		Governorate:  handler.NewGovernorateWorkspaceHandler(govAdminSvc),
		Employee:     handler.NewEmployeeWorkspaceHandler(employeeSvc, submissionSvc, responseSvc),
		Audit:        handler.NewAuditHandler(auditSvc, location),
		Metrics:      handler.NewMetricsHandler(metrics, db),
	}

	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exporter := service.NewExportService(responseRepo, surveyRepo, auditRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
			Location:  location,
		}, logr, nil, nil)
		worker := service.NewExportWorker(exportRepo, exporter, metrics, cfg.Exports.WorkerRetries, logr)
		exportQueue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			BufferSize: 64,
			MaxRetries: cfg.Exports.WorkerRetries,
			RetryDelay: 5 * time.Second,
			Logger:     logr,
		})
		exportQueue.Start(ctx)

		exportSvc := service.NewExportJobService(exportRepo, surveyRepo, exportQueue, exporter, validate, logr, service.ExportJobConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportSvc.RecoverPendingJobs(ctx)
		exportSvc.StartCleanup(ctx)
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	router := server.NewRouter(server.Options{
		Config:      cfg,
		Logger:      logr,
		Tokens:      authSvc,
		Observer:    metrics,
		AuditWriter: auditRepo,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if exportQueue != nil {
		exportQueue.Stop()
	}
}
