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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/spms-api/api/swagger"
	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/handler"
	"github.com/noah-isme/spms-api/internal/repository"
	"github.com/noah-isme/spms-api/internal/router"
	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/internal/validation"
	"github.com/noah-isme/spms-api/pkg/cache"
	"github.com/noah-isme/spms-api/pkg/config"
	"github.com/noah-isme/spms-api/pkg/database"
	"github.com/noah-isme/spms-api/pkg/logger"
	"github.com/noah-isme/spms-api/pkg/mailer"
	"github.com/noah-isme/spms-api/pkg/scheduler"
)

// @title Student Performance Monitoring API
// @version 1.0.0
// @description Tracks marks and attendance, derives grades and raises threshold alerts.
// @BasePath /api
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	thresholds := grading.Thresholds{
		LowMarks:           cfg.Alerts.LowMarks,
		LowAttendance:      cfg.Alerts.LowAttendance,
		CriticalMarks:      cfg.Alerts.CriticalMarks,
		CriticalAttendance: cfg.Alerts.CriticalAttendance,
	}
	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid alert thresholds: %w", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.DB, logr); err != nil {
			return err
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logr.Warn("redis disabled, logout revocation is not persisted")
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	tokenStore := repository.NewTokenStore(redisClient, cfg.Redis.KeyPrefix)

	validate := validation.New()
	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, tokenStore, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, subjectRepo, performanceRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, performanceRepo, validate, logr)
	performanceSvc := service.NewPerformanceService(performanceRepo, studentRepo, subjectRepo, userRepo, thresholds, validate, logr)
	alertSvc := service.NewAlertService(userRepo, userRepo, studentRepo, performanceRepo, thresholds, metrics, logr)
	analyticsSvc := service.NewAnalyticsService(studentRepo, performanceRepo, userRepo, metrics, logr)
	reportSvc := service.NewReportService(alertSvc, analyticsSvc, nil, logr)

	mail := mailer.New(mailer.Config{
		SendGridAPIKey: cfg.Mail.SendGridAPIKey,
		FromAddress:    cfg.Mail.FromAddress,
		AppName:        cfg.Mail.AppName,
	}, logr)
	notificationSvc := service.NewNotificationService(alertSvc, mail, metrics, service.NotificationConfig{
		Workers:    cfg.Digest.Workers,
		MaxRetries: cfg.Digest.MaxRetries,
		RetryDelay: cfg.Digest.RetryDelay,
	}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	cron := scheduler.New(time.Minute, logr)
	if cfg.Digest.Enabled {
		if err := cron.Add("alert-digest", cfg.Digest.Cron, notificationSvc.RunScheduled); err != nil {
			return err
		}
		cron.Start()
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = redisCheck(redisClient)
	}

	engine := router.New(router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(studentSvc),
		Subjects:    handler.NewSubjectHandler(subjectSvc),
		Performance: handler.NewPerformanceHandler(performanceSvc),
		Alerts:      alertHandler(cfg.Mail, alertSvc, notificationSvc),
		Analytics:   handler.NewAnalyticsHandler(analyticsSvc),
		Reports:     handler.NewReportHandler(reportSvc),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	}, router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Auth:           authSvc,
		Audit:          userRepo,
		Metrics:        metrics,
		Logger:         logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cron.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
		return srv.Close()
	}
	return nil
}

// alertHandler only exposes manual digests when SendGrid is configured. Scheduled digests
// still run against the log-only mailer.
func alertHandler(mail config.MailConfig, alerts *service.AlertService, digests *service.NotificationService) *handler.AlertHandler {
	if mail.SendGridAPIKey == "" || digests == nil {
		return handler.NewAlertHandler(alerts, nil)
	}
	return handler.NewAlertHandler(alerts, digests)
}

func redisCheck(client *redis.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
