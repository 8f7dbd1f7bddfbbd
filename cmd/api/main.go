package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/clinic-service/internal/api/http"
	"github.com/spec-kit/clinic-service/internal/api/http/handlers"
	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/config"
	"github.com/spec-kit/clinic-service/internal/events"
	"github.com/spec-kit/clinic-service/internal/observability"
	"github.com/spec-kit/clinic-service/internal/persistence"
	"github.com/spec-kit/clinic-service/internal/repository"
	"github.com/spec-kit/clinic-service/internal/service"
	"github.com/spec-kit/clinic-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clinicRepo := repository.NewClinicRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)
	examRepo := repository.NewExaminationRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	sessionStore := auth.NewSessionStore(redis.Client, cfg.Auth.IdentityCacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	aiClient := service.NewAIClient(cfg.AIService)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		TokenManager: tokenManager,
		SessionStore: sessionStore,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	clinicService := service.NewClinicService(clinicRepo)
	patientService := service.NewPatientService(patientRepo, examRepo, statsRepo)
	examinationService := service.NewExaminationService(service.ExaminationDependencies{
		ExamRepo:   examRepo,
		Patients:   patientRepo,
		Reports:    reportRepo,
		AIClient:   aiClient,
		Dispatcher: dispatcher,
	})
	reportService := service.NewReportService(reportRepo)
	statsService := service.NewStatsService(statsRepo)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, sessionStore, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Clinics:        handlers.NewClinicsHandler(clinicService),
		Patients:       handlers.NewPatientsHandler(patientService),
		Examinations:   handlers.NewExaminationsHandler(examinationService),
		Reports:        handlers.NewReportsHandler(reportService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
		Policy:         auth.DefaultPolicy(),
		RateLimiter:    httptransport.NewRateLimiter(cfg.RateLimit),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
