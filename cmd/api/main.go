package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/thq-service/internal/api/http"
	"github.com/spec-kit/thq-service/internal/api/http/handlers"
	"github.com/spec-kit/thq-service/internal/auth"
	"github.com/spec-kit/thq-service/internal/config"
	"github.com/spec-kit/thq-service/internal/events"
	"github.com/spec-kit/thq-service/internal/navigation"
	"github.com/spec-kit/thq-service/internal/observability"
	"github.com/spec-kit/thq-service/internal/persistence"
	"github.com/spec-kit/thq-service/internal/repository"
	"github.com/spec-kit/thq-service/internal/service"
	"github.com/spec-kit/thq-service/internal/worker"
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
	nonsigRepo := repository.NewNonsigRepository(pool)
	navRepo := repository.NewNavigationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	nonsigService := service.NewNonsigService(nonsigRepo, dispatcher)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		Nonsigs:           nonsigService,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	userService := service.NewUserService(userRepo, nonsigRepo)
	navService := navigation.NewService(navRepo, redis.ClientHandle(), cfg.Navigation.CacheTTL(), logger)

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), cfg.Auth.SessionTTL(), logger, metrics)
	authorizer := auth.NewAuthorizer(navService, logger, metrics)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Nonsigs:        handlers.NewNonsigsHandler(nonsigService),
		Navigation:     handlers.NewNavigationHandler(navService),
		AuthMiddleware: authMiddleware,
		Authorizer:     authorizer,
	})

	go func() {
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
