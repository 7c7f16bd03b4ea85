package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Yrcd27/mirror-auth-service/config"
	"github.com/Yrcd27/mirror-auth-service/db"
	authhandler "github.com/Yrcd27/mirror-auth-service/internal/auth/handler"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/password"
	authrepo "github.com/Yrcd27/mirror-auth-service/internal/auth/repository/postgres"
	authservice "github.com/Yrcd27/mirror-auth-service/internal/auth/service"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/throttle"
	journalhandler "github.com/Yrcd27/mirror-auth-service/internal/journal/handler"
	journalrepo "github.com/Yrcd27/mirror-auth-service/internal/journal/repository/postgres"
	journalservice "github.com/Yrcd27/mirror-auth-service/internal/journal/service"
	"github.com/Yrcd27/mirror-auth-service/pkg/constant"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		logger.Error("invalid bcrypt cost", "error", err)
		os.Exit(1)
	}

	loginThrottle := throttle.New(cfg.MaxLoginAttempts, time.Duration(cfg.LockoutWindowMin)*time.Minute)

	userRepo := authrepo.NewPostgresRepository(dbPool)
	tokenService := authservice.NewTokenService(cfg.JWTSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := authservice.NewUserService(userRepo, tokenService, hasher, loginThrottle, logger)
	authHandler := authhandler.NewAuthHandler(userService, cfg, logger)

	entryRepo := journalrepo.NewPostgresRepository(dbPool)
	entryService := journalservice.NewEntryService(entryRepo)
	journalHandler := journalhandler.NewJournalHandler(entryService)

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024,
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	requireAuth := authhandler.RequireAuth(tokenService)
	authhandler.RegisterRoutes(app, authHandler, requireAuth)
	journalhandler.RegisterRoutes(app, journalHandler, requireAuth)

	go runJanitor(ctx, userService, loginThrottle, time.Duration(cfg.RetentionDays)*24*time.Hour)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	logger.Info("mirror auth service listening", "port", cfg.Port, "env", cfg.Env)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// runJanitor periodically purges refresh-token rows past the retention
// window and drops stale throttle entries. Retention is a safety net; the
// primary invalidation mechanism is explicit revocation and rotation.
func runJanitor(ctx context.Context, userService *authservice.UserService,
	loginThrottle *throttle.LoginThrottle, retention time.Duration) {
	ticker := time.NewTicker(constant.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			userService.PurgeExpired(ctx, retention)
			loginThrottle.Prune()
		}
	}
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("service", "mirror-auth-service")
	slog.SetDefault(logger)

	return logger
}
