package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/cache"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/config"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/database"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/logging"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/mail"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/routes"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/services"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.Environment)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records go to system_logs as well (postgres only)
	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})
	if db.Dialector.Name() == "postgres" {
		pgLogHandler = logging.NewPGHandler(db)
		logging.Attach(pgLogHandler)
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)
	}

	// Streams and subscriptions end when baseCtx is cancelled at shutdown.
	baseCtx, cancelStreams := context.WithCancel(context.Background())

	broker := realtime.NewBroker(slog.Default())

	// Optional collaborators
	var resetStore *cache.ResetTokenStore
	var redisPinger handlers.Pinger
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(baseCtx, 5*time.Second)
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			slog.Error("redis unavailable, password reset disabled", "error", err)
		} else {
			defer client.Close()
			resetStore = cache.NewResetTokenStore(client, cfg.PasswordResetTTL)
			redisPinger = resetStore
		}
	} else {
		slog.Warn("REDIS_URL not set, password reset disabled")
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPEnabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	var blobStore storage.BlobStore
	if cfg.CloudinaryEnabled() {
		store, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			slog.Error("cloudinary init failed, photo issues disabled", "error", err)
		} else {
			blobStore = store
		}
	} else {
		slog.Warn("cloudinary not configured, photo issues disabled")
	}

	// Repositories and services
	validator := services.NewValidator()
	reportRepo := repository.NewReportRepository(db, broker)
	profileRepo := repository.NewProfileRepository(db)

	reportService := services.NewReportService(reportRepo, profileRepo, validator, cfg.ReportForwardOnly)
	authService := services.NewAuthService(db, cfg, validator, resetStore, mailer)
	issueService := services.NewIssueService(db, blobStore, validator)
	exportService := services.NewExportService(reportRepo)

	// Handlers
	configHandler := handlers.NewRemoteConfigHandler(db)
	slog.Info("seeding remote config defaults")
	if err := configHandler.SeedDefaults(); err != nil {
		slog.Error("remote config seed failed", "error", err)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    storage.MaxUploadSize + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, reportService, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(db, redisPinger),
		Reports:      handlers.NewReportHandler(baseCtx, reportService),
		Issues:       handlers.NewIssueHandler(issueService),
		Admin:        handlers.NewAdminHandler(profileRepo, exportService, validator),
		RemoteConfig: configHandler,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	// End open event streams first so Shutdown does not wait on them.
	cancelStreams()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := broker.Close(); err != nil {
		slog.Error("broker close error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
