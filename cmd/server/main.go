package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jewelen/marketplace-backend/internal/config"
	"github.com/jewelen/marketplace-backend/internal/database"
	"github.com/jewelen/marketplace-backend/internal/handlers"
	"github.com/jewelen/marketplace-backend/internal/importer"
	"github.com/jewelen/marketplace-backend/internal/invoice"
	"github.com/jewelen/marketplace-backend/internal/jobs"
	"github.com/jewelen/marketplace-backend/internal/logging"
	"github.com/jewelen/marketplace-backend/internal/middleware"
	"github.com/jewelen/marketplace-backend/internal/notify"
	"github.com/jewelen/marketplace-backend/internal/payment"
	"github.com/jewelen/marketplace-backend/internal/routes"
	"github.com/jewelen/marketplace-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewTeeHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Receipt numbers
	node, err := snowflake.NewNode(1)
	if err != nil {
		slog.Error("snowflake node init failed", "error", err)
		os.Exit(1)
	}

	// Payment gateway
	gateway := payment.NewRazorpayClient(cfg.GatewayKeyID, cfg.GatewaySecret, cfg.GatewayBaseURL)
	if cfg.GatewayKeyID == "" {
		slog.Warn("RAZORPAY_KEY_ID not set, payment intents will fail")
	}

	// Mail
	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg)
	} else {
		slog.Warn("SMTP_HOST not set, OTP mails will be logged instead of sent")
	}

	hub := notify.NewHub(notify.NewGormStore(database.DB))
	imp := importer.New(database.DB)

	// Services
	authService := services.NewAuthService(database.DB, cfg, mailer)
	catalogService := services.NewCatalogService(database.DB)
	cartService := services.NewCartService(database.DB)
	couponService := services.NewCouponService(database.DB)
	orderService := services.NewOrderService(database.DB, cfg, gateway, couponService, hub, node)
	addressService := services.NewAddressService(database.DB)
	statsService := services.NewStatsService(database.DB)
	blogService := services.NewBlogService(database.DB)
	notificationService := services.NewNotificationService(database.DB)
	feedService := services.NewFeedService(database.DB, imp)

	// Feed sync schedule
	scheduler := jobs.NewScheduler(feedService)
	if err := scheduler.Start(cfg.SyncSchedule); err != nil {
		slog.Error("feed sync schedule failed", "spec", cfg.SyncSchedule, "error", err)
		os.Exit(1)
	}

	// Handlers
	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(),
		Product:      handlers.NewProductHandler(catalogService),
		Import:       handlers.NewImportHandler(imp, feedService),
		Cart:         handlers.NewCartHandler(cartService),
		Coupon:       handlers.NewCouponHandler(couponService),
		Order:        handlers.NewOrderHandler(orderService, invoice.NewRenderer()),
		Address:      handlers.NewAddressHandler(addressService),
		Stats:        handlers.NewStatsHandler(statsService),
		Blog:         handlers.NewBlogHandler(blogService),
		Notification: handlers.NewNotificationHandler(notificationService, hub),
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    12 * 1024 * 1024,
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
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, database.DB, h)

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

	scheduler.Stop()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{"error": true, "message": message})
}
