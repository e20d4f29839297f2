package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"designator/docs"
	"designator/internal/catalog"
	"designator/internal/config"
	"designator/internal/database"
	"designator/internal/database/migration"
	handlers "designator/internal/http/handler"
	"designator/internal/http/middleware"
	"designator/internal/logging"
	"designator/internal/otel"
	"designator/internal/repository/postgres"
	"designator/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Designator API
// @version 1.0
// @description Assigns ЕСПД, ЕСКД and ГОСТ 34 designations to products and their documents.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New("designator", cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		dsn, err := database.BuildPostgresDSN(cfg.Database)
		if err != nil {
			logger.Error("invalid database config", "error", err)
			os.Exit(1)
		}
		if err := migration.EnsureMigrated(ctx, dsn, logger); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	productRepo := postgres.NewProductPostgres(db)
	documentRepo := postgres.NewDocumentPostgres(db)
	docTypeRepo := postgres.NewCustomDocTypePostgres(db)
	tx := database.NewTxRunner(db)
	cat := catalog.New(docTypeRepo)

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to register service metrics", "error", err)
		os.Exit(1)
	}
	opts := service.Options{
		ESPDOrgCode: cfg.Designation.ESPDOrgCode,
		MaxRetries:  cfg.Designation.MaxRetries,
		Logger:      logger.Named("service"),
		Metrics:     metrics,
	}
	services := handlers.Services{
		Products:  service.NewProductService(productRepo, documentRepo, tx, opts),
		Documents: service.NewDocumentService(productRepo, documentRepo, cat, tx, opts),
		DocTypes:  service.NewDocTypeService(docTypeRepo, documentRepo, cat, opts),
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to register http metrics", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// RequestID must run first so that the logger and error payloads see the id.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, services)
	app.Get(middleware.MetricsPath, middleware.MetricsHandler(prometheus.DefaultGatherer))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		serverErr <- app.Listen(addr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", "error", err)
	}
}
