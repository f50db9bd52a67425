package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"docvault/internal/config"
	"docvault/internal/crypto"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/identity"
	"docvault/internal/logging"
	"docvault/internal/notify"
	"docvault/internal/otel"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// A missing or malformed encryption key must prevent start, not surface
	// later as undecryptable documents.
	engine, err := crypto.NewEngine(cfg.Encryption)
	if err != nil {
		logger.Fatal("failed to initialize encryption engine", zap.Error(err))
	}

	shutdownTracing, err := otel.Init(context.Background(), logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(context.Background(), db, logger); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	mailer, err := notify.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		logger.Fatal("failed to initialize mailer", zap.Error(err))
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	linkRepo := postgres.NewAccessLinkPostgres(db)
	auditRepo := postgres.NewAuditLogPostgres(db)

	auditSvc := service.NewAuditService(auditRepo, docRepo)
	docSvc := service.NewDocumentService(objStore, docRepo, auditSvc, engine)
	linkSvc := service.NewAccessLinkService(linkRepo, docRepo, auditSvc, cfg.BaseURL)
	verifySvc := service.NewVerificationService(identity.NewSQLDirectory(db), mailer, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, cfg.Auth.JWTSecret, handlers.Services{
		Documents:    docSvc,
		AccessLinks:  linkSvc,
		Audit:        auditSvc,
		Verification: verifySvc,
	})

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
