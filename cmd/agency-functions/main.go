package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/agency-functions/internal/api"
	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/hypernova-labs/agency-functions/internal/database"
	"github.com/hypernova-labs/agency-functions/internal/email"
	"github.com/hypernova-labs/agency-functions/internal/services"
	"github.com/hypernova-labs/agency-functions/internal/workflows"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting agency functions...")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(logger); err != nil {
			logger.Fatalf("Error running migrations: %v", err)
		}
	}

	// Redis solo respalda el rate limit; sin Redis no se limita
	var limiter api.Limiter
	redis, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warnf("Error connecting to Redis, rate limiting disabled: %v", err)
	} else {
		defer redis.Close()
		limiter = redis
	}

	// Storage de Supabase
	if !cfg.StorageEnabled() {
		logger.Fatal("Supabase storage credentials not provided")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	storage, err := database.NewSupabaseClient(ctx, &cfg.Supabase, logger)
	if err != nil {
		cancel()
		logger.Fatalf("Error initializing Supabase client: %v", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		logger.Warnf("Supabase storage bucket check failed: %v", err)
	} else {
		logger.Info("Supabase storage connection healthy")
	}
	cancel()

	var mailer services.InvoiceMailer
	if cfg.Email.ResendAPIKey != "" {
		mailer = email.NewResendService(cfg.Email, cfg.Company, logger)
		logger.Info("Resend service initialized successfully")
	} else {
		logger.Warn("Resend API key not provided, invoice emails will not be sent")
	}

	var events services.EventPublisher
	inngestClient, err := workflows.NewInngestClient(cfg, logger)
	if err != nil {
		logger.Warnf("Inngest not available, events will not be published: %v", err)
	} else {
		events = inngestClient
	}

	// Repositorios y servicios
	sessionRepo := database.NewLoginSessionRepository(db, logger)
	customerRepo := database.NewCustomerRepository(db, logger)
	invoiceRepo := database.NewInvoiceRepository(db, logger)
	orderRepo := database.NewOrderRepository(db, logger)

	authService := services.NewAuthService(sessionRepo, customerRepo, events, cfg.Auth, logger)
	invoicePDFService := services.NewInvoicePDFService(
		invoiceRepo,
		orderRepo,
		customerRepo,
		storage,
		services.NewDocumentGenerator(cfg.Company, logger),
		mailer,
		events,
		logger,
	)

	apiHandler := api.NewAPI(authService, invoicePDFService, logger)
	apiHandler.AddHealthCheck("database", db)
	apiHandler.AddHealthCheck("storage", storage)
	if redis != nil {
		apiHandler.AddHealthCheck("redis", redis)
	}

	router, err := api.SetupRouter(apiHandler, api.RouterOptions{
		Limiter:         limiter,
		VerifyAttempts:  cfg.RateLimit.VerifyAttempts,
		Window:          cfg.RateLimit.Window,
		TrustedProxies:  cfg.Server.TrustedProxies,
		TrustedPlatform: cfg.Server.TrustedPlatform,
	}, logger)
	if err != nil {
		logger.Fatalf("Error setting up router: %v", err)
	}

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	db.LogStats(logger)
	logger.Info("Server exited")
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
