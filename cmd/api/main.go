package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventful/config"
	"eventful/internal/adapters/auth"
	"eventful/internal/adapters/cache"
	"eventful/internal/adapters/email"
	"eventful/internal/adapters/qrcode"
	delivery "eventful/internal/delivery/http"
	"eventful/internal/delivery/http/controllers"
	"eventful/internal/delivery/http/middleware"
	"eventful/internal/repository/postgres"
	"eventful/internal/services"
)

// @title Eventful API
// @version 1.0
// @description Event management backend: events, registration, tickets, and reminder notifications.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		cancel()
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	cancel()

	redisClient := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	defer redisClient.Close()
	eventCache := cache.NewRedisCache(redisClient)

	mailer, err := email.NewMailer(cfg.Mailer, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	codes, err := qrcode.NewGenerator(cfg.QR, logger)
	if err != nil {
		logger.Error("failed to create code generator", "error", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	notifRepo := postgres.NewNotificationRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	scheduler := services.NewReminderScheduler(notifRepo, emailService, 24*time.Hour, logger)
	eventService := services.NewEventService(eventRepo, eventCache, codes, cfg.CacheTTL, logger)
	ticketService := services.NewTicketService(ticketRepo, codes)
	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(0), auth.NewJWTIssuer(cfg.JWTSecret), cfg.TokenExpiry)
	categoryService := services.NewCategoryService(categoryRepo)
	registrationService := services.NewRegistrationService(eventRepo, userRepo, ticketService, scheduler, emailService, logger)

	scheduler.Start()
	defer scheduler.Stop()
	if n, err := scheduler.RecoverPending(context.Background()); err != nil {
		logger.Error("failed to recover pending notifications", "error", err)
	} else {
		logger.Info("recovered pending notifications", "count", n)
	}

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mux := delivery.NewRouter(delivery.Controllers{
		Auth:          controllers.NewAuthController(logger, userService),
		Events:        controllers.NewEventController(logger, eventService, registrationService, ticketService),
		Tickets:       controllers.NewTicketController(logger, ticketService),
		Users:         controllers.NewUserController(logger, userService),
		Notifications: controllers.NewNotificationController(logger, notifRepo),
		Categories:    controllers.NewCategoryController(logger, categoryService),
	}, verifier)

	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = append(allowedOrigins, strings.Split(origins, ",")...)
	}
	handler := middleware.Logging(logger, middleware.CORS(allowedOrigins, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
