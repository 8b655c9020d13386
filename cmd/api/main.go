package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vertiguard/vertiguard-api/internal/aiclient"
	"github.com/vertiguard/vertiguard-api/internal/config"
	"github.com/vertiguard/vertiguard-api/internal/handler"
	analysisHandler "github.com/vertiguard/vertiguard-api/internal/handler/analysis"
	authHandler "github.com/vertiguard/vertiguard-api/internal/handler/auth"
	chatHandler "github.com/vertiguard/vertiguard-api/internal/handler/chat"
	contactHandler "github.com/vertiguard/vertiguard-api/internal/handler/contact"
	eventHandler "github.com/vertiguard/vertiguard-api/internal/handler/event"
	monitorHandler "github.com/vertiguard/vertiguard-api/internal/handler/monitor"
	"github.com/vertiguard/vertiguard-api/internal/middleware"
	"github.com/vertiguard/vertiguard-api/internal/repository/postgres"
	"github.com/vertiguard/vertiguard-api/internal/router"
	analysisService "github.com/vertiguard/vertiguard-api/internal/service/analysis"
	authService "github.com/vertiguard/vertiguard-api/internal/service/auth"
	chatService "github.com/vertiguard/vertiguard-api/internal/service/chat"
	classifierService "github.com/vertiguard/vertiguard-api/internal/service/classifier"
	contactService "github.com/vertiguard/vertiguard-api/internal/service/contact"
	eventService "github.com/vertiguard/vertiguard-api/internal/service/event"
	monitorService "github.com/vertiguard/vertiguard-api/internal/service/monitor"
	notifierService "github.com/vertiguard/vertiguard-api/internal/service/notifier"
	"github.com/vertiguard/vertiguard-api/pkg/auth"
	"github.com/vertiguard/vertiguard-api/pkg/logger"
	redisBroker "github.com/vertiguard/vertiguard-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})
	zl := appLogger.Zerolog()

	// Database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Message broker for the event change feed
	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{URL: cfg.Redis.URL}, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	notifRepo := postgres.NewNotificationRepository(db)

	// External AI gateway
	ai := aiclient.New(cfg.AI, zl)

	// Services
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	authSvc := authService.NewService(userRepo, jwtSvc, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, zl)
	contactSvc := contactService.NewService(contactRepo, zl)
	eventSvc := eventService.NewService(eventRepo, broker, zl)
	classifierSvc := classifierService.NewService(ai, zl)

	var sender notifierService.Sender
	if cfg.Notifier.Channel == "simulated" {
		sender = notifierService.NewSimulatedSender(zl)
	} else {
		sender = notifierService.NewSMTPSender(cfg.SMTP)
	}
	notifierSvc := notifierService.NewService(contactRepo, userRepo, notifRepo, sender, zl)

	monitorSvc := monitorService.NewService(classifierSvc, eventSvc, notifierSvc, zl)
	analysisSvc := analysisService.NewService(eventRepo, ai, zl)
	chatSvc := chatService.NewService(ai, zl)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	contactH := contactHandler.NewHandler(contactSvc)
	eventH := eventHandler.NewHandler(eventSvc)
	monitorH := monitorHandler.NewHandler(monitorSvc, notifierSvc, eventSvc)
	analysisH := analysisHandler.NewHandler(analysisSvc)
	chatH := chatHandler.NewHandler(chatSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		contactH,
		eventH,
		monitorH,
		analysisH,
		chatH,
		h,
		router.RouterConfig{
			RateLimit:      cfg.RateLimit.RPS,
			RateBurst:      cfg.RateLimit.Burst,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "vertiguard",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
