package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/auth"
	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/database"
	"github.com/octobees/contact-enricher/internal/enrichment"
	"github.com/octobees/contact-enricher/internal/handler"
	middlewarepkg "github.com/octobees/contact-enricher/internal/middleware"
	"github.com/octobees/contact-enricher/internal/repository"
	"github.com/octobees/contact-enricher/internal/router"
	"github.com/octobees/contact-enricher/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger := zap.L()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbLevel, err := tracelog.LogLevelFromString(cfg.DBLogLevel)
	if err != nil {
		dbLevel = tracelog.LogLevelWarn
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL,
		database.WithMaxConns(cfg.DBMaxConns),
		database.WithQueryLogger(logger, dbLevel),
	)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	contactsRepo := repository.NewPGXContactsRepository(pool)

	orchestrator := enrichment.FromConfig(cfg.Enrichment, contactsRepo, enrichment.WithLogger(logger))
	enabled := orchestrator.Enabled()
	if len(enabled) == 0 {
		logger.Warn("no enrichment provider keys configured, bulk enrichment will be a no-op")
	}
	providerNames := make([]string, 0, len(enabled))
	for _, p := range enabled {
		providerNames = append(providerNames, string(p))
	}

	authService := service.NewAuthService(usersRepo, jwtManager)
	enrichmentService := service.NewEnrichmentService(orchestrator, contactsRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, jwtManager),
		Enrichment: handler.NewEnrichmentHandler(enrichmentService, logger),
		Health:     handler.NewHealthHandler(pool, providerNames),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("port", cfg.Port), zap.Strings("providers", providerNames))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
