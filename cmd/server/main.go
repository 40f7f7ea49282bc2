package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aster/playground/internal/config"
	"github.com/aster/playground/internal/database"
	"github.com/aster/playground/internal/handler"
	"github.com/aster/playground/internal/repository"
	"github.com/aster/playground/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool := database.New(cfg.DatabaseURL)
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	if pool.Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userRepo.EnsureSchema(ctx); err != nil {
			cancel()
			return fmt.Errorf("ensure schema: %w", err)
		}
		cancel()
	}

	userSvc := service.NewUserService(userRepo)
	admins := service.NewAdminList(cfg.AdminEmails)

	authSvc := service.NewAuthService(userSvc, service.AuthConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		JWTSecret:          cfg.JWTSecret,
		AppURL:             cfg.AppURL,
	})

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	adminHandler := handler.NewAdminHandler(userSvc)
	healthHandler := handler.NewHealthHandler(cfg.Environment)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(handler.RequestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AppURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", healthHandler.Check)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authHandler.Me, handler.Auth(authSvc))

	admin := api.Group("/admin", handler.Auth(authSvc), handler.AdminOnly(admins))
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CheckConnection)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := pool.Close(); err != nil {
		slog.Warn("closing database pool", "error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
