// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package server wires the service together and runs the HTTP endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fernwerk/authgate/internal/config"
	"github.com/fernwerk/authgate/internal/database"
	"github.com/fernwerk/authgate/internal/handlers"
	"github.com/fernwerk/authgate/internal/repository"
	"github.com/fernwerk/authgate/internal/services/auth"
	"github.com/fernwerk/authgate/internal/services/email"
	"github.com/fernwerk/authgate/internal/services/otp"
	"github.com/fernwerk/authgate/internal/services/token"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Signing key
	signingKey, generated, err := cfg.SigningKey()
	if err != nil {
		return err
	}
	if generated {
		slog.Warn("no signing key configured, generated a random one; tokens will not survive a restart")
	}

	// Credential store
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// Passcode TTL store
	var store otp.Store
	if cfg.Redis.URL != "" {
		redisStore, err := otp.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			if closeErr := redisStore.Close(); closeErr != nil {
				slog.Error("failed to close redis", "error", closeErr)
			}
		}()
		store = redisStore
	} else {
		slog.Warn("no redis url configured, using in-process passcode store")
		store = otp.NewMemoryStore()
	}

	// Passcode delivery
	var sender email.Sender
	if cfg.SMTP.Host != "" {
		sender, err = email.NewSMTPSender(&cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to set up SMTP: %w", err)
		}
	} else {
		slog.Warn("no SMTP host configured, passcodes will be logged")
		sender = email.LogSender{}
	}

	// Services
	repo := repository.New(db)
	otpSvc := otp.NewService(store, sender, cfg.Auth.OTPTTL)
	issuer := token.NewIssuer(signingKey, cfg.Auth.TokenLifetime)
	authSvc := auth.NewService(repo, auth.NewArgon2idHasher(), otpSvc, issuer)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e)
	setupRoutes(e, authSvc, otpSvc)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, authSvc *auth.Service, otpSvc *otp.Service) {
	h := handlers.New(authSvc, otpSvc)

	e.GET("/health", h.Health)
	e.POST("/auth/otp", h.SendOTP)
	e.POST("/auth/user/create", h.Register)
	e.POST("/auth/user/login", h.Login)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
