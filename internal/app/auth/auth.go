// Package auth собирает сервис аутентификации: хранилище, миграции,
// SMTP-отправку, бизнес-логику и HTTP-сервер.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/account-auth/internal/config"
	"github.com/magabrotheeeer/account-auth/internal/lib/password"
	libsmtp "github.com/magabrotheeeer/account-auth/internal/lib/smtp"
	"github.com/magabrotheeeer/account-auth/internal/lib/token"
	"github.com/magabrotheeeer/account-auth/internal/migrations"
	authservices "github.com/magabrotheeeer/account-auth/internal/services/auth"
	senderservice "github.com/magabrotheeeer/account-auth/internal/services/sender"
	"github.com/magabrotheeeer/account-auth/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	transport := libsmtp.NewTransport(cfg, logger)
	sender := senderservice.NewSenderService(cfg, logger, transport)

	authService := authservices.NewAuthService(db, sender, password.Hasher{}, token.Generator{})

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
