// Package server initializes and runs the development API server: it seeds
// the in-memory store, wires the HTTP routes and handles graceful shutdown.
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

	"clinicbook/internal/clinic"
	"clinicbook/internal/logging"
	"clinicbook/internal/server/auth"
	"clinicbook/internal/server/config"
	"clinicbook/internal/server/httpapi"
	"clinicbook/internal/server/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	api    *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	st := store.New()
	if err := seedAdmin(st, c); err != nil {
		return nil, fmt.Errorf("seed admin account: %w", err)
	}

	return &App{
		config: c,
		logger: logger,
		store:  st,
		api:    httpapi.New(c, st, logger),
	}, nil
}

// seedAdmin creates the administrator account every fresh store needs; the
// credentials come from configuration.
func seedAdmin(st *store.Store, c *config.Config) error {
	hash, err := auth.HashPassword(c.AdminPassword)
	if err != nil {
		return err
	}
	_, err = st.CreateUser("Clinic Administrator", c.AdminEmail, "", hash, clinic.RoleAdmin)
	return err
}

// Run serves the API until ctx is cancelled or an interrupt arrives, then
// shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	srv := &http.Server{Addr: app.config.Addr, Handler: app.api.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	app.logger.Info(ctx, "api server listening", "addr", app.config.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
