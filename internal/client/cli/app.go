// Package cli is the terminal front end of the booking client. It renders
// lists and forms driven by the session, navigation, booking and api
// packages, and holds no business rules of its own.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"

	"clinicbook/internal/client/api"
	"clinicbook/internal/client/config"
	"clinicbook/internal/client/nav"
	"clinicbook/internal/client/session"
	"clinicbook/internal/logging"
)

// App wires the client together: one gateway, one session store, one
// navigator, and the interactive reader.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	gateway api.Gateway
	session *session.Store
	nav     *nav.Navigator
	reader  *bufio.Reader
}

// NewApp builds the client from configuration. The gateway's unauthorized
// policy is wired here: any 401 clears the session and forces the login
// view, at most once per navigation.
func NewApp(cfg *config.Config) *App {
	a := &App{
		cfg:    cfg,
		log:    logging.NewText(os.Stderr, slog.LevelInfo),
		reader: bufio.NewReader(os.Stdin),
	}

	var store *session.Store
	gw := api.NewHTTPGateway(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithToken(func() string { return store.Token() }),
		api.WithUnauthorizedPolicy(func() {
			store.Logout()
			if a.nav.ForceLogin() {
				printlnFn("Your session has expired. Please log in again.")
			}
		}),
	)
	store = session.New(gw, cfg.SessionFile)

	a.gateway = gw
	a.session = store
	a.nav = nav.New(store.Current)
	return a
}

// Run restores any persisted session and enters the interactive loop.
func (a *App) Run(ctx context.Context) {
	if id := a.session.Restore(); id != nil {
		a.log.Info(ctx, "session restored", "user", id.Email, "role", id.Role)
	}
	a.runREPL(ctx, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) isAdmin() bool {
	return a.session.Current().IsAdmin()
}
