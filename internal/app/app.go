// Package app wires the configured services into an HTTP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/ponovno/internal/api"
	"github.com/erazemk/ponovno/internal/auth"
	"github.com/erazemk/ponovno/internal/catalog"
	"github.com/erazemk/ponovno/internal/config"
	"github.com/erazemk/ponovno/internal/db"
	"github.com/erazemk/ponovno/internal/impact"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
	"github.com/erazemk/ponovno/internal/users"
	"github.com/erazemk/ponovno/internal/workflow"
)

// App owns the database handle and the HTTP server.
type App struct {
	cfg      *config.Config
	db       *sql.DB
	services *api.Services
	handler  http.Handler
}

// New opens and migrates the database and builds the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a, err := NewWithDB(ctx, cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDB builds the services on an already opened database, migrating it
// first.
func NewWithDB(ctx context.Context, cfg *config.Config, database *sql.DB) (*App, error) {
	if err := db.Migrate(database); err != nil {
		return nil, err
	}
	if n, err := store.FoldItemTitles(ctx, database); err != nil {
		return nil, fmt.Errorf("folding item titles: %w", err)
	} else if n > 0 {
		slog.Info("folded item titles", "count", n)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		if secret, err = store.SigningSecret(ctx, database); err != nil {
			return nil, fmt.Errorf("loading signing secret: %w", err)
		}
	}

	transitions := model.PermissiveTransitions()
	if cfg.StrictTransitions {
		transitions = model.StrictTransitions()
	}

	directory := &users.Directory{DB: database}
	items := &catalog.Catalog{DB: database}

	services := &api.Services{
		Auth:    &auth.Gateway{DB: database, Secret: secret, TTL: cfg.TokenTTL},
		Catalog: items,
		Users:   directory,
		Workflow: &workflow.Workflow{
			DB:          database,
			Items:       items,
			Users:       directory,
			Transitions: transitions,
		},
		Impact: impact.New(database, cfg.ImpactWeights, cfg.DefaultImpactWeight),
	}

	slog.Info("database ready", "path", cfg.DBPath, "strict_transitions", transitions.Strict())

	return &App{
		cfg:      cfg,
		db:       database,
		services: services,
		handler:  api.NewRouter(services),
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests for
// up to the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server started", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		timeout := a.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}
