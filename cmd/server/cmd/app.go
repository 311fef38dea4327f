package cmd

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/Togather-Foundation/campus-events/internal/api"
	"github.com/Togather-Foundation/campus-events/internal/api/handlers"
	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/audit"
	"github.com/Togather-Foundation/campus-events/internal/auth"
	"github.com/Togather-Foundation/campus-events/internal/config"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/domain/contact"
	"github.com/Togather-Foundation/campus-events/internal/domain/registrations"
	"github.com/Togather-Foundation/campus-events/internal/email"
	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/Togather-Foundation/campus-events/internal/storage/backend"
	"github.com/Togather-Foundation/campus-events/internal/storage/postgres"
	"github.com/rs/zerolog"
)

const tokenIssuer = "campus-events"

// app is the wired server: the HTTP handler and what must be closed after it.
type app struct {
	Handler     http.Handler
	Store       *storage.Adapter
	Accounts    *accounts.Manager
	Contact     *contact.Service
	Catalog     *catalog.Loader
	DBCollector *metrics.DBCollector

	backend storage.Backend
	limiter *middleware.RateLimiter
}

// openStorage opens the configured backend and wraps it in an Adapter.
func openStorage(ctx context.Context, cfg config.Config, logger zerolog.Logger) (storage.Backend, *storage.Adapter, error) {
	back, err := backend.Open(ctx, cfg.Storage.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage %s: %w", backend.Describe(cfg.Storage.URL), err)
	}
	return back, storage.NewAdapter(back, cfg.Storage.Namespace, logger), nil
}

func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	if err := ensureSecrets(&cfg, logger); err != nil {
		return nil, err
	}

	back, store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("storage", backend.Describe(cfg.Storage.URL)).Msg("storage ready")

	a := &app{Store: store, backend: back}
	if err := a.wire(cfg, logger); err != nil {
		_ = back.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(cfg config.Config, logger zerolog.Logger) error {
	a.Accounts = accounts.NewManager(a.Store, logger, accounts.WithBcryptCost(cfg.Auth.BcryptCost))
	a.Catalog = catalog.NewLoader(cfg.Catalog.Source, logger, catalog.WithTimeout(cfg.Catalog.Timeout))

	mailer, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("email service: %w", err)
	}
	var notifier contact.Notifier
	if mailer.Enabled() {
		notifier = mailer
	}
	a.Contact = contact.NewService(a.Store, notifier, logger)

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}

	profileKey, err := auth.DeriveProfileKey([]byte(cfg.Auth.ProfileSecret))
	if err != nil {
		return fmt.Errorf("derive profile key: %w", err)
	}
	csrfKey, err := auth.DeriveCSRFKey([]byte(cfg.Auth.CSRFKey))
	if err != nil {
		return fmt.Errorf("derive csrf key: %w", err)
	}

	a.limiter = middleware.NewLoginRateLimiter(cfg.RateLimit)
	if pg, ok := a.backend.(*postgres.Store); ok {
		a.DBCollector = metrics.NewDBCollector(pg.Pool())
	}

	a.Handler = api.NewRouter(api.Deps{
		Config: cfg,
		Logger: logger,
		Pages: handlers.NewPagesHandler(a.Accounts, a.Catalog,
			registrations.NewService(a.Catalog, a.Accounts, logger),
			a.Contact, renderer, cfg.Environment),
		API:         handlers.NewAPIHandler(a.Accounts, a.Catalog, cfg.Environment),
		Health:      handlers.NewHealthChecker(a.backend, a.Catalog, Version, GitCommit, BuildDate),
		Audit:       audit.NewLogger(logger),
		Tokens:      auth.NewProfileTokens(string(profileKey), cfg.Auth.ProfileExpiry, tokenIssuer),
		LoginLimit:  a.limiter,
		CSRFAuthKey: csrfKey,
	})
	return nil
}

// Close stops background work and releases the storage backend.
func (a *app) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.DBCollector != nil {
		a.DBCollector.Stop()
	}
	return a.backend.Close()
}

// ensureSecrets fills empty signing secrets with random values. Config
// validation already refuses this in production; elsewhere cookies simply
// stop validating after a restart.
func ensureSecrets(cfg *config.Config, logger zerolog.Logger) error {
	for _, secret := range []struct {
		name  string
		value *string
	}{
		{"PROFILE_SECRET", &cfg.Auth.ProfileSecret},
		{"CSRF_KEY", &cfg.Auth.CSRFKey},
	} {
		if *secret.value != "" {
			continue
		}
		generated, err := generateSecret(32)
		if err != nil {
			return fmt.Errorf("generate %s: %w", secret.name, err)
		}
		*secret.value = generated
		logger.Warn().Str("variable", secret.name).Msg("secret not set; generated a temporary one, sessions will not survive a restart")
	}
	return nil
}

func generateSecret(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}
