package app

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

	portfoliohttp "github.com/devfolio/devfolio/internal/portfolio/http"
	"github.com/devfolio/devfolio/internal/portfolio/service"
	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/internal/portfolio/store/drivers/sqlite"
	"github.com/devfolio/devfolio/pkg/cryptox"
	"github.com/devfolio/devfolio/pkg/jwtx"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// App wires configuration, storage, services and the HTTP server together.
type App struct {
	cfg    Config
	log    *slog.Logger
	store  store.Store
	server *http.Server

	housekeeping *service.HousekeepingService
}

// New builds a fully wired application. Nothing is listening yet; call Run.
func New(cfg Config) (*App, error) {
	log := slogx.New(slogx.Config{
		Service: "devfolio",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	cryptox.SetPepperPath(cfg.PepperFile)

	st, err := sqlite.NewStore("file:" + cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	signer, err := loadOrGenerateSigner(cfg.TokenKeyFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	tokens := &service.TokenService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifier(keys, cfg.AuthIssuer),
		Issuer:   cfg.AuthIssuer,
		TTL:      cfg.AuthTokenTTL,
	}

	handler := portfoliohttp.NewRouter(&portfoliohttp.Handlers{
		Users:        &service.UserService{Store: st},
		Tokens:       tokens,
		Projects:     &service.ProjectService{Store: st},
		Achievements: &service.AchievementService{Store: st},
		Exports:      &service.ExportService{Store: st, BaseURL: cfg.BaseURL},
		Store:        st,
		Keys:         keys,
		Logger:       log,
		Version:      Version,
		CORSOrigins:  cfg.CORSOrigins,
	})

	return &App{
		cfg:   cfg,
		log:   log,
		store: st,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		housekeeping: &service.HousekeepingService{
			Store:    st,
			Interval: cfg.HousekeepingInterval,
		},
	}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured grace period.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.housekeeping.Start(slogx.WithContext(context.Background(), a.log))

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down", "grace_period", a.cfg.ShutdownGracePeriod.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.log.Info("shutdown complete")
	return nil
}

// Close stops background work and releases storage.
func (a *App) Close() {
	a.housekeeping.Stop()
	if err := a.store.Close(); err != nil {
		a.log.Error("close store", "err", err)
	}
}
