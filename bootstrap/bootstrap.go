// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/askhub/askhub/adapters/clock"
	"github.com/askhub/askhub/adapters/hasher"
	"github.com/askhub/askhub/adapters/idgen"
	"github.com/askhub/askhub/adapters/memory"
	"github.com/askhub/askhub/adapters/metrics"
	"github.com/askhub/askhub/adapters/remote"
	"github.com/askhub/askhub/adapters/sqlite"
	"github.com/askhub/askhub/app"
	"github.com/askhub/askhub/backend"
	"github.com/askhub/askhub/config"
	"github.com/askhub/askhub/ports"
	"github.com/askhub/askhub/web"
)

// App is the wired application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	Navigator  *app.Navigator
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	db     *sqlite.DB // nil in remote or memory mode
	holder *config.Holder
}

// New wires the application from a loaded configuration. The route tree is
// built exactly once here; later config reloads never touch it.
func New(cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.Logging)

	tree, err := config.LoadTree(cfg.Routes.File, cfg.Routes.LoginPath, cfg.Routes.ForbiddenPath)
	if err != nil {
		return nil, fmt.Errorf("load route tree: %w", err)
	}

	a := &App{
		Logger: logger,
		Config: cfg,
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	a.Navigator = app.NewNavigator(tree, logger, a.Metrics)

	webDeps := web.Deps{
		Navigator: a.Navigator,
		Metrics:   a.Metrics,
		Logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	switch cfg.Backend.Mode {
	case "remote":
		if err := a.wireRemote(cfg, &webDeps); err != nil {
			return nil, err
		}
	default:
		if err := a.wireBuiltin(cfg, r, &webDeps); err != nil {
			return nil, err
		}
	}

	front, err := web.NewHandler(webDeps)
	if err != nil {
		return nil, fmt.Errorf("init web handler: %w", err)
	}

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	r.Mount("/", front.Router())

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

// wireBuiltin serves collections and sessions from local stores and mounts
// the envelope API under /api.
func (a *App) wireBuiltin(cfg *config.Config, r chi.Router, webDeps *web.Deps) error {
	var (
		users     ports.UserStore
		tags      ports.TagStore
		questions ports.QuestionStore
	)

	if cfg.Database.DSN == "memory" {
		users = memory.NewUserStore()
		tags = memory.NewTagStore()
		questions = memory.NewQuestionStore()
		a.Logger.Warn().Msg("using ephemeral in-memory storage")
	} else {
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
		users = sqlite.NewUserStore(db)
		tags = sqlite.NewTagStore(db)
		questions = sqlite.NewQuestionStore(db)
	}

	clk := clock.Real{}
	ids := idgen.UUID{}
	sessions := backend.NewSessionStore(clk)
	auth := backend.NewAuthService(users, sessions, hasher.NewBcrypt(0), ids, clk, a.Logger)

	api := backend.NewHandler(backend.Deps{
		Auth:      auth,
		Users:     users,
		Tags:      tags,
		Questions: questions,
		Sessions:  sessions,
		Logger:    a.Logger,
	})
	r.Mount("/api", api.Router())

	webDeps.Sessions = backend.NewCookieSource(sessions)
	webDeps.Auth = auth
	webDeps.Composer = backend.NewComposer(questions, ids, clk)
	webDeps.Users = backend.NewUserCollection(users)
	webDeps.Tags = backend.NewTagCollection(tags)
	webDeps.Questions = backend.NewQuestionCollection(questions)
	return nil
}

// wireRemote reconciles collections against an external backend. Sessions
// come from the same backend's cookie; logins happen there too.
func (a *App) wireRemote(cfg *config.Config, webDeps *web.Deps) error {
	client := remote.NewClient(remote.ClientConfig{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	})

	webDeps.Sessions = remote.NewSessionSource(client, backend.SessionCookie)
	webDeps.Users = remote.NewCollection(client, "users").WithMetrics(a.Metrics)
	webDeps.Tags = remote.NewCollection(client, "tags").WithMetrics(a.Metrics)
	webDeps.Questions = remote.NewCollection(client, "questions").WithMetrics(a.Metrics)
	return nil
}

// NewWithHotReload wires the application and watches the config file for
// changes. Only logging level changes apply live; server and backend
// changes require a restart, and the route tree never reloads.
func NewWithHotReload(path string) (*App, error) {
	holder, err := config.NewHolder(path, zerolog.New(os.Stderr))
	if err != nil {
		return nil, err
	}

	a, err := New(holder.Get())
	if err != nil {
		holder.Stop()
		return nil, err
	}
	a.holder = holder

	holder.OnChange(func(cfg *config.Config) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
		}
		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			a.Logger.Warn().Str("level", cfg.Logging.Level).Msg("invalid log level in reloaded config")
			return
		}
		zerolog.SetGlobalLevel(level)
		a.Logger.Info().Str("level", cfg.Logging.Level).Msg("log level updated from config reload")
	})
	holder.OnReloadError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})
	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("askhub listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	a.Close()
	a.Logger.Info().Msg("askhub stopped")
	return nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.holder != nil {
		a.holder.Stop()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
