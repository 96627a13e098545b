// Package bootstrap wires configuration, storage, the pipeline and the HTTP
// server into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/formdesk/adapters/clock"
	"github.com/artpar/formdesk/adapters/idgen"
	"github.com/artpar/formdesk/adapters/memory"
	"github.com/artpar/formdesk/adapters/metrics"
	"github.com/artpar/formdesk/adapters/sqlite"
	"github.com/artpar/formdesk/api"
	"github.com/artpar/formdesk/app"
	"github.com/artpar/formdesk/config"
	"github.com/artpar/formdesk/pipeline"
	"github.com/artpar/formdesk/ports"
)

// App holds the wired application.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server

	holder *config.Holder
	db     *sqlite.DB
}

// New creates an application from a static configuration.
func New(cfg *config.Config) (*App, error) {
	a := &App{Logger: setupLogger(cfg.Logging)}
	if err := a.build(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// NewWithHotReload creates an application whose config file is watched for
// changes. Only the log level is applied live; everything else needs a
// restart.
func NewWithHotReload(configPath string) (*App, error) {
	bootLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	holder, err := config.NewHolder(configPath, bootLogger)
	if err != nil {
		return nil, err
	}

	cfg := holder.Get()
	a := &App{
		Logger: setupLogger(cfg.Logging),
		holder: holder,
	}
	if err := a.build(cfg); err != nil {
		holder.Stop()
		return nil, err
	}

	holder.OnChange(func(newCfg *config.Config) {
		if level, err := zerolog.ParseLevel(newCfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	})
	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

func (a *App) build(cfg *config.Config) error {
	store, err := a.buildStore(cfg.Database)
	if err != nil {
		return err
	}

	forms := app.NewFormService(store, clock.Real{}, idgen.UUID{}, a.Logger)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		a.Logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	pipe := pipeline.New(pipeline.Deps{
		Responder:    pipeline.JSONResponder{},
		Logger:       a.Logger,
		Instrumentor: instrumentor(collector),
	})

	handler := api.NewHandler(api.Deps{
		Forms:       forms,
		Pipeline:    pipe,
		Metrics:     collector,
		MetricsPath: cfg.Metrics.Path,
		Logger:      a.Logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	a.Logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("http server configured")
	return nil
}

// instrumentor avoids storing a typed nil inside the interface.
func instrumentor(c *metrics.Collector) pipeline.Instrumentor {
	if c == nil {
		return nil
	}
	return c
}

func (a *App) buildStore(cfg config.DatabaseConfig) (ports.FormStore, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewFormStore(), nil
	case "sqlite":
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.db = db
		return sqlite.NewFormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
