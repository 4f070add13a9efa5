package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/core/gate"
	"github.com/yndnr/restgate-go/internal/core/registry"
	"github.com/yndnr/restgate-go/internal/core/routing"
	"github.com/yndnr/restgate-go/internal/core/service"
	"github.com/yndnr/restgate-go/internal/infra/buildinfo"
	"github.com/yndnr/restgate-go/internal/infra/confloader"
	"github.com/yndnr/restgate-go/internal/infra/shutdown"
	"github.com/yndnr/restgate-go/internal/infra/tlsroots"
	"github.com/yndnr/restgate-go/internal/server/config"
	"github.com/yndnr/restgate-go/internal/server/httpserver"
	"github.com/yndnr/restgate-go/internal/server/httpserver/handler"
	"github.com/yndnr/restgate-go/internal/server/localserver"
	"github.com/yndnr/restgate-go/internal/telemetry/logger"
	"github.com/yndnr/restgate-go/internal/telemetry/metric"
	"github.com/yndnr/restgate-go/pkg/token"
)

// Rate limiter housekeeping.
const (
	limiterSweepInterval = time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

func serveAction(c *cli.Context) error {
	return run(c.Context, c.String("config"))
}

func run(ctx context.Context, configFile string) error {
	loader, cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := initLogger(cfg)
	log.Info("starting restgate-server",
		"version", buildinfo.Get().Version,
		"config", configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	runCtx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	app, err := assemble(runCtx, cfg, log)
	if err != nil {
		return err
	}

	srv := httpserver.New(httpserver.Config{
		Addr:            cfg.Server.HTTP.Addr,
		ReadTimeout:     cfg.Server.HTTP.ReadTimeout,
		WriteTimeout:    cfg.Server.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.Server.HTTP.ShutdownTimeout,
		TLS:             app.tls,
		Logger:          log,
	}, app.handler)

	sh := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log)
	// Hooks run in reverse: stop accepting requests, then close storage.
	sh.OnShutdown("storage", func(context.Context) error {
		return app.backends.Close()
	})
	sh.OnShutdown("background", func(context.Context) error {
		stop(nil)
		return nil
	})
	if path := cfg.Server.Local.Socket; path != "" {
		if local := startLocal(path, app, loader, stop, log); local != nil {
			sh.OnShutdown("local", local.Shutdown)
		}
	}
	sh.OnShutdown("http", srv.Shutdown)

	if configFile != "" {
		watchConfig(runCtx, loader, configFile, log)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			stop(fmt.Errorf("http server: %w", err))
		}
	}()

	waitErr := sh.Wait(runCtx)
	if cause := context.Cause(runCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	if waitErr != nil {
		return fmt.Errorf("shutdown: %w", waitErr)
	}
	log.Info("restgate-server stopped")
	return nil
}

func loadConfig(path string) (*confloader.Loader, *config.ServerConfig, error) {
	cfg := config.Default()
	var opts []confloader.Option
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, err
		}
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return loader, cfg, nil
}

func initLogger(cfg *config.ServerConfig) *slog.Logger {
	lc := logger.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Format = cfg.Log.Format
	log := logger.New(lc)
	slog.SetDefault(log)
	return log
}

// watchConfig applies log level changes without a restart. Other settings
// need one.
func watchConfig(ctx context.Context, loader *confloader.Loader, path string, log *slog.Logger) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("config watcher disabled", "error", err)
		return
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		log.Warn("config watcher disabled", "error", err)
		return
	}
	w.OnChange(func(string) {
		if err := reloadConfig(loader, log); err != nil {
			log.Error("config reload failed", "error", err)
		}
	})
	go w.Run(ctx)
}

// reloadConfig re-reads the configuration and applies the log level.
func reloadConfig(loader *confloader.Loader, log *slog.Logger) error {
	fresh := config.Default()
	if err := loader.Reload(fresh); err != nil {
		return err
	}
	if !logger.ValidLevel(fresh.Log.Level) {
		return fmt.Errorf("invalid log.level %q", fresh.Log.Level)
	}
	if logger.ParseLevel(fresh.Log.Level) != logger.ParseLevel(logger.GetLevel()) {
		logger.SetLevel(fresh.Log.Level)
		log.Info("log level changed", "level", fresh.Log.Level)
	}
	return nil
}

// startLocal opens the management socket. A failure is logged and the
// server runs without it.
func startLocal(path string, app *assembly, loader *confloader.Loader, stop context.CancelCauseFunc, log *slog.Logger) *localserver.Server {
	local := localserver.New(path, localserver.NewHandler(localserver.Controls{
		Reload:    func() error { return reloadConfig(loader, log) },
		Shutdown:  func() { stop(nil) },
		Resources: app.registry.Names,
	}), log)
	if err := local.Listen(); err != nil {
		log.Warn("local management socket disabled", "path", path, "error", err)
		return nil
	}
	go func() {
		if err := local.Serve(); err != nil {
			log.Error("local management socket stopped", "error", err)
		}
	}()
	return local
}

// assembly is the wired server before it starts listening.
type assembly struct {
	handler  http.Handler
	backends *backends
	registry *registry.Registry
	metrics  *metric.Registry
	limiter  *httpserver.RateLimiter
	tls      *tlsroots.Reloader
}

// assemble opens storage and wires the dispatch pipeline. Background
// goroutines stop with ctx.
func assemble(ctx context.Context, cfg *config.ServerConfig, log *slog.Logger) (*assembly, error) {
	app := &assembly{}
	if cfg.Metrics.Enabled {
		app.metrics = metric.NewRegistry(cfg.Metrics.Namespace)
	}

	now, err := clock(cfg.API.Timezone)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.RolePolicy()
	if err != nil {
		return nil, err
	}
	proxies, err := cfg.Server.HTTP.Proxies()
	if err != nil {
		return nil, err
	}

	app.backends, err = openBackends(ctx, cfg, app.metrics, log)
	if err != nil {
		return nil, err
	}

	if h := cfg.Server.HTTP; h.TLSCertFile != "" {
		app.tls, err = tlsroots.NewReloader(h.TLSCertFile, h.TLSKeyFile, log)
		if err != nil {
			app.backends.Close()
			return nil, fmt.Errorf("load tls: %w", err)
		}
		go func() {
			if err := app.tls.Watch(ctx); err != nil {
				log.Warn("certificate watcher disabled", "error", err)
			}
		}()
	}

	resp := handler.NewResponder(log, cfg.API.Debug)
	loginCfg := &service.LoginConfig{
		TokenTTL:  cfg.Auth.TokenTTL,
		Generator: token.NewGenerator(cfg.Auth.Generator),
		Now:       now,
		Logger:    log,
	}
	regOpts := []registry.Option{registry.WithLogger(log)}
	gateOpts := []gate.Option{
		gate.WithExempt(cfg.API.Exempt...),
		gate.WithPolicy(policy),
		gate.WithLogger(log),
	}
	if app.metrics != nil {
		loginCfg.Observer = app.metrics
		regOpts = append(regOpts, registry.WithObserver(app.metrics))
		gateOpts = append(gateOpts, gate.WithObserver(app.metrics))
	}

	mapping := routing.NewMapping(cfg.API.Workspace, cfg.API.RouteMapping)
	catalog := handler.NewCatalog(handler.Resources{
		Workspace:  cfg.API.Workspace,
		Stores:     app.backends.stores,
		Login:      loginCfg,
		MaxResults: cfg.API.MaxResults,
		Lang:       cfg.API.Lang,
		Now:        now,
		Responder:  resp,
	})
	app.registry = registry.New(mapping, catalog, regOpts...)
	g := gate.New(app.registry, gateOpts...)

	if cfg.RateLimit.Enabled {
		var onLimited func()
		if app.metrics != nil {
			onLimited = app.metrics.RateLimited.Inc
		}
		app.limiter = httpserver.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, resp, onLimited)
		go app.limiter.Run(ctx, limiterSweepInterval, limiterIdleTTL)
	}

	app.handler = httpserver.NewRouter(&httpserver.RouterConfig{
		Dispatcher:         handler.NewDispatcher(cfg.API.Version, mapping, g, app.registry, resp, log),
		Health:             handler.NewHealth(resp, app.backends.checks),
		Metrics:            app.metrics,
		MetricsUser:        cfg.Metrics.User,
		MetricsAuthHash:    cfg.Metrics.AuthHash,
		Responder:          resp,
		Logger:             log,
		Endpoint:           cfg.API.Endpoint,
		CORSAllowedOrigins: cfg.API.CORSOrigins,
		RateLimiter:        app.limiter,
		EnableAudit:        true,
		TrustedProxies:     proxies,
	})

	log.Info("dispatch ready",
		"version", cfg.API.Version,
		"endpoint", cfg.API.Endpoint,
		"resources", len(mapping.Names()),
		"exempt", cfg.API.Exempt)
	return app, nil
}

// clock returns a time source in the configured timezone.
func clock(tz string) (service.Clock, error) {
	if tz == "" {
		return time.Now, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("api.timezone: %w", err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
