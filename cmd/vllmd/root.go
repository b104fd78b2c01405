package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vllmd/internal/config"
	"vllmd/internal/engine"
	"vllmd/internal/health"
	"vllmd/internal/httpapi"
	"vllmd/internal/resolver"
	"vllmd/pkg/types"
)

const shutdownGrace = 10 * time.Second

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "vllmd",
		Short:         "Inference engine launcher with dynamic adapter resolution",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Optional config file (yaml, json or toml); environment overrides it")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Launch the engine and the health sidecar",
		RunE:  root.RunE,
	}
	root.AddCommand(serve)
	return root
}

// loadConfig layers defaults, an optional file and the environment.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.FromEnv(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

// service adapts the probe and the resolver to the sidecar HTTP API.
type service struct {
	probe       *health.Probe
	resolver    *resolver.Resolver
	defaultBase string
}

func (s *service) State() types.State           { return s.probe.State() }
func (s *service) Status() types.StatusResponse { return s.probe.Status() }

func (s *service) Resolve(ctx context.Context, baseModel, adapter string) (types.Resolution, error) {
	if baseModel == "" {
		baseModel = s.defaultBase
	}
	return s.resolver.Resolve(ctx, baseModel, adapter)
}

func run(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)
	httpapi.SetLogger(logger)

	cacheDir, err := cfg.ExpandedCacheDir()
	if err != nil {
		return fmt.Errorf("resolve cache dir: %w", err)
	}
	cfg.CacheDir = cacheDir

	if cfg.IsModelCached() {
		logger.Info().Str("path", cfg.ModelCachePath()).Msg("using pre-downloaded base model")
	} else {
		logger.Info().Str("dir", cfg.CacheDir).Msg("base model will be downloaded at runtime")
	}

	hub := resolver.NewHubClient(resolver.HubConfig{Token: cfg.HubToken})
	res, err := resolver.New(resolver.Config{
		CacheRoot:        cfg.CacheDir,
		Hub:              hub,
		CopyChatTemplate: cfg.CopyChatTemplate,
		FetchTimeout:     cfg.FetchTimeout(),
		Logger:           &logger,
	})
	if err != nil {
		return fmt.Errorf("init resolver: %w", err)
	}

	probe := health.New(cfg.ModelID)
	svc := &service{probe: probe, resolver: res, defaultBase: cfg.ModelID}

	sidecar := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.HealthPort),
		Handler: httpapi.NewMux(svc),
	}
	sidecarErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", sidecar.Addr).Msg("health sidecar listening")
		if err := sidecar.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sidecarErr <- err
		}
	}()

	sup := engine.NewSupervisor(cfg, logger)
	if err := sup.Start(); err != nil {
		probe.SetError(err.Error())
		shutdownSidecar(sidecar, logger)
		return err
	}
	probe.SetEngine(sup.PID(), cfg.Port)

	monitorCtx, cancelMonitor := context.WithCancel(ctx)
	defer cancelMonitor()
	go health.WaitForEngine(monitorCtx, probe, health.MonitorConfig{
		URL:    fmt.Sprintf("http://%s:%d/health", probeHost(cfg.Host), cfg.Port),
		Logger: logger,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancelMonitor()
		sup.Stop(shutdownGrace)
	case err := <-sup.Done():
		cancelMonitor()
		if err != nil {
			logger.Error().Err(err).Msg("engine exited")
			probe.SetError("engine exited: " + err.Error())
			runErr = err
		} else {
			logger.Info().Msg("engine exited cleanly")
		}
	case err := <-sidecarErr:
		logger.Error().Err(err).Msg("health sidecar failed")
		cancelMonitor()
		sup.Stop(shutdownGrace)
		runErr = err
	case <-ctx.Done():
		cancelMonitor()
		sup.Stop(shutdownGrace)
	}

	shutdownSidecar(sidecar, logger)
	return runErr
}

// probeHost maps a wildcard bind address to the loopback for self-probing.
func probeHost(host string) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		return "127.0.0.1"
	}
	return host
}

func shutdownSidecar(srv *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("sidecar shutdown")
	}
}
