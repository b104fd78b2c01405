package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// MonitorConfig tunes the engine readiness monitor.
type MonitorConfig struct {
	// URL of the engine's health endpoint, e.g. http://127.0.0.1:8000/health
	URL string
	// Interval between probe attempts (default 5s).
	Interval time.Duration
	// MaxAttempts before giving up (default 60, i.e. five minutes).
	MaxAttempts uint64
	// AttemptTimeout bounds a single probe request (default 2s).
	AttemptTimeout time.Duration
	// Client defaults to http.DefaultClient.
	Client *http.Client
	Logger zerolog.Logger
}

// WaitForEngine polls the engine's health endpoint until it answers 200,
// then marks the probe ready. Exhausting the attempts, or ctx being
// canceled, marks the probe as errored.
func WaitForEngine(ctx context.Context, probe *Probe, cfg MonitorConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 60
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 2 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}

	attempt := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.AttemptTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, cfg.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("engine health returned %s", resp.Status)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Interval), cfg.MaxAttempts-1), ctx)
	if err := backoff.Retry(attempt, bo); err != nil {
		cfg.Logger.Error().Err(err).Str("url", cfg.URL).Msg("engine failed to become ready within timeout")
		probe.SetError("engine failed to become ready: " + err.Error())
		return err
	}
	cfg.Logger.Info().Str("url", cfg.URL).Msg("engine is ready")
	probe.SetReady()
	return nil
}
