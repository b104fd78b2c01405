package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
)

// HubClient pulls the files of a named remote repository into a local
// directory. Implementations must be safe for concurrent use.
type HubClient interface {
	Download(ctx context.Context, repo, destDir string) error
}

// allowedPatterns is the fixed allow-list of file categories worth pulling
// for an adapter: weights, configuration, tokenizer and template files.
var allowedPatterns = []string{
	"*.json",
	"*.safetensors",
	"*.bin",
	"*.jinja",
	"*.model",
	"adapter_config.json",
	"adapter_model.*",
}

func allowed(name string) bool {
	base := filepath.Base(name)
	for _, p := range allowedPatterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

// HubConfig configures the HTTP hub client.
type HubConfig struct {
	// BaseURL of the content source, e.g. https://huggingface.co
	BaseURL string
	// Token is an opaque bearer credential; empty means anonymous.
	Token string
	// Client defaults to a client without its own timeout; callers pass
	// deadlines through the context.
	Client *http.Client
	// Concurrency bounds parallel per-file downloads (default 4).
	Concurrency int
	// MaxRetries per file for transient failures (default 3).
	MaxRetries uint64
	// RetryInterval is the initial backoff interval (default 500ms).
	RetryInterval time.Duration
}

type hubClient struct {
	cfg HubConfig
}

// NewHubClient returns a HubClient backed by a Hugging-Face-Hub-shaped REST
// interface: GET /api/models/{repo}/tree/main lists files and
// GET /{repo}/resolve/main/{path} serves their content.
func NewHubClient(cfg HubConfig) HubClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://huggingface.co"
	}
	if cfg.Client == nil {
		// no client timeout: deadlines come from the caller's context
		cfg.Client = &http.Client{Timeout: 0}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	return &hubClient{cfg: cfg}
}

type hubTreeEntry struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

func (h *hubClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}
	resp, err := h.cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("unexpected status %s for %s", resp.Status, url)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			// authorization and missing-resource errors will not heal on retry
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	return resp, nil
}

func (h *hubClient) retry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = h.cfg.RetryInterval
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, h.cfg.MaxRetries), ctx))
}

func (h *hubClient) listFiles(ctx context.Context, repo string) ([]hubTreeEntry, error) {
	var entries []hubTreeEntry
	err := h.retry(ctx, func() error {
		resp, err := h.get(ctx, h.cfg.BaseURL+"/api/models/"+repo+"/tree/main?recursive=true")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		entries = entries[:0]
		return json.NewDecoder(resp.Body).Decode(&entries)
	})
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Type == "file" && allowed(e.Path) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (h *hubClient) downloadFile(ctx context.Context, repo, remotePath, destDir string) error {
	dest := filepath.Join(destDir, filepath.FromSlash(remotePath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return h.retry(ctx, func() error {
		resp, err := h.get(ctx, h.cfg.BaseURL+"/"+repo+"/resolve/main/"+remotePath)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		f, err := os.Create(dest)
		if err != nil {
			return backoff.Permanent(err)
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

// Download lists the repo, filters by the allow-list and pulls the remaining
// files concurrently into destDir. Any failure aborts the whole transfer.
func (h *hubClient) Download(ctx context.Context, repo, destDir string) error {
	files, err := h.listFiles(ctx, repo)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("repository %s has no adapter files", repo)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Concurrency)
	for _, f := range files {
		f := f
		g.Go(func() error {
			return h.downloadFile(ctx, repo, f.Path, destDir)
		})
	}
	return g.Wait()
}
