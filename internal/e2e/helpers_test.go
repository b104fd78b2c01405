package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vllmd/internal/health"
	"vllmd/internal/httpapi"
	"vllmd/internal/resolver"
	"vllmd/pkg/types"
)

// sidecarService wires the probe and the resolver the same way the launcher
// binary does.
type sidecarService struct {
	probe    *health.Probe
	resolver *resolver.Resolver
}

func (s *sidecarService) State() types.State           { return s.probe.State() }
func (s *sidecarService) Status() types.StatusResponse { return s.probe.Status() }
func (s *sidecarService) Resolve(ctx context.Context, baseModel, adapter string) (types.Resolution, error) {
	return s.resolver.Resolve(ctx, baseModel, adapter)
}

// newHubServer serves a Hugging-Face-Hub-shaped API over the given
// repo -> path -> content map. Unknown repos answer 404.
func newHubServer(t *testing.T, repos map[string]map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rest, ok := strings.CutPrefix(r.URL.Path, "/api/models/"); ok {
			repo := strings.TrimSuffix(rest, "/tree/main")
			files, ok := repos[repo]
			if !ok {
				http.NotFound(w, r)
				return
			}
			var entries []map[string]any
			for path, content := range files {
				entries = append(entries, map[string]any{"type": "file", "path": path, "size": len(content)})
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(entries)
			return
		}
		// /{repo}/resolve/main/{path}
		for repo, files := range repos {
			prefix := "/" + repo + "/resolve/main/"
			if path, ok := strings.CutPrefix(r.URL.Path, prefix); ok {
				if content, ok := files[path]; ok {
					io.WriteString(w, content)
					return
				}
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newSidecar builds the full sidecar HTTP surface on a fresh cache root.
func newSidecar(t *testing.T, cacheRoot, hubURL string) (*httptest.Server, *health.Probe) {
	t.Helper()
	hub := resolver.NewHubClient(resolver.HubConfig{
		BaseURL:       hubURL,
		MaxRetries:    1,
		RetryInterval: 5 * time.Millisecond,
	})
	res, err := resolver.New(resolver.Config{
		CacheRoot:        cacheRoot,
		Hub:              hub,
		CopyChatTemplate: true,
	})
	if err != nil {
		t.Fatalf("init resolver: %v", err)
	}
	probe := health.New("acme/base")
	mux := httpapi.NewMux(&sidecarService{probe: probe, resolver: res})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, probe
}

// writeBaseSnapshot materializes a base model snapshot carrying the given
// tokenizer config JSON.
func writeBaseSnapshot(t *testing.T, cacheRoot, baseRef, tokenizerJSON string) {
	t.Helper()
	snap := filepath.Join(cacheRoot, "models--"+strings.ReplaceAll(baseRef, "/", "--"), "snapshots", "rev0")
	if err := os.MkdirAll(snap, 0o755); err != nil {
		t.Fatalf("mkdir snapshot: %v", err)
	}
	if err := os.WriteFile(filepath.Join(snap, "tokenizer_config.json"), []byte(tokenizerJSON), 0o644); err != nil {
		t.Fatalf("write tokenizer config: %v", err)
	}
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
