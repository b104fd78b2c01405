package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODEL_ID", "acme/base-7b")
	t.Setenv("PORT", "9100")
	t.Setenv("PORT_HEALTH", "9101")
	t.Setenv("MAX_LORAS", "4")
	t.Setenv("CACHE_DIR", "/srv/cache")
	t.Setenv("HF_TOKEN", "secret")
	t.Setenv("COPY_CHAT_TEMPLATE", "false")

	cfg := FromEnv()
	if cfg.ModelID != "acme/base-7b" || cfg.Port != 9100 || cfg.HealthPort != 9101 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.MaxAdapters != 4 || cfg.CacheDir != "/srv/cache" || cfg.HubToken != "secret" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.CopyChatTemplate {
		t.Fatalf("COPY_CHAT_TEMPLATE=false not applied")
	}
}

func TestFromEnvBadNumberKeepsDefault(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := FromEnv()
	if cfg.Port != 8000 {
		t.Fatalf("expected default port, got %d", cfg.Port)
	}
}

func TestEnvBoolForms(t *testing.T) {
	cases := map[string]bool{
		"true": true, "1": true, "yes": true, "on": true, "TRUE": true, "On": true,
		"false": false, "0": false, "no": false, "off": false, "banana": false,
	}
	for raw, want := range cases {
		t.Setenv("ENABLE_AUTO_TOOL_CHOICE", raw)
		cfg := FromEnv()
		if cfg.EnableAutoToolChoice != want {
			t.Fatalf("value %q: expected %v, got %v", raw, want, cfg.EnableAutoToolChoice)
		}
	}
}

func TestModelCachePath(t *testing.T) {
	cfg := Default()
	cfg.CacheDir = "/data/hub"
	cfg.ModelID = "Qwen/Qwen3-4B"
	want := filepath.Join("/data/hub", "models--Qwen--Qwen3-4B")
	if got := cfg.ModelCachePath(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEngineEnv(t *testing.T) {
	cfg := Default()
	cfg.CacheDir = "/data/hub"
	cfg.HubToken = "tkn"
	env := cfg.EngineEnv()
	joined := strings.Join(env, "\n")
	for _, want := range []string{
		"VLLM_ALLOW_RUNTIME_LORA_UPDATING=True",
		"HF_HOME=/data/hub",
		"VLLM_IMAGE_FETCH_TIMEOUT=5",
		"HF_TOKEN=tkn",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in engine env:\n%s", want, joined)
		}
	}

	cfg.ImageFetchTimeout = 0
	env = cfg.EngineEnv()
	if strings.Contains(strings.Join(env, "\n"), "VLLM_IMAGE_FETCH_TIMEOUT") {
		t.Fatalf("zero timeout should not be exported")
	}
}

func TestFetchTimeout(t *testing.T) {
	cfg := Default()
	if cfg.FetchTimeout() != 0 {
		t.Fatalf("expected disabled deadline by default")
	}
	cfg.FetchTimeoutSeconds = 30
	if cfg.FetchTimeout().Seconds() != 30 {
		t.Fatalf("unexpected timeout: %v", cfg.FetchTimeout())
	}
}
