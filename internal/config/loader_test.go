package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "model_id: acme/base\nport: 9000\nhealth_port: 9001\ncache_dir: /tmp/hub\nmax_adapters: 3\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "acme/base" || cfg.Port != 9000 || cfg.HealthPort != 9001 || cfg.CacheDir != "/tmp/hub" || cfg.MaxAdapters != 3 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// untouched fields keep defaults
	if cfg.MaxAdapterRank != 16 || !cfg.CopyChatTemplate {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"model_id":"m2","host":"127.0.0.1","copy_chat_template":false}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "m2" || cfg.Host != "127.0.0.1" || cfg.CopyChatTemplate {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "model_id=\"m3\"\nport=7000\nengine_bin=\"/usr/local/bin/vllm\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "m3" || cfg.Port != 7000 || cfg.EngineBin != "/usr/local/bin/vllm" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error on missing file")
	}
}
