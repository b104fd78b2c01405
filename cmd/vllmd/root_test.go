package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeHost(t *testing.T) {
	cases := map[string]string{
		"":          "127.0.0.1",
		"0.0.0.0":   "127.0.0.1",
		"::":        "127.0.0.1",
		"10.0.0.7":  "10.0.0.7",
		"localhost": "localhost",
	}
	for in, want := range cases {
		if got := probeHost(in); got != want {
			t.Errorf("probeHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadConfigEnvOnly(t *testing.T) {
	t.Setenv("MODEL_ID", "acme/base-model")
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ModelID != "acme/base-model" {
		t.Fatalf("ModelID = %q", cfg.ModelID)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "model_id: file/model\nport: 9000\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MODEL_ID", "env/model")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ModelID != "env/model" {
		t.Fatalf("env should override file, got %q", cfg.ModelID)
	}
	if cfg.Port != 9000 {
		t.Fatalf("Port = %d, want 9000 from file", cfg.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
