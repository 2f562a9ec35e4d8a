package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.APIURL != want.APIURL || cfg.Timeout != want.Timeout {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("api_url: https://pm.example.com\ntimeout: 5s\nrate_per_second: 3\nrate_burst: 6\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLANHUB_TIMEOUT", "30s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://pm.example.com" {
		t.Errorf("api_url = %q", cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("env override lost: timeout = %s", cfg.Timeout)
	}
	if cfg.RatePerSecond != 3 || cfg.RateBurst != 6 {
		t.Errorf("rate config = %v/%v", cfg.RatePerSecond, cfg.RateBurst)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("PLANHUB_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.RatePerSecond = 5
	cfg.RateBurst = 0
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for burst-less rate limit")
	}
}
