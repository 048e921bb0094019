package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitializeCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBPORTAL_HOME", dir)

	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if AppConfig.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("unexpected base url %q", AppConfig.APIBaseURL)
	}
	if AppConfig.PollInterval != 5*time.Second {
		t.Errorf("expected 5s poll interval, got %s", AppConfig.PollInterval)
	}
	if GetConfigPath() != filepath.Join(dir, "config.yaml") {
		t.Errorf("unexpected config path %q", GetConfigPath())
	}
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBPORTAL_HOME", dir)
	t.Setenv("JOBPORTAL_API_BASE_URL", "http://portal.test/api")

	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if AppConfig.APIBaseURL != "http://portal.test/api" {
		t.Errorf("expected env override, got %q", AppConfig.APIBaseURL)
	}
}

func TestSetPersists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBPORTAL_HOME", dir)

	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := Set("poll_interval", "2s"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := Initialize(); err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if AppConfig.PollInterval != 2*time.Second {
		t.Errorf("expected 2s after Set, got %s", AppConfig.PollInterval)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://x", PollInterval: time.Second, RequestTimeout: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero poll interval")
	}
}
