package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ProbeInterval != time.Minute {
		t.Fatalf("unexpected probe interval %v", cfg.ProbeInterval)
	}
	if cfg.PublishMode != PublishChanges || cfg.StorageType != "bbolt" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.StorageTTL != 7*24*time.Hour {
		t.Fatalf("durations not derived: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROBE_INTERVAL", "5")
	t.Setenv("PUBLISH_MODE", " Always ")
	t.Setenv("RUN_ONCE", "true")
	t.Setenv("STORAGE_TYPE", "NONE")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ProbeInterval != 5*time.Second || cfg.PublishMode != PublishAlways || !cfg.RunOnce || cfg.StorageType != "none" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TARGETS_FILE=/etc/probe/targets.yaml\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TARGETS_FILE") })

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TargetsFile != "/etc/probe/targets.yaml" {
		t.Fatalf("dotenv value not applied: %q", cfg.TargetsFile)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"PROBE_INTERVAL", "0", "probe_interval"},
		{"PROBE_CONCURRENCY", "-1", "probe_concurrency"},
		{"HTTP_TIMEOUT_SECONDS", "0", "http_timeout_seconds"},
		{"PUBLISH_MODE", "sometimes", "publish_mode"},
		{"STORAGE_TTL_SECONDS", "0", "storage_ttl_seconds"},
		{"STORAGE_CLEANUP_INTERVAL_SECONDS", "0", "storage_cleanup_interval_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFrom("")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
