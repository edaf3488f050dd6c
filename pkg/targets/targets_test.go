package targets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write targets file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writeFile(t, "targets.yaml", `
targets:
  - id: " users "
    name: Users API
    method: post
    base_url: https://api.example.com
    url: /users
    headers:
      Accept: application/json
      " ": dropped
    body:
      name: Testy
    timeout_seconds: 3
    expect_status: [200, 404]
    code_field: error.code
    redact_keys: [" session ", ""]
  - id: health
    url: https://status.example.com/health
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 targets, got %d", got)
	}

	users, ok := reg.ByID("users")
	if !ok {
		t.Fatalf("expected target users to be loaded")
	}
	if users.Method != "POST" {
		t.Fatalf("unexpected method: %s", users.Method)
	}
	if len(users.Headers) != 1 || users.Headers["Accept"] != "application/json" {
		t.Fatalf("unexpected headers: %v", users.Headers)
	}
	if users.Timeout() != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", users.Timeout())
	}
	if len(users.RedactKeys) != 1 || users.RedactKeys[0] != "session" {
		t.Fatalf("unexpected redact keys: %v", users.RedactKeys)
	}
	if body, ok := users.Body.(map[string]any); !ok || body["name"] != "Testy" {
		t.Fatalf("unexpected body: %#v", users.Body)
	}

	health, _ := reg.ByID("health")
	if health.Method != "GET" || health.Name != "health" || health.SuccessField != "ok" {
		t.Fatalf("defaults not applied: %+v", health)
	}
	if health.Timeout() != 0 {
		t.Fatalf("expected client default timeout, got %v", health.Timeout())
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	file := writeFile(t, "targets.json", `{"targets":[{"id":"a","url":"https://a.example"}]}`)
	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if _, ok := reg.ByID("a"); !ok {
		t.Fatalf("expected target a")
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "duplicate", file: "t.yaml", content: "targets:\n  - {id: a, url: /a}\n  - {id: a, url: /b}\n", wantErr: "duplicate target id"},
		{name: "missing id", file: "t.yaml", content: "targets:\n  - {url: /a}\n", wantErr: "id is required"},
		{name: "missing url", file: "t.yaml", content: "targets:\n  - {id: a}\n", wantErr: "url or base_url"},
		{name: "bad status", file: "t.yaml", content: "targets:\n  - {id: a, url: /a, expect_status: [42]}\n", wantErr: "out of range"},
		{name: "negative timeout", file: "t.yaml", content: "targets:\n  - {id: a, url: /a, timeout_seconds: -1}\n", wantErr: "must not be negative"},
		{name: "empty", file: "t.yaml", content: "targets: []\n", wantErr: "no targets"},
		{name: "bad json", file: "t.json", content: "{", wantErr: "not recognized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegistry(writeFile(t, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadRegistry(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestRegistryNil(t *testing.T) {
	var reg *Registry
	if reg.All() != nil {
		t.Fatalf("nil registry should return nil")
	}
	if _, ok := reg.ByID("a"); ok {
		t.Fatalf("nil registry should not find targets")
	}
}
