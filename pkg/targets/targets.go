// Package targets loads the HTTP endpoints the prober checks (YAML/JSON).
package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultMethod       = "GET"
	defaultSuccessField = "ok"
)

// Target is a single endpoint declared in the targets file.
type Target struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Method         string            `json:"method" yaml:"method"`
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	URL            string            `json:"url" yaml:"url"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	Query          map[string]string `json:"query" yaml:"query"`
	Body           any               `json:"body" yaml:"body"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`

	// ExpectStatus lists the statuses the client accepts as a response.
	// Empty accepts 2xx; anything else surfaces as a client error.
	ExpectStatus []int `json:"expect_status" yaml:"expect_status"`

	// Dotted paths into the response body, e.g. "meta.error.code".
	SuccessField string `json:"success_field" yaml:"success_field"`
	CodeField    string `json:"code_field" yaml:"code_field"`
	MessageField string `json:"message_field" yaml:"message_field"`

	RedactKeys []string `json:"redact_keys" yaml:"redact_keys"`
}

type fileRegistry struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry holds the loaded targets in file order.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadRegistry loads the targets registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("targets file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(fileReg.Targets)
}

// NewRegistry sanitizes and validates targets and indexes them by id.
func NewRegistry(targets []Target) (*Registry, error) {
	if len(targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(targets)),
		idx:     make(map[string]Target, len(targets)),
	}
	for i := range targets {
		t := sanitizeTarget(targets[i])
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}
	return reg, nil
}

func parseRegistry(data []byte, ext string) (fileRegistry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return fileRegistry{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (fileRegistry, error) {
	var reg fileRegistry
	if err := fn(data, &reg); err != nil {
		return fileRegistry{}, fmt.Errorf("decode %s targets: %w", name, err)
	}
	return reg, nil
}

func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Method = strings.ToUpper(strings.TrimSpace(t.Method))
	t.BaseURL = strings.TrimSpace(t.BaseURL)
	t.URL = strings.TrimSpace(t.URL)
	t.Headers = sanitizeMap(t.Headers)
	t.Query = sanitizeMap(t.Query)
	t.SuccessField = strings.TrimSpace(t.SuccessField)
	t.CodeField = strings.TrimSpace(t.CodeField)
	t.MessageField = strings.TrimSpace(t.MessageField)

	if t.Method == "" {
		t.Method = defaultMethod
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.SuccessField == "" {
		t.SuccessField = defaultSuccessField
	}

	keys := t.RedactKeys[:0:0]
	for _, k := range t.RedactKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	t.RedactKeys = keys
	return t
}

// sanitizeMap trims keys and drops empty ones. Empty values are kept so a
// query flag like "?verbose=" survives.
func sanitizeMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.BaseURL == "" && t.URL == "" {
		return fmt.Errorf("url or base_url is required for target %q", t.ID)
	}
	if t.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative for target %q", t.ID)
	}
	for _, s := range t.ExpectStatus {
		if s < 100 || s > 599 {
			return fmt.Errorf("expect_status %d out of range for target %q", s, t.ID)
		}
	}
	return nil
}

// All returns the targets in file order.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// ByID returns the target with the given id.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// Timeout returns the per-request timeout, zero when the client default applies.
func (t Target) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}
