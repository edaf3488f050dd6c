// Package storage remembers the last classified outcome of every probe target.
package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Outcome is the persisted summary of one classified probe.
type Outcome struct {
	OK         bool      `json:"ok"`
	Code       string    `json:"code"`
	Status     int       `json:"status,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// Same reports whether two outcomes describe the same state, ignoring when
// they were observed.
func (o Outcome) Same(other Outcome) bool {
	return o.OK == other.OK && o.Code == other.Code && o.Status == other.Status
}

// Store keeps the latest outcome per target id.
type Store interface {
	Close() error
	LastOutcome(targetID string) (Outcome, bool, error)
	RecordOutcome(targetID string, outcome Outcome) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	OutcomeTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultOutcomeTTL      = 7 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.OutcomeTTL <= 0 {
		opts.OutcomeTTL = defaultOutcomeTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore forgets everything, so every probe counts as changed.
type noopStore struct{}

func (noopStore) Close() error                              { return nil }
func (noopStore) LastOutcome(string) (Outcome, bool, error) { return Outcome{}, false, nil }
func (noopStore) RecordOutcome(string, Outcome) error       { return nil }

type memoryEntry struct {
	outcome Outcome
	expires time.Time
}

// memoryStore keeps outcomes for the life of the process.
type memoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		ttl:     opts.OutcomeTTL,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) LastOutcome(id string) (Outcome, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return Outcome{}, false, nil
	}
	if !e.expires.After(m.now()) {
		delete(m.entries, id)
		return Outcome{}, false, nil
	}
	return e.outcome, true, nil
}

func (m *memoryStore) RecordOutcome(id string, outcome Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{outcome: outcome, expires: m.now().Add(m.ttl)}
	return nil
}
