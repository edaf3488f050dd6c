package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func openTestBolt(t *testing.T, opts Options) (*boltStore, *clock) {
	t.Helper()
	raw, err := openBolt(filepath.Join(t.TempDir(), "nested", "outcomes.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := raw.(*boltStore)
	t.Cleanup(func() { store.Close() })

	c := &clock{t: time.Unix(1_700_000_000, 0)}
	store.now = c.now
	store.lastCleanup.Store(c.t.Unix())
	return store, c
}

func TestBoltStoreRecordsAndExpiresOutcomes(t *testing.T) {
	store, c := openTestBolt(t, Options{OutcomeTTL: time.Minute, CleanupInterval: time.Hour})

	if _, found, err := store.LastOutcome("users"); err != nil || found {
		t.Fatalf("expected no outcome, found=%v err=%v", found, err)
	}

	want := Outcome{OK: false, Code: "HTTP_STATUS_503", Status: 503, ObservedAt: c.t.UTC()}
	if err := store.RecordOutcome("users", want); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	got, found, err := store.LastOutcome("users")
	if err != nil || !found {
		t.Fatalf("expected stored outcome, found=%v err=%v", found, err)
	}
	if !got.Same(want) || !got.ObservedAt.Equal(want.ObservedAt) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	c.advance(2 * time.Minute)
	if _, found, err := store.LastOutcome("users"); err != nil || found {
		t.Fatalf("expected outcome to expire, found=%v err=%v", found, err)
	}
}

func TestBoltStoreCleanupRemovesExpiredEntries(t *testing.T) {
	store, c := openTestBolt(t, Options{OutcomeTTL: time.Minute, CleanupInterval: 10 * time.Minute})

	for _, id := range []string{"a", "b"} {
		if err := store.RecordOutcome(id, Outcome{OK: true, Code: "SUCCESS"}); err != nil {
			t.Fatalf("RecordOutcome %s: %v", id, err)
		}
	}

	c.advance(11 * time.Minute)
	if err := store.RecordOutcome("c", Outcome{OK: true}); err != nil {
		t.Fatalf("RecordOutcome c: %v", err)
	}

	var keys []string
	if err := store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(outcomeBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(keys) != 1 || keys[0] != "c" {
		t.Fatalf("expected only c to survive cleanup, got %v", keys)
	}
}

func TestBoltStoreDropsCorruptValues(t *testing.T) {
	store, c := openTestBolt(t, Options{})
	if err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(outcomeBucket)).Put([]byte("bad"), encodeValue(c.t.Add(time.Hour), []byte("{not json")))
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, found, err := store.LastOutcome("bad"); err != nil || found {
		t.Fatalf("corrupt value should be treated as missing, found=%v err=%v", found, err)
	}
}

func TestDecodeValue(t *testing.T) {
	if _, _, ok := decodeValue([]byte{1, 2, 3}); ok {
		t.Fatalf("short value should not decode")
	}
	if _, _, ok := decodeValue(encodeValue(time.Unix(0, 0), []byte("{}"))); ok {
		t.Fatalf("zero expiry should not decode")
	}
	exp, payload, ok := decodeValue(encodeValue(time.Unix(42, 0), []byte("{}")))
	if !ok || exp.Unix() != 42 || string(payload) != "{}" {
		t.Fatalf("round trip failed: %v %q %v", exp, payload, ok)
	}
}

func TestNewStoreBackends(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordOutcome("x", Outcome{OK: true}); err != nil {
		t.Fatalf("noop store RecordOutcome: %v", err)
	}
	if _, found, _ := store.LastOutcome("x"); found {
		t.Fatalf("noop store should never find outcomes")
	}

	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("bbolt without path should fail")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}

func TestMemoryStore(t *testing.T) {
	raw, err := NewStore("memory", "", Options{OutcomeTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	store := raw.(*memoryStore)
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	store.now = c.now

	if err := store.RecordOutcome("a", Outcome{Code: "X"}); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if got, found, _ := store.LastOutcome("a"); !found || got.Code != "X" {
		t.Fatalf("expected stored outcome, got %+v found=%v", got, found)
	}
	c.advance(time.Minute)
	if _, found, _ := store.LastOutcome("a"); found {
		t.Fatalf("expected outcome to expire")
	}
}

func TestOutcomeSameIgnoresTime(t *testing.T) {
	a := Outcome{OK: false, Code: "E", Status: 500, ObservedAt: time.Unix(1, 0)}
	b := a
	b.ObservedAt = time.Unix(2, 0)
	if !a.Same(b) {
		t.Fatalf("outcomes differing only in time should be the same")
	}
	b.Status = 502
	if a.Same(b) {
		t.Fatalf("different status should not be the same")
	}
}
