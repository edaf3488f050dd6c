package logger

import (
	"testing"

	"github.com/samvad-hq/samvad-http-envelope/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromZapLogsObjectField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.WarnObj("probe failed", "probe", map[string]any{"target_id": "users"})
	log.DebugObj("classified", "envelope", map[string]any{"code": "HTTP_STATUS_500"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[0].Message != "probe failed" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	fields := entries[0].ContextMap()
	probe, ok := fields["probe"].(map[string]any)
	if !ok || probe["target_id"] != "users" {
		t.Fatalf("object field missing: %#v", fields)
	}
}

func TestStdDropsBeforeInit(t *testing.T) {
	prev := S
	S = nil
	t.Cleanup(func() { S = prev })

	Std().InfoObj("ignored", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close without Init: %v", err)
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	prev := S
	t.Cleanup(func() { S = prev })

	sugar, err := Init(&config.Config{AppName: "probe", Env: "test", LogLevel: "error"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if sugar == nil || S != sugar {
		t.Fatalf("package logger not set")
	}
	if S.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at error level")
	}
}

func TestNopSatisfiesInterface(t *testing.T) {
	var l Logger = Nop()
	l.ErrorObj("x", "y", nil)
	if FromZap(nil) == nil {
		t.Fatalf("FromZap(nil) should return a usable logger")
	}
}
