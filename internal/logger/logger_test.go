package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	tests := []struct {
		env       string
		wantLevel zapcore.Level
	}{
		{"prod", zapcore.InfoLevel},
		{"local", zapcore.DebugLevel},
		{"dev", zapcore.DebugLevel},
		{"docker", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := NewLogger(tt.env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", tt.env, err)
			}
			if !l.Core().Enabled(tt.wantLevel) {
				t.Errorf("level %s not enabled", tt.wantLevel)
			}
			if tt.wantLevel == zapcore.InfoLevel && l.Core().Enabled(zapcore.DebugLevel) {
				t.Error("debug enabled in prod")
			}
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("local", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled despite warn override")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled")
	}

	l, err = NewLogger("prod", "")
	if err != nil {
		t.Fatalf("empty override: %v", err)
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("empty override changed level")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("local", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).With(zap.String("request_id", "abc"))

	ctx := ContextWithLogger(context.Background(), l)
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "abc" {
		t.Errorf("request_id = %v", entries[0].ContextMap()["request_id"])
	}
}

func TestFromContext_NopFallback(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("FromContext returned nil")
	}
	l.Info("discarded")
}
