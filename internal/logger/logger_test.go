package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) error: %v", mode, err)
		}
		if l.SugaredLogger == nil {
			t.Errorf("New(%q) returned nil sugared logger", mode)
		}
	}
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("service", "ProgressEngine").Warn("cache read failed", "user_id", "u1")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["service"] != "ProgressEngine" {
		t.Errorf("service = %v, want ProgressEngine", fields["service"])
	}
	if fields["user_id"] != "u1" {
		t.Errorf("user_id = %v, want u1", fields["user_id"])
	}
}
