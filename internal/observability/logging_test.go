package observability

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"junk":  slog.LevelInfo,
		" WARN": slog.LevelWarn,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", in, got, want)
		}
	}
}

func TestNewLoggerHandlesEnvironments(t *testing.T) {
	if logger := NewLogger("production", "info"); logger == nil {
		t.Fatal("expected production logger")
	}
	if logger := NewLogger("development", "debug"); logger == nil {
		t.Fatal("expected development logger")
	}
	if !slog.Default().Enabled(nil, slog.LevelDebug) {
		t.Fatal("expected debug level enabled after development setup")
	}
}
