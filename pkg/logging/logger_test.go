package logging

import (
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for level, want := range cases {
		logger := New(level)
		if logger == nil || logger.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
		if want > slog.LevelDebug && logger.Enabled(nil, want-1) && want != slog.LevelDebug {
			t.Errorf("New(%q) enabled level below %v", level, want)
		}
		if !logger.Enabled(nil, want) {
			t.Errorf("New(%q) should enable level %v", level, want)
		}
	}
}

func TestComponentAddsAttribute(t *testing.T) {
	logger := Default().Component("booking")
	if logger == nil || logger.Logger == nil {
		t.Fatal("Component returned nil logger")
	}
}
