package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Config{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	logger.Info("dropped")
	logger.Warn("kept", "step", "chronotype")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"step":"chronotype"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "momentum.log")
	logger, closeFn, err := New(Config{File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", "n", 1)
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=hello n=1") {
		t.Fatalf("unexpected file content: %s", data)
	}
}

func TestNew_DiscardByDefault(t *testing.T) {
	logger, closeFn, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("discard logger should not be enabled")
	}
}
