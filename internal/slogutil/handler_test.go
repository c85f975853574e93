package slogutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tinyserve/internal/config"
)

func TestHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("Server listening", "addr", "0.0.0.0:3000", "routes", 2, "mode", "text body")

	output := buf.String()
	for _, want := range []string{"[info]", "Server listening", " | ", "addr=0.0.0.0:3000", "routes=2", `mode="text body"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if !strings.HasSuffix(output, "\n") || strings.Count(output, "\n") != 1 {
		t.Errorf("expected exactly one line, got: %q", output)
	}
}

func TestHandler_Levels(t *testing.T) {
	tests := []struct {
		logFunc  func(*slog.Logger)
		expected string
	}{
		{func(l *slog.Logger) { l.Debug("debug") }, "[debug]"},
		{func(l *slog.Logger) { l.Info("info") }, "[info]"},
		{func(l *slog.Logger) { l.Warn("warn") }, "[warn]"},
		{func(l *slog.Logger) { l.Error("error") }, "[error]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewLogger(&buf, slog.LevelDebug))

			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("expected %s in output, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("debug/info should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("warn/error should be included, got: %s", output)
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).
		With("component", "server").
		WithGroup("req").
		With("id", "abc")

	logger.Info("handled", "status", 404)

	output := buf.String()
	for _, want := range []string{"component=server", "req.id=abc", "req.status=404"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"off", levelSilent},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LevelFromString(tt.input); got != tt.expected {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()

	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled for any level")
	}
	logger.Error("error")
}

func TestTeeHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := NewHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := NewHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(NewTeeHandler(h1, h2))
	logger.Info("info message")
	logger.Warn("warn message")

	if !strings.Contains(buf1.String(), "info message") || !strings.Contains(buf1.String(), "warn message") {
		t.Errorf("buf1 should contain both messages, got: %s", buf1.String())
	}
	if strings.Contains(buf2.String(), "info message") {
		t.Error("buf2 should not contain info message")
	}
	if !strings.Contains(buf2.String(), "warn message") {
		t.Error("buf2 should contain warn message")
	}
}

func TestLoggerFactory(t *testing.T) {
	t.Run("console only", func(t *testing.T) {
		var console bytes.Buffer
		f := NewLoggerFactory(nil, &console)
		defer f.Close()

		logger, err := f.Logger()
		if err != nil {
			t.Fatalf("Logger() error = %v", err)
		}
		logger.Debug("hidden")
		logger.Info("shown")

		if strings.Contains(console.String(), "hidden") || !strings.Contains(console.String(), "shown") {
			t.Errorf("console = %q", console.String())
		}
	})

	t.Run("json with file", func(t *testing.T) {
		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "tiny-serve.log")
		settings := config.DefaultSettings()
		settings.LogFormat = "json"
		settings.LogLevel = "debug"
		settings.LogFile = path

		f := NewLoggerFactory(settings, &console)
		logger, err := f.Logger()
		if err != nil {
			t.Fatalf("Logger() error = %v", err)
		}
		logger.Debug("to both", "k", "v")
		if err := f.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		for _, out := range []string{console.String(), string(data)} {
			if !strings.Contains(out, `"msg":"to both"`) || !strings.Contains(out, `"k":"v"`) {
				t.Errorf("output = %q, want JSON record", out)
			}
		}
	})

	t.Run("unopenable file falls back to console", func(t *testing.T) {
		var console bytes.Buffer
		dir := t.TempDir()
		settings := config.DefaultSettings()
		settings.LogFile = dir // a directory cannot be opened for writing

		f := NewLoggerFactory(settings, &console)
		logger, err := f.Logger()
		if err == nil {
			t.Fatal("Logger() should report the file error")
		}
		logger.Info("still works")
		if !strings.Contains(console.String(), "still works") {
			t.Errorf("console = %q", console.String())
		}
	})
}
