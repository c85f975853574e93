package slogutil

import (
	"io"
	"log/slog"

	"tinyserve/internal/config"
)

// LoggerFactory builds the process logger from runtime settings and owns any
// log files it opens.
type LoggerFactory struct {
	settings *config.Settings
	console  io.Writer
	closers  []io.Closer
}

// NewLoggerFactory creates a factory writing diagnostics to console
// (normally stderr) and, when configured, to a log file.
func NewLoggerFactory(settings *config.Settings, console io.Writer) *LoggerFactory {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &LoggerFactory{settings: settings, console: console}
}

// Logger returns the configured logger. If the log file cannot be opened the
// console logger is returned together with the error.
func (f *LoggerFactory) Logger() (*slog.Logger, error) {
	level := LevelFromString(f.settings.LogLevel)
	console := f.handler(f.console, level)

	if f.settings.LogFile == "" {
		return slog.New(console), nil
	}

	file, err := OpenLogFile(f.settings.LogFile, f.settings.LogMaxSize, f.settings.LogMaxBackups)
	if err != nil {
		return slog.New(console), err
	}
	f.closers = append(f.closers, file)

	return slog.New(NewTeeHandler(console, f.handler(file, level))), nil
}

func (f *LoggerFactory) handler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if f.settings.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return NewHandler(w, opts)
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
