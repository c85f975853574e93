package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinyserve/internal/auth"
	"tinyserve/internal/config"
	serveerrors "tinyserve/internal/errors"
	"tinyserve/internal/reqlog"
	"tinyserve/internal/server"
	"tinyserve/internal/slogutil"
	"tinyserve/internal/storage"
)

func runServe(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	loggers := slogutil.NewLoggerFactory(settings, stderr)
	defer loggers.Close()

	logger, err := loggers.Logger()
	if err != nil {
		logger.Warn("Cannot open log file, logging to stderr only",
			"path", settings.LogFile,
			"error", err.Error(),
		)
	}

	resolved, err := config.Resolve(args)
	if err != nil {
		return err
	}
	for _, w := range resolved.Warnings {
		logger.Warn(w, "document", resolved.DocumentPath)
	}
	logger.Debug("Resolved content",
		"source", string(resolved.Source),
		"kind", resolved.Spec.Kind().String(),
		"routes", resolved.Spec.Len(),
		"port", resolved.Port,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts, cleanup, err := serverOptions(ctx, settings, logger, stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := server.NewServer(settings.Addr(resolved.Port), resolved.Spec, opts)
	if err != nil {
		return err
	}

	return runUntilStopped(ctx, srv, settings, logger)
}

// serverOptions wires the request log sinks and optional layers from settings.
func serverOptions(ctx context.Context, settings *config.Settings, logger *slog.Logger, stdout io.Writer) (server.Options, func(), error) {
	cleanup := func() {}
	recorders := reqlog.Multi{reqlog.NewConsoleSink(stdout)}

	if settings.RequestDB != "" {
		db, err := storage.Open(settings.RequestDB, logger)
		if err != nil {
			return server.Options{}, cleanup, serveerrors.NewServeError(serveerrors.InvalidSettings, "cannot open request database "+settings.RequestDB, err)
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close request database", "error", err.Error())
			}
		}
		logRequestHistory(ctx, db, logger)
		recorders = append(recorders, reqlog.NewStoreSink(db, logger))
	}

	opts := server.Options{
		Logger:   logger,
		Recorder: recorders,
		Gzip:     settings.Gzip,
		MaxConns: settings.MaxConns,
	}

	if settings.AuthEnabled() {
		verifier, err := auth.NewVerifier(settings.AuthUser, settings.AuthHash)
		if err != nil {
			cleanup()
			return server.Options{}, func() {}, serveerrors.NewServeError(serveerrors.InvalidSettings, "auth_hash", err)
		}
		opts.Verifier = verifier

		if settings.AuthMaxFailures > 0 {
			limits := auth.DefaultLimiterConfig()
			limits.BurstSize = settings.AuthMaxFailures
			opts.Limiter = auth.NewFailureLimiter(limits, logger)
			opts.Limiter.StartCleanup(ctx)
		}
	}

	return opts, cleanup, nil
}

// logRequestHistory summarizes what an existing request database already holds.
func logRequestHistory(ctx context.Context, db *storage.DB, logger *slog.Logger) {
	counts, err := db.CountByStatus(ctx)
	if err != nil {
		logger.Warn("Cannot read request history", "path", db.Path(), "error", err.Error())
		return
	}

	total, failed := 0, 0
	for status, n := range counts {
		total += n
		if status >= 400 {
			failed += n
		}
	}
	if total == 0 {
		logger.Info("Request database opened", "path", db.Path())
		return
	}

	attrs := []any{"path", db.Path(), "requests", total, "errors", failed}
	if recent, err := db.RecentRequests(ctx, 1); err == nil && len(recent) == 1 {
		last := recent[0]
		attrs = append(attrs, "last", fmt.Sprintf("%d %s %s", last.Status, last.Method, last.Path),
			"last_at", last.CreatedAt.Format(time.RFC3339))
	}
	logger.Info("Request database opened", attrs...)
}

// runUntilStopped serves until the server fails, a signal arrives or ctx ends.
func runUntilStopped(ctx context.Context, srv *server.Server, settings *config.Settings, logger *slog.Logger) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err.Error())
		}
		return err
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", "error", err.Error())
		return err
	}

	// Start returns once the listener is closed; surface a late failure.
	if err := <-serverErr; err != nil {
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
