// Package server exposes a content.Spec over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/net/netutil"

	"tinyserve/internal/auth"
	"tinyserve/internal/content"
	serveerrors "tinyserve/internal/errors"
	"tinyserve/internal/reqlog"
)

// Options configures the optional layers around the content handler.
type Options struct {
	Logger   *slog.Logger
	Recorder reqlog.Recorder

	// ReadFile overrides how routed files are read. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	// Verifier enables Basic auth when non-nil.
	Verifier *auth.Verifier
	// Limiter locks out clients after repeated auth failures.
	Limiter *auth.FailureLimiter

	Gzip        bool
	GzipMinSize int // 0 means gzhttp.DefaultMinSize

	// MaxConns caps simultaneous connections; 0 means unlimited.
	MaxConns int
}

// Server represents the HTTP content server
type Server struct {
	server *http.Server
	addr   string
	spec   content.Spec
	logger *slog.Logger

	maxConns int
	fatal    chan error
}

// NewServer creates a server answering every request from spec.
func NewServer(addr string, spec content.Spec, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Recorder == nil {
		opts.Recorder = reqlog.Nop
	}

	s := &Server{
		addr:     addr,
		spec:     spec,
		logger:   opts.Logger,
		maxConns: opts.MaxConns,
		fatal:    make(chan error, 1),
	}

	builder := content.Builder{
		ReadFile: opts.ReadFile,
		OnReadError: func(path string, err error) {
			s.logger.Debug("Routed file unreadable, answering 404",
				"code", serveerrors.FileReadFailure,
				"path", path,
				"error", err.Error(),
			)
		},
	}

	handler, err := s.applyMiddleware(&contentHandler{spec: spec, builder: builder, fail: s.fail}, opts)
	if err != nil {
		return nil, err
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(opts.Logger.Handler(), slog.LevelDebug),
	}

	return s, nil
}

// Start binds the listening socket and serves until Shutdown or a respond
// failure.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return serveerrors.NewServeError(serveerrors.BindFailure, "cannot listen on "+s.addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after a graceful Shutdown
// and a RESPOND_FAILURE error if a response could not be written.
func (s *Server) Serve(ln net.Listener) error {
	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	s.logger.Info("Serving",
		"addr", ln.Addr().String(),
		"kind", s.spec.Kind().String(),
		"routes", s.spec.Len(),
		"maxConns", s.maxConns,
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case err := <-s.fatal:
		_ = s.server.Close()
		<-serveErr
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Debug("Server shut down successfully")
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// fail reports a fatal respond failure; only the first one is kept.
func (s *Server) fail(err error) {
	select {
	case s.fatal <- err:
	default:
	}
}

// applyMiddleware wraps the handler with middleware in the correct order
func (s *Server) applyMiddleware(handler http.Handler, opts Options) (http.Handler, error) {
	if opts.Gzip {
		minSize := opts.GzipMinSize
		if minSize == 0 {
			minSize = gzhttp.DefaultMinSize
		}
		wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(minSize))
		if err != nil {
			return nil, fmt.Errorf("failed to configure gzip: %w", err)
		}
		handler = wrap(handler)
	}
	if opts.Verifier != nil {
		handler = BasicAuthMiddleware(opts.Verifier, opts.Limiter, s.logger)(handler)
	}
	// Apply middleware in reverse order (last one wraps first)
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = RequestLogMiddleware(opts.Recorder, s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler, nil
}
