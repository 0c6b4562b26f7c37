// Package server serves the build directory for browser testing, over TLS
// when a certificate pair is available and over plain HTTP otherwise.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/colorstring"

	"github.com/webxr-tools/xrdeploy/internal/config"
)

// Server is the static file server for the build output.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Server rooted at the configured build directory.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// RunTLS serves the build directory over HTTPS using the given certificate
// pair, blocking until ctx is canceled.
func (s *Server) RunTLS(ctx context.Context, certFile, keyFile string) error {
	banner(fmt.Sprintf("HTTPS server running at: https://localhost:%d/", s.cfg.HTTPSPort))
	fmt.Println("NOTE: You'll see a browser warning about the self-signed cert.")
	fmt.Println("Click 'Advanced' -> 'Proceed to localhost' to continue.")
	fmt.Println("\nPress Ctrl+C to stop the server.")

	return s.run(ctx, fmt.Sprintf(":%d", s.cfg.HTTPSPort), certFile, keyFile)
}

// RunPlain serves the build directory over plain HTTP, blocking until ctx
// is canceled. WebXR sessions require a secure origin, so this mode only
// supports non-immersive smoke testing.
func (s *Server) RunPlain(ctx context.Context) error {
	banner(fmt.Sprintf("HTTP server running at: http://localhost:%d/", s.cfg.HTTPPort))
	colorstring.Println("[yellow]WARNING: WebXR requires HTTPS! Using HTTP as fallback.")
	fmt.Println("\nPress Ctrl+C to stop the server.")
	s.logger.Warn("serving over plain HTTP, immersive sessions will not start")

	return s.run(ctx, fmt.Sprintf(":%d", s.cfg.HTTPPort), "", "")
}

// run starts the HTTP server and blocks until ctx is canceled or the
// server fails. Interrupt is normal termination: the server shuts down
// gracefully and run returns nil.
func (s *Server) run(ctx context.Context, addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		var serveErr error
		if certFile != "" {
			serveErr = srv.ServeTLS(ln, certFile, keyFile)
		} else {
			serveErr = srv.Serve(ln)
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		fmt.Println("\nServer stopped.")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler returns the routing stack: panic recovery, request logging, and
// plain static file serving of the build directory.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Handle("/*", http.FileServer(http.Dir(s.cfg.BuildDir)))
	return r
}

// requestLogger is a chi middleware that logs each incoming request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func banner(line string) {
	sep := "============================================================"
	fmt.Printf("\n%s\n%s\n%s\n\n", sep, line, sep)
}
