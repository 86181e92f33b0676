// Package preview serves a generated output tree over HTTP for local
// inspection with a IIIF viewer. It is a development aid; production
// serving is any static file host.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"iiifgen/internal/logging"
)

// Server serves one output directory.
type Server struct {
	bind   string
	root   string
	logger *slog.Logger
}

// New creates a preview server for the JSON tree rooted at root.
func New(bind, root string, logger *slog.Logger) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("bind address required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("output directory required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		bind:   bind,
		root:   root,
		logger: logging.NewComponentLogger(logger, "preview"),
	}, nil
}

// Handler returns the HTTP handler: a read-only file server with the CORS
// headers IIIF viewers need to load manifests cross-origin.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(allowCrossOrigin)
	router.Method(http.MethodGet, "/*", http.FileServer(http.Dir(s.root)))
	return router
}

// ListenAndServe blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.bind,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("preview server listening",
		logging.String("bind", s.bind),
		logging.String(logging.FieldPath, s.root))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("preview server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}
	return nil
}

// allowCrossOrigin opens the tree to browser-based viewers on other
// origins. Only GET is served, so the preflight surface is minimal.
func allowCrossOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
