// Package server implements the masonry JSON API.
//
// Routes:
//   - GET  /api/health: liveness probe
//   - POST /api/contact: store a contact form submission
//   - GET  /api/portfolio: gallery items for the front end
//   - POST /api/layout: compute a masonry layout
//
// Every response carries permissive CORS headers and OPTIONS preflights are
// answered for any path.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/internal/config"
	"github.com/matzehuels/masonry/internal/contacts"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	Config    config.Server
	Policy    masonry.Policy
	Animation masonry.AnimationOptions
	Runner    *pipeline.Runner
	Contacts  contacts.Store
	Logger    *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Server serves the API.
type Server struct {
	cfg      config.Server
	policy   masonry.Policy
	anim     masonry.AnimationOptions
	runner   *pipeline.Runner
	contacts contacts.Store
	logger   *log.Logger
	now      func() time.Time
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		policy:   opts.Policy,
		anim:     opts.Animation,
		runner:   opts.Runner,
		contacts: opts.Contacts,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.contacts == nil {
		s.contacts = contacts.NewMemoryStore()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.policy) == 0 {
		s.policy = masonry.DefaultPolicy()
	}
	if s.anim == (masonry.AnimationOptions{}) {
		s.anim = masonry.DefaultAnimation()
	}
	if from, err := masonry.ParseOrigin(string(s.anim.From)); err == nil {
		s.anim.From = from
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "API endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.HandleFunc("/health", s.handleHealth)
		r.Post("/contact", s.handleContact)
		r.Get("/portfolio", s.handlePortfolio)
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return s.contacts.Close(shutdownCtx)
}
