package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"scenecache/internal/logging"
	"scenecache/internal/namecache"
)

// ShowFinder resolves a show id to its catalog entry.
type ShowFinder interface {
	Show(ctx context.Context, id int64) (namecache.Show, bool, error)
}

// Options configures a Server. Cache is required.
type Options struct {
	Cache    *namecache.Cache
	Shows    ShowFinder
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	// SuggestLimit caps "did you mean" results on a lookup miss. Zero disables
	// suggestions.
	SuggestLimit int
}

// Server serves the cache API.
type Server struct {
	cache        *namecache.Cache
	shows        ShowFinder
	logger       *slog.Logger
	suggestLimit int
	router       http.Handler

	listener net.Listener
	server   *http.Server
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Cache == nil {
		return nil, errors.New("api: cache is required")
	}
	s := &Server{
		cache:        opts.Cache,
		shows:        opts.Shows,
		logger:       logging.NewComponentLogger(opts.Logger, "api-server"),
		suggestLimit: opts.SuggestLimit,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(correlate)
	r.Use(middleware.Recoverer)
	s.RegisterRoutes(r)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	s.router = otelhttp.NewHandler(r, "http.server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s, nil
}

// RegisterRoutes attaches API endpoints to the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/names", s.handleLookup)
		r.Post("/names", s.handleAdd)
		r.Delete("/names/unresolved", s.handlePurge)
		r.Post("/rebuild", s.handleRebuild)
		r.Post("/flush", s.handleFlush)
		r.Get("/entries", s.handleEntries)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on bind and serves until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context, bind string) error {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return errors.New("api bind address is required")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the listening address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down, waiting up to five seconds for in-flight
// requests.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logging.WithCorrelationID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
