package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/fwojciec/prepcat"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is the default bind address.
const DefaultAddr = ":3000"

// ShutdownTimeout bounds how long in-flight requests may take to finish
// once the server is asked to stop.
const ShutdownTimeout = 5 * time.Second

// Server serves the catalog API and static files.
type Server struct {
	router chi.Router

	catalog prepcat.CatalogService
	search  prepcat.SearchService
	views   prepcat.ViewService

	logger         *slog.Logger
	publicDir      string
	metrics        http.Handler
	middleware     []func(http.Handler) http.Handler
	viewLimiter    *ClientLimiter
	allowedOrigins []string
	trustedProxies []netip.Prefix
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger for request and error logs.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPublicDir serves static files from dir for paths outside the API.
func WithPublicDir(dir string) ServerOption {
	return func(s *Server) {
		s.publicDir = dir
	}
}

// WithMetrics serves h at /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMiddleware appends middleware applied to every request.
func WithMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithViewLimiter rate limits view recording per client.
func WithViewLimiter(l *ClientLimiter) ServerOption {
	return func(s *Server) {
		s.viewLimiter = l
	}
}

// WithTrustedProxies honors X-Forwarded-For and X-Real-IP only on requests
// whose socket peer falls within one of prefixes. Without it the headers
// are ignored and clients are identified by their socket address.
func WithTrustedProxies(prefixes ...netip.Prefix) ServerOption {
	return func(s *Server) {
		s.trustedProxies = append(s.trustedProxies, prefixes...)
	}
}

// WithAllowedOrigins sets the CORS allowed origins. Defaults to any origin.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates a Server backed by the given services.
func NewServer(catalog prepcat.CatalogService, search prepcat.SearchService, views prepcat.ViewService, opts ...ServerOption) *Server {
	s := &Server{
		catalog:        catalog,
		search:         search,
		views:          views,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	if len(s.trustedProxies) > 0 {
		r.Use(trustedRealIP(s.trustedProxies))
	}
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.middleware...)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", RequestIDHeader},
		ExposedHeaders: []string{"ETag", RequestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/subjects", s.handleSubjects)
		r.Get("/subjects/{slug}/topics", s.handleTopics)
		r.Get("/previous-years", s.handleExamYears)
		r.Get("/previous-years/{year}", s.handleExamYear)
		r.Get("/search", s.handleSearch)

		r.Get("/views/{id}", s.handleViewCount)
		if s.viewLimiter != nil {
			r.With(rateLimit(s.viewLimiter)).Post("/views/{id}", s.handleRecordView)
		} else {
			r.Post("/views/{id}", s.handleRecordView)
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, &ErrorResponse{Error: "Not found"})
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	if s.publicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.publicDir)))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.catalog.FindSubjects(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := writeCacheableJSON(w, r, subjects); err != nil {
		writeError(w, r, s.logger, err)
	}
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	subject, err := s.catalog.FindSubjectBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	topics := subject.Topics
	if topics == nil {
		topics = []*prepcat.Topic{}
	}
	if err := writeCacheableJSON(w, r, topics); err != nil {
		writeError(w, r, s.logger, err)
	}
}

func (s *Server) handleExamYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.catalog.FindExamYears(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := writeCacheableJSON(w, r, years); err != nil {
		writeError(w, r, s.logger, err)
	}
}

func (s *Server) handleExamYear(w http.ResponseWriter, r *http.Request) {
	// A year that is not a number cannot exist in the catalog.
	n, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, r, s.logger, prepcat.Errorf(prepcat.ENOTFOUND, "Year not found"))
		return
	}
	year, err := s.catalog.FindExamYear(r.Context(), n)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := writeCacheableJSON(w, r, year); err != nil {
		writeError(w, r, s.logger, err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if results == nil {
		results = []*prepcat.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	n, err := s.views.RecordView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, &ViewsResponse{Views: n})
}

func (s *Server) handleViewCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.views.ViewCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, &ViewsResponse{Views: n})
}
