package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/meur/wishlist/internal/catalog"
)

// Options configures the HTTP surface
type Options struct {
	BasePath       string
	StaticDir      string
	ImagesDir      string
	AllowedOrigins []string
}

// Server holds the HTTP server dependencies
type Server struct {
	store    *catalog.Store
	log      *zap.Logger
	opts     Options
	metrics  *metrics
	registry *prometheus.Registry
	router   chi.Router
}

// New creates a new API server
func New(store *catalog.Store, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BasePath == "" {
		opts.BasePath = "/"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*"}
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		store:    store,
		log:      log,
		opts:     opts,
		registry: registry,
		metrics:  newMetrics(registry, store),
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.log))
	s.router.Use(s.metrics.instrument)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleGetItems)
		r.Get("/items/{code}", s.handleGetItem)
		r.Get("/options", s.handleGetOptions)
		r.Get("/status", s.handleGetStatus)
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", s.metrics.handler(s.registry))

	if s.opts.ImagesDir != "" {
		FileServer(r, "/images", http.Dir(s.opts.ImagesDir))
	}
	if s.opts.StaticDir != "" {
		FileServer(r, "/", http.Dir(s.opts.StaticDir))
	}

	base := strings.TrimSuffix(s.opts.BasePath, "/")
	if base == "" {
		s.router.Mount("/", r)
		return
	}
	s.router.Mount(base, r)
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
