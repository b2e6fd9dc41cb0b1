package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/user/vidhost-go/internal/auth"
	"github.com/user/vidhost-go/internal/catalog"
	"github.com/user/vidhost-go/internal/model"
	"github.com/user/vidhost-go/internal/storage"
	"github.com/user/vidhost-go/internal/store"
)

// Metrics for Prometheus
var (
	videosTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vidhost_videos_total",
		Help: "Total number of videos in the catalog",
	})

	uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidhost_uploads_total",
		Help: "Total number of upload attempts",
	}, []string{"status"})

	viewsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vidhost_views_total",
		Help: "Total number of counted video fetches",
	})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidhost_errors_total",
		Help: "Total number of request errors",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(videosTotal)
	prometheus.MustRegister(uploadsTotal)
	prometheus.MustRegister(viewsTotal)
	prometheus.MustRegister(errorsTotal)
}

// Options holds the request-handling limits
type Options struct {
	MaxUploadSize int64
	PublicPrefix  string
	UploadRate    float64
	UploadBurst   int
}

// Server handles the REST API, static file serving, health, and metrics
type Server struct {
	catalog *catalog.Service
	auth    *auth.Service
	store   store.Store
	files   *storage.FileStore
	opts    Options

	uploadLimiter *rate.Limiter
	router        *http.ServeMux
	server        *http.Server
	startTime     time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cat *catalog.Service, authSvc *auth.Service, st store.Store, files *storage.FileStore, opts Options) *Server {
	s := &Server{
		catalog:       cat,
		auth:          authSvc,
		store:         st,
		files:         files,
		opts:          opts,
		uploadLimiter: rate.NewLimiter(rate.Limit(opts.UploadRate), opts.UploadBurst),
		router:        http.NewServeMux(),
		startTime:     time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /api/videos", s.handleListVideos)
	s.router.HandleFunc("GET /api/videos/{id}", s.handleGetVideo)
	s.router.Handle("POST /api/videos", s.requireAdmin(s.handleUpload))
	s.router.Handle("DELETE /api/videos/{id}", s.requireAdmin(s.handleDeleteVideo))

	s.router.HandleFunc("POST /api/users", s.handleRegister)
	s.router.HandleFunc("POST /api/users/login", s.handleLogin)
	s.router.Handle("GET /api/users/profile", s.requireAuth(s.handleProfile))

	// Stored originals and thumbnails served as static files
	prefix := s.opts.PublicPrefix + "/"
	s.router.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(s.files.Root()))))

	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the full middleware-wrapped handler (for tests)
func (s *Server) Handler() http.Handler {
	return requestLogger(s.router)
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Minute, // uploads are large
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// handleHealth reports process status, database connectivity, and uptime
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	if dbStatus != "healthy" {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// errorResponse is the uniform error body
type errorResponse struct {
	Message string `json:"message"`
}

// StatusForError maps the service error taxonomy to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorType labels an error for the errors_total metric
func errorType(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "validation"
	case errors.Is(err, model.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, model.ErrForbidden):
		return "forbidden"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrExtraction):
		return "extraction"
	case errors.Is(err, model.ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}

// writeError converts a service error into the uniform {message} body
func writeError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	errorsTotal.WithLabelValues(errorType(err)).Inc()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, errorResponse{Message: err.Error()})
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// refreshVideoCount updates the videos_total gauge after a mutation
func (s *Server) refreshVideoCount(ctx context.Context) {
	count, err := s.store.CountVideos(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh video count metric")
		return
	}
	videosTotal.Set(float64(count))
}
