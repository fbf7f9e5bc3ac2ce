package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/devwithfarshi/ai-playground/internal/adapter"
	"github.com/devwithfarshi/ai-playground/internal/httpserver/protocol"
	"github.com/devwithfarshi/ai-playground/internal/metrics"
	"github.com/devwithfarshi/ai-playground/internal/modelmeta"
)

// maxRequestBytes bounds the generate request body.
const maxRequestBytes = 1 << 20

// Server exposes the relay over HTTP. It keeps no per-request state; every
// field is read-only once Router has been called.
type Server struct {
	adapter     adapter.ChatAdapter
	catalog     *modelmeta.Catalog
	metrics     *metrics.Recorder
	corsOrigins []string
	logger      *log.Logger
	logLevel    string
	now         func() time.Time
}

// New constructs a Server with the required dependencies. catalog and
// recorder may be nil: a nil catalog accepts every model and a nil recorder
// disables /metrics.
func New(chatAdapter adapter.ChatAdapter, catalog *modelmeta.Catalog, recorder *metrics.Recorder) *Server {
	return &Server{
		adapter:     chatAdapter,
		catalog:     catalog,
		metrics:     recorder,
		corsOrigins: []string{"*"},
		now:         time.Now,
	}
}

// Router returns a configured chi router for embedding in HTTP servers.
func (s *Server) Router() http.Handler {
	r := s.newBaseRouter()
	s.registerEndpoints(r,
		newRootEndpoint(s),
		newGenerateEndpoint(s),
		newHealthEndpoint(s),
		newMetricsEndpoint(s),
	)
	return r
}

func (s *Server) newBaseRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	return r
}

func (s *Server) registerEndpoints(r chi.Router, endpoints ...protocol.Endpoint) {
	for _, ep := range endpoints {
		if ep == nil {
			continue
		}
		s.debugf("registering endpoint %s", ep.Name())
		for _, route := range ep.Routes() {
			r.Method(route.Method, route.Path, route.Handler)
		}
	}
}

// SetCORSOrigins restricts the allowed origins. An empty list keeps "*".
func (s *Server) SetCORSOrigins(origins []string) {
	var cleaned []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{"*"}
	}
	s.corsOrigins = cleaned
}

// SetLogger configures server-level logger and verbosity ("debug", "info", ...).
func (s *Server) SetLogger(level string, logger *log.Logger) {
	s.logLevel = strings.ToLower(strings.TrimSpace(level))
	if logger != nil {
		s.logger = logger
	}
}

func (s *Server) isDebug() bool { return s.logLevel == "debug" }
func (s *Server) debugf(format string, args ...any) {
	if s.logger != nil && s.isDebug() {
		s.logger.Printf("DEBUG "+format, args...)
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// HandleRoot answers the bare liveness probe at /.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"message": "API is running"})
}

// HandleHealth reports the provider and the accepted models.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":   "ok",
		"time":     s.now().UTC().Format(time.RFC3339),
		"provider": adapter.ProviderName(s.adapter),
	}
	if s.catalog != nil {
		payload["models"] = s.catalog.IDs()
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
