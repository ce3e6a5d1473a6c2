// Package dashboard serves the interactive hydropower dashboard: filtered
// scheme tables, proximity statistics, maps and downloads.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/loader"
	"github.com/mwhydro/hydromap/internal/proximity"
	"github.com/mwhydro/hydromap/internal/render"
)

// LoadFunc reads the layers. It is called on every request.
type LoadFunc func(ctx context.Context) (*loader.Dataset, error)

// Config tunes the dashboard.
type Config struct {
	Options        proximity.Options
	View           render.View
	PlacesView     render.View
	RoadsView      render.View
	MajorTypes     []string
	AllowedOrigins []string
}

// Server holds the dashboard dependencies.
type Server struct {
	load    LoadFunc
	builder *render.Builder
	cfg     Config
	log     *zap.Logger
}

// New returns a dashboard server.
func New(load LoadFunc, builder *render.Builder, cfg Config) *Server {
	return &Server{
		load:    load,
		builder: builder,
		cfg:     cfg,
		log:     zap.L().With(zap.String("component", "dashboard")),
	}
}

// Handler returns the dashboard routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/schemes", s.handleSchemes)
		r.Get("/schemes.csv", s.handleSchemesCSV)
		r.Get("/proximity", s.handleProximity)
		r.Get("/proximity/status", s.handleStatusPairs)
		r.Get("/proximity.xlsx", s.handleProximityXLSX)
	})
	r.Get("/maps/{name}", s.handleMap)
	r.Get("/chart/status.png", s.handleStatusChart)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
