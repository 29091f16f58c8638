package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/kinetik/internal/analysis"
	"github.com/claude/kinetik/internal/pose"
	"github.com/claude/kinetik/internal/storage"
	"github.com/go-chi/chi/v5"
)

// PlanStore provides exercise plan lookups.
type PlanStore interface {
	GetPlan(ctx context.Context, ailment string) (*storage.ExercisePlan, error)
	ListAilments(ctx context.Context) ([]string, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	plans     PlanStore
	profiles  storage.ProfileSet
	analyzer  *analysis.Analyzer
	estimator pose.Estimator
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(plans PlanStore, profiles storage.ProfileSet, analyzer *analysis.Analyzer, estimator pose.Estimator, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		plans:     plans,
		profiles:  profiles,
		analyzer:  analyzer,
		estimator: estimator,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetMCP mounts the MCP streamable HTTP handler under /mcp, behind the same
// API key as the analysis endpoint. Must be called before serving.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Mount("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/healthz", s.handleHealth)

	// Frame analysis (API key required)
	s.router.Route("/api/v1/analyze", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleAnalyze)
	})

	// Exercise catalog and plans
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/plans", s.handleListAilments)
	// The ailment is a query parameter because plan names contain slashes
	// ("leg/knee injury").
	s.router.Get("/api/v1/plan", s.handleGetPlan)
}
