package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// SessionListLimit caps GET /sessions.
const SessionListLimit = 50

type ProjectReader interface {
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, status *domain.ProjectStatus) ([]domain.ProjectSummary, error)
}

type SessionReader interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, limit int) ([]domain.SessionSummary, error)
}

// Config holds server-specific configuration.
type Config struct {
	Addr string
}

type Server struct {
	projects ProjectReader
	sessions SessionReader
	logger   domain.Logger
}

func NewServer(projects ProjectReader, sessions SessionReader, logger domain.Logger) *Server {
	return &Server{
		projects: projects,
		sessions: sessions,
		logger:   logger,
	}
}

// Routes returns the read-only JSON API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/projects", s.handleProjects)
	r.Get("/project/{id}", s.handleProject)
	r.Get("/sessions", s.handleSessions)
	r.Get("/sessions/{id}", s.handleSession)

	return r
}

func NewHTTPServer(cfg Config, s *Server) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Routes(),
	}
}
