package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	var status *domain.ProjectStatus
	if q := r.URL.Query().Get("status"); q != "" {
		st, err := domain.ParseProjectStatus(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = &st
	}

	projects, err := s.projects.List(r.Context(), status)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, projects)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, project)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context(), SessionListLimit)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, sessions)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, session)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error(fmt.Sprintf("HTTP handler failed: %v", err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to encode response: %v", err))
	}
}
