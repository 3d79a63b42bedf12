package server

import (
	"net/http"
)

func (s *Server) handleStatLeaders(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("season")

	leaders, err := s.stats.Leaders(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"scope":   scopeOrDefault(scope),
		"leaders": leaders,
	})
}

func scopeOrDefault(scope string) string {
	if scope == "" {
		return "current"
	}
	return scope
}

func (s *Server) handleInputPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := s.stats.InputPerformance(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, perf)
}
