package server

import (
	"net/http"

	"hoopsim/internal/domain"
)

type runResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Year           int    `json:"year"`
	IsActive       bool   `json:"is_active"`
	IsCompleted    bool   `json:"is_completed"`
	ChampionTeamID string `json:"champion_team_id,omitempty"`
}

func runJSON(run *domain.Run) runResponse {
	return runResponse{
		ID:             run.ID,
		Name:           run.Name,
		Year:           run.Year,
		IsActive:       run.IsActive,
		IsCompleted:    run.IsCompleted,
		ChampionTeamID: run.ChampionTeamID,
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]runResponse, 0, len(runs))
	for i := range runs {
		out = append(out, runJSON(&runs[i]))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": out, "count": len(out)})
}

func (s *Server) handleActiveRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Active(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runJSON(run))
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Year int    `json:"year"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	run, err := s.runs.Create(r.Context(), req.Name, req.Year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, runJSON(run))
}

func (s *Server) handleActivateRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Activate(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runJSON(run))
}
