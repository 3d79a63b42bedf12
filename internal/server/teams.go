package server

import (
	"net/http"

	"hoopsim/internal/domain"
	"hoopsim/internal/service"
)

type teamJSON struct {
	ID           string `json:"id"`
	City         string `json:"city"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

type playerJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TeamID     string  `json:"team_id,omitempty"`
	Position   string  `json:"position"`
	Scoring    float64 `json:"ppg"`
	Rebounding float64 `json:"rpg"`
	Playmaking float64 `json:"apg"`
	Stealing   float64 `json:"spg"`
	ShotBlock  float64 `json:"bpg"`
	Minutes    float64 `json:"mpg"`
}

func toTeamJSON(t domain.Team) teamJSON {
	return teamJSON{
		ID:           t.ID,
		City:         t.City,
		Name:         t.Name,
		FullName:     t.FullName(),
		Abbreviation: t.Abbreviation,
	}
}

func toPlayersJSON(players []domain.Player) []playerJSON {
	out := make([]playerJSON, 0, len(players))
	for _, p := range players {
		out = append(out, playerJSON{
			ID:         p.ID,
			Name:       p.Name,
			TeamID:     p.TeamID,
			Position:   p.Position,
			Scoring:    p.Scoring,
			Rebounding: p.Rebounding,
			Playmaking: p.Playmaking,
			Stealing:   p.Stealing,
			ShotBlock:  p.ShotBlock,
			Minutes:    p.Minutes,
		})
	}
	return out
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.roster.Teams(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]teamJSON, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamJSON(t))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"teams": out, "count": len(out)})
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	roster, err := s.roster.Team(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"team":    toTeamJSON(*roster.Team),
		"players": toPlayersJSON(roster.Players),
	})
}

func (s *Server) handleFreeAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.roster.FreeAgents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"players": toPlayersJSON(agents),
		"count":   len(agents),
	})
}

func (s *Server) handleSignPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.roster.Sign(r.Context(), r.PathValue("id"), req.PlayerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "signed"})
}

func (s *Server) handleReleasePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.roster.Release(r.Context(), r.PathValue("id"), req.PlayerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Team1ID        string   `json:"team1_id"`
		Team2ID        string   `json:"team2_id"`
		Team1PlayerIDs []string `json:"team1_player_ids"`
		Team2PlayerIDs []string `json:"team2_player_ids"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	err := s.roster.Trade(r.Context(), service.TradeInput{
		Team1ID:        req.Team1ID,
		Team2ID:        req.Team2ID,
		Team1PlayerIDs: req.Team1PlayerIDs,
		Team2PlayerIDs: req.Team2PlayerIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "traded"})
}
