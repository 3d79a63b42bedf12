package server

import (
	"fmt"
	"net/http"
	"strconv"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
)

type seriesJSON struct {
	ID        string `json:"id"`
	Round     int    `json:"round"`
	RoundName string `json:"round_name"`
	Number    int    `json:"series_number"`
	Team1     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Wins int    `json:"wins"`
	} `json:"team1"`
	Team2 struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Wins int    `json:"wins"`
	} `json:"team2"`
	Status       string `json:"status"`
	WinnerTeamID string `json:"winner_team_id,omitempty"`
	IsCompleted  bool   `json:"is_completed"`
}

func toSeriesJSON(sr domain.Series, teams map[string]domain.Team) seriesJSON {
	out := seriesJSON{
		ID:           sr.ID,
		Round:        sr.Round,
		RoundName:    domain.RoundName(sr.Round),
		Number:       sr.Number,
		WinnerTeamID: sr.WinnerTeamID,
		IsCompleted:  sr.IsCompleted,
	}
	out.Team1.ID = sr.Team1ID
	out.Team1.Name = teams[sr.Team1ID].FullName()
	out.Team1.Wins = sr.Team1Wins
	out.Team2.ID = sr.Team2ID
	out.Team2.Name = teams[sr.Team2ID].FullName()
	out.Team2.Wins = sr.Team2Wins

	switch {
	case sr.IsCompleted:
		out.Status = fmt.Sprintf("%s wins %d-%d", teams[sr.WinnerTeamID].FullName(),
			max(sr.Team1Wins, sr.Team2Wins), min(sr.Team1Wins, sr.Team2Wins))
	case sr.Team1Wins == sr.Team2Wins:
		out.Status = fmt.Sprintf("Series tied %d-%d", sr.Team1Wins, sr.Team2Wins)
	case sr.Team1Wins > sr.Team2Wins:
		out.Status = fmt.Sprintf("%s leads %d-%d", teams[sr.Team1ID].FullName(), sr.Team1Wins, sr.Team2Wins)
	default:
		out.Status = fmt.Sprintf("%s leads %d-%d", teams[sr.Team2ID].FullName(), sr.Team2Wins, sr.Team1Wins)
	}
	return out
}

func (s *Server) handleInitializeTournament(w http.ResponseWriter, r *http.Request) {
	batch, err := s.tournament.InitializeBracket(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	teams, err := s.teamMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]seriesJSON, 0, len(batch))
	for _, sr := range batch {
		out = append(out, toSeriesJSON(sr, teams))
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"series": out, "count": len(out)})
}

func (s *Server) handleTournamentOverview(w http.ResponseWriter, r *http.Request) {
	view, err := s.tournament.Overview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rounds := make(map[string][]seriesJSON, constants.BracketRounds)
	for round := 1; round <= constants.BracketRounds; round++ {
		list := view.Rounds[round]
		out := make([]seriesJSON, 0, len(list))
		for _, sr := range list {
			out = append(out, toSeriesJSON(sr, view.Teams))
		}
		rounds[strconv.Itoa(round)] = out
	}

	payload := map[string]any{
		"run":    runJSON(view.Run),
		"rounds": rounds,
	}
	if view.Run.ChampionTeamID != "" {
		payload["champion"] = view.Teams[view.Run.ChampionTeamID].FullName()
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleActiveSeries(w http.ResponseWriter, r *http.Request) {
	active, teams, err := s.tournament.ActiveSeries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]seriesJSON, 0, len(active))
	for _, sr := range active {
		out = append(out, toSeriesJSON(sr, teams))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"series": out, "count": len(out)})
}

func (s *Server) handleAdvanceRound(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "round must be an integer"})
		return
	}

	batch, err := s.tournament.AdvanceRound(r.Context(), round)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	teams, err := s.teamMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]seriesJSON, 0, len(batch))
	for _, sr := range batch {
		out = append(out, toSeriesJSON(sr, teams))
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"round":  round + 1,
		"series": out,
		"count":  len(out),
	})
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	detail, err := s.tournament.GetSeries(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	games := make([]gameJSON, 0, len(detail.Games))
	for _, g := range detail.Games {
		games = append(games, toGameJSON(g, detail.Teams))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"series": toSeriesJSON(*detail.Series, detail.Teams),
		"games":  games,
	})
}

func (s *Server) handleSeriesGames(w http.ResponseWriter, r *http.Request) {
	detail, err := s.tournament.GetSeries(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	games := make([]gameJSON, 0, len(detail.Games))
	for _, g := range detail.Games {
		games = append(games, toGameJSON(g, detail.Teams))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"games": games, "count": len(games)})
}

func (s *Server) handleResetTournament(w http.ResponseWriter, r *http.Request) {
	if err := s.tournament.Reset(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
