package server

import (
	"net/http"
	"strconv"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/service"
)

type gameRequest struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Quarter    int    `json:"quarter"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`
	SeriesID   string `json:"series_id,omitempty"`
}

type teamSideJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Won   bool   `json:"won"`
}

type gameJSON struct {
	ID           string       `json:"id,omitempty"`
	SeriesID     string       `json:"series_id,omitempty"`
	GameNumber   int          `json:"game_number,omitempty"`
	HomeTeam     teamSideJSON `json:"home_team"`
	AwayTeam     teamSideJSON `json:"away_team"`
	HomeQuarters [4]int       `json:"home_quarters"`
	AwayQuarters [4]int       `json:"away_quarters"`
	InputQuarter int          `json:"input_quarter"`
	InputHome    int          `json:"input_home_score"`
	InputAway    int          `json:"input_away_score"`
	Margin       int          `json:"margin"`
	GameType     string       `json:"game_type"`
}

type statLineJSON struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	TeamID       string  `json:"team_id"`
	Minutes      int     `json:"minutes"`
	Points       int     `json:"points"`
	Rebounds     int     `json:"rebounds"`
	OffRebounds  int     `json:"offensive_rebounds"`
	DefRebounds  int     `json:"defensive_rebounds"`
	Assists      int     `json:"assists"`
	Steals       int     `json:"steals"`
	Blocks       int     `json:"blocks"`
	Turnovers    int     `json:"turnovers"`
	Fouls        int     `json:"fouls"`
	FGM          int     `json:"fgm"`
	FGA          int     `json:"fga"`
	TPM          int     `json:"three_pm"`
	TPA          int     `json:"three_pa"`
	FTM          int     `json:"ftm"`
	FTA          int     `json:"fta"`
	PlusMinus    int     `json:"plus_minus"`
	TrueShooting float64 `json:"true_shooting_pct"`
	EffectiveFG  float64 `json:"effective_fg_pct"`
	UsageRate    float64 `json:"usage_rate"`
	PER          float64 `json:"per"`
}

type playJSON struct {
	Quarter     int    `json:"quarter"`
	Clock       string `json:"clock"`
	Elapsed     int    `json:"elapsed_seconds"`
	EventType   string `json:"event_type"`
	Description string `json:"description"`
	TeamID      string `json:"team_id,omitempty"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
}

func marginLabel(margin int) string {
	switch {
	case margin <= 3:
		return "Nail-biter"
	case margin <= 10:
		return "Close game"
	case margin >= 20:
		return "Blowout"
	}
	return "Competitive"
}

func toGameJSON(g domain.Game, teams map[string]domain.Team) gameJSON {
	margin := g.HomeScore - g.AwayScore
	if margin < 0 {
		margin = -margin
	}
	homeWon := g.HomeScore > g.AwayScore
	return gameJSON{
		ID:         g.ID,
		SeriesID:   g.SeriesID,
		GameNumber: g.GameNumber,
		HomeTeam: teamSideJSON{
			ID:    g.HomeTeamID,
			Name:  teams[g.HomeTeamID].FullName(),
			Score: g.HomeScore,
			Won:   homeWon,
		},
		AwayTeam: teamSideJSON{
			ID:    g.AwayTeamID,
			Name:  teams[g.AwayTeamID].FullName(),
			Score: g.AwayScore,
			Won:   !homeWon,
		},
		HomeQuarters: g.HomeQuarters,
		AwayQuarters: g.AwayQuarters,
		InputQuarter: g.InputQuarter,
		InputHome:    g.InputHome,
		InputAway:    g.InputAway,
		Margin:       margin,
		GameType:     marginLabel(margin),
	}
}

func toStatLinesJSON(lines []domain.StatLine) []statLineJSON {
	out := make([]statLineJSON, 0, len(lines))
	for _, l := range lines {
		out = append(out, statLineJSON{
			PlayerID:     l.PlayerID,
			PlayerName:   l.PlayerName,
			TeamID:       l.TeamID,
			Minutes:      l.Minutes,
			Points:       l.Points,
			Rebounds:     l.Rebounds,
			OffRebounds:  l.OffRebounds,
			DefRebounds:  l.DefRebounds,
			Assists:      l.Assists,
			Steals:       l.Steals,
			Blocks:       l.Blocks,
			Turnovers:    l.Turnovers,
			Fouls:        l.Fouls,
			FGM:          l.FGM,
			FGA:          l.FGA,
			TPM:          l.TPM,
			TPA:          l.TPA,
			FTM:          l.FTM,
			FTA:          l.FTA,
			PlusMinus:    l.PlusMinus,
			TrueShooting: l.TrueShooting,
			EffectiveFG:  l.EffectiveFG,
			UsageRate:    l.UsageRate,
			PER:          l.PER,
		})
	}
	return out
}

func toPlaysJSON(events []domain.PlayByPlayEvent) []playJSON {
	out := make([]playJSON, 0, len(events))
	for _, e := range events {
		out = append(out, playJSON{
			Quarter:     e.Quarter,
			Clock:       e.Clock,
			Elapsed:     e.Elapsed,
			EventType:   e.EventType,
			Description: e.Description,
			TeamID:      e.TeamID,
			HomeScore:   e.HomeScore,
			AwayScore:   e.AwayScore,
		})
	}
	return out
}

func (s *Server) handlePreviewGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	preview, err := s.games.Preview(r.Context(), service.CreateGameInput{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		Quarter:    req.Quarter,
		HomeScore:  req.HomeScore,
		AwayScore:  req.AwayScore,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g := preview.Game
	homeWon := g.HomeScore > g.AwayScore
	margin := g.HomeScore - g.AwayScore
	if margin < 0 {
		margin = -margin
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"game": gameJSON{
			HomeTeam: teamSideJSON{
				ID:    preview.HomeTeam.ID,
				Name:  preview.HomeTeam.FullName(),
				Score: g.HomeScore,
				Won:   homeWon,
			},
			AwayTeam: teamSideJSON{
				ID:    preview.AwayTeam.ID,
				Name:  preview.AwayTeam.FullName(),
				Score: g.AwayScore,
				Won:   !homeWon,
			},
			HomeQuarters: g.HomeQuarters,
			AwayQuarters: g.AwayQuarters,
			InputQuarter: req.Quarter,
			InputHome:    req.HomeScore,
			InputAway:    req.AwayScore,
			Margin:       margin,
			GameType:     marginLabel(margin),
		},
		"box_score": toStatLinesJSON(append(g.HomeBox, g.AwayBox...)),
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game, err := s.games.Create(r.Context(), service.CreateGameInput{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		Quarter:    req.Quarter,
		HomeScore:  req.HomeScore,
		AwayScore:  req.AwayScore,
		SeriesID:   req.SeriesID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	teams, err := s.teamMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toGameJSON(*game, teams))
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	teams, err := s.teamMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, toGameJSON(g, teams))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"games": out, "count": len(out)})
}

func (s *Server) handleGameHistory(w http.ResponseWriter, r *http.Request) {
	limit := constants.GameHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	games, err := s.games.History(r.Context(), r.URL.Query().Get("team_id"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	teams, err := s.teamMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, toGameJSON(g, teams))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"games": out, "count": len(out)})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	game, err := s.games.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	box, err := s.games.BoxScore(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	teams, err := s.teamMap(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"game":      toGameJSON(*game, teams),
		"box_score": toStatLinesJSON(box),
	})
}

func (s *Server) handlePlayByPlay(w http.ResponseWriter, r *http.Request) {
	events, err := s.games.PlayByPlay(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"plays": toPlaysJSON(events),
		"count": len(events),
	})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.games.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) teamMap(r *http.Request) (map[string]domain.Team, error) {
	teams, err := s.roster.Teams(r.Context())
	if err != nil {
		return nil, err
	}
	m := make(map[string]domain.Team, len(teams))
	for _, t := range teams {
		m[t.ID] = t
	}
	return m, nil
}
