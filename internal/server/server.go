package server

import (
	"net/http"

	"hoopsim/internal/service"

	"github.com/rs/zerolog"
)

type Server struct {
	games      *service.GameService
	tournament *service.TournamentService
	runs       *service.RunService
	stats      *service.StatsService
	roster     *service.RosterService
	logger     zerolog.Logger
}

func New(games *service.GameService, tournament *service.TournamentService,
	runs *service.RunService, stats *service.StatsService,
	roster *service.RosterService, logger zerolog.Logger) *Server {
	return &Server{
		games:      games,
		tournament: tournament,
		runs:       runs,
		stats:      stats,
		roster:     roster,
		logger:     logger,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/games/preview", s.handlePreviewGame)
	mux.HandleFunc("POST /api/games/create", s.handleCreateGame)
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/history", s.handleGameHistory)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("GET /api/games/{id}/playbyplay", s.handlePlayByPlay)
	mux.HandleFunc("DELETE /api/games/{id}", s.handleDeleteGame)

	mux.HandleFunc("POST /api/tournament/initialize", s.handleInitializeTournament)
	mux.HandleFunc("GET /api/tournament/overview", s.handleTournamentOverview)
	mux.HandleFunc("GET /api/tournament/active-series", s.handleActiveSeries)
	mux.HandleFunc("POST /api/tournament/advance-round/{round}", s.handleAdvanceRound)
	mux.HandleFunc("GET /api/tournament/series/{id}", s.handleGetSeries)
	mux.HandleFunc("GET /api/tournament/series/{id}/games", s.handleSeriesGames)
	mux.HandleFunc("POST /api/tournament/reset", s.handleResetTournament)

	mux.HandleFunc("GET /api/stats/leaders", s.handleStatLeaders)
	mux.HandleFunc("GET /api/stats/input-performance", s.handleInputPerformance)

	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/active", s.handleActiveRun)
	mux.HandleFunc("POST /api/runs", s.handleCreateRun)
	mux.HandleFunc("PUT /api/runs/{id}/activate", s.handleActivateRun)

	mux.HandleFunc("GET /api/teams", s.handleListTeams)
	mux.HandleFunc("GET /api/teams/{id}", s.handleGetTeam)
	mux.HandleFunc("GET /api/free-agents", s.handleFreeAgents)
	mux.HandleFunc("POST /api/teams/{id}/sign", s.handleSignPlayer)
	mux.HandleFunc("POST /api/teams/{id}/release", s.handleReleasePlayer)
	mux.HandleFunc("POST /api/teams/trade", s.handleTrade)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
