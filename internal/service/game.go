package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/repository"
	"hoopsim/internal/rng"
	"hoopsim/internal/sim"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GameService struct {
	teamRepo   *repository.TeamRepository
	gameRepo   *repository.GameRepository
	seriesRepo *repository.SeriesRepository
	runRepo    *repository.RunRepository
	tournament *TournamentService
	logger     zerolog.Logger

	// Serializes game creation and deletion per series so two requests
	// can never both observe the fourth win.
	seriesLocks sync.Map
}

func NewGameService(teamRepo *repository.TeamRepository, gameRepo *repository.GameRepository,
	seriesRepo *repository.SeriesRepository, runRepo *repository.RunRepository,
	tournament *TournamentService, logger zerolog.Logger) *GameService {
	return &GameService{
		teamRepo:   teamRepo,
		gameRepo:   gameRepo,
		seriesRepo: seriesRepo,
		runRepo:    runRepo,
		tournament: tournament,
		logger:     logger,
	}
}

type CreateGameInput struct {
	HomeTeamID string
	AwayTeamID string
	Quarter    int
	HomeScore  int
	AwayScore  int
	SeriesID   string // empty for a standalone game
}

type PreviewResult struct {
	HomeTeam domain.Team
	AwayTeam domain.Team
	Game     *sim.Game
}

func (s *GameService) lockSeries(id string) *sync.Mutex {
	mu, _ := s.seriesLocks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Preview extrapolates a full game without persisting anything. It takes
// no locks and draws independently of any later Create over the same
// inputs, so the two may legitimately diverge.
func (s *GameService) Preview(ctx context.Context, in CreateGameInput) (*PreviewResult, error) {
	home, away, err := s.loadSheets(ctx, in.HomeTeamID, in.AwayTeamID)
	if err != nil {
		return nil, err
	}

	game, err := sim.Generate(rng.New(), home, away, sim.Input{
		Quarter:   in.Quarter,
		HomeScore: in.HomeScore,
		AwayScore: in.AwayScore,
	})
	if err != nil {
		return nil, err
	}

	return &PreviewResult{HomeTeam: home.Team, AwayTeam: away.Team, Game: game}, nil
}

// Create extrapolates and persists a game. The game row, its stat lines,
// its play-by-play and the series/run effect commit in one transaction.
func (s *GameService) Create(ctx context.Context, in CreateGameInput) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	home, away, err := s.loadSheets(ctx, in.HomeTeamID, in.AwayTeamID)
	if err != nil {
		return nil, err
	}

	var series *domain.Series
	if in.SeriesID != "" {
		mu := s.lockSeries(in.SeriesID)
		mu.Lock()
		defer mu.Unlock()

		series, err = s.seriesRepo.Get(ctx, in.SeriesID)
		if err != nil {
			return nil, err
		}
		if series.IsCompleted {
			return nil, domain.ErrSeriesAlreadyCompleted
		}
	}

	runID, err := s.resolveRunID(ctx, series)
	if err != nil {
		return nil, err
	}

	candidate, err := sim.Generate(rng.New(), home, away, sim.Input{
		Quarter:   in.Quarter,
		HomeScore: in.HomeScore,
		AwayScore: in.AwayScore,
	})
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	game := &domain.Game{
		ID:           id,
		RunID:        runID,
		SeriesID:     in.SeriesID,
		HomeTeamID:   in.HomeTeamID,
		AwayTeamID:   in.AwayTeamID,
		InputQuarter: in.Quarter,
		InputHome:    in.HomeScore,
		InputAway:    in.AwayScore,
		HomeQuarters: candidate.HomeQuarters,
		AwayQuarters: candidate.AwayQuarters,
		HomeScore:    candidate.HomeScore,
		AwayScore:    candidate.AwayScore,
		CreatedAt:    time.Now(),
	}

	var runUpdate *domain.Run
	if series != nil {
		played, err := s.gameRepo.CountBySeries(ctx, series.ID)
		if err != nil {
			return nil, err
		}
		game.GameNumber = played + 1

		runUpdate, err = s.tournament.ApplyGame(ctx, series, game)
		if err != nil {
			return nil, err
		}
	}

	lines := append(candidate.HomeBox, candidate.AwayBox...)
	if err := s.gameRepo.Create(ctx, game, lines, candidate.PlayByPlay, series, runUpdate); err != nil {
		return nil, fmt.Errorf("failed to persist game: %w", err)
	}

	s.logger.Info().
		Str("game_id", game.ID).
		Str("series_id", game.SeriesID).
		Int("home_score", game.HomeScore).
		Int("away_score", game.AwayScore).
		Msg("game created")
	return game, nil
}

// Delete removes a game and reverses its effect on the owning series,
// un-completing it if this game had been the deciding win. An already
// advanced next round is left alone; advancement is one-way.
func (s *GameService) Delete(ctx context.Context, gameID string) error {
	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return err
	}

	var series *domain.Series
	var runUpdate *domain.Run
	if game.SeriesID != "" {
		mu := s.lockSeries(game.SeriesID)
		mu.Lock()
		defer mu.Unlock()

		series, err = s.seriesRepo.Get(ctx, game.SeriesID)
		if err != nil {
			return err
		}
		runUpdate, err = s.tournament.RevertGame(ctx, series, game)
		if err != nil {
			return err
		}
	}

	if err := s.gameRepo.Delete(ctx, gameID, series, runUpdate); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	s.logger.Info().Str("game_id", gameID).Msg("game deleted")
	return nil
}

func (s *GameService) Get(ctx context.Context, id string) (*domain.Game, error) {
	return s.gameRepo.Get(ctx, id)
}

func (s *GameService) BoxScore(ctx context.Context, gameID string) ([]domain.StatLine, error) {
	return s.gameRepo.BoxScore(ctx, gameID)
}

func (s *GameService) PlayByPlay(ctx context.Context, gameID string) ([]domain.PlayByPlayEvent, error) {
	events, err := s.gameRepo.PlayByPlay(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrGameNotFound
	}
	return events, nil
}

func (s *GameService) List(ctx context.Context) ([]domain.Game, error) {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.gameRepo.ListByRun(ctx, run.ID)
}

func (s *GameService) History(ctx context.Context, teamID string, limit int) ([]domain.Game, error) {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.gameRepo.History(ctx, run.ID, teamID, limit)
}

func (s *GameService) loadSheets(ctx context.Context, homeID, awayID string) (sim.TeamSheet, sim.TeamSheet, error) {
	var home, away sim.TeamSheet

	homeTeam, err := s.teamRepo.Get(ctx, homeID)
	if err != nil {
		return home, away, err
	}
	awayTeam, err := s.teamRepo.Get(ctx, awayID)
	if err != nil {
		return home, away, err
	}

	homeRoster, err := s.teamRepo.Roster(ctx, homeID)
	if err != nil {
		return home, away, err
	}
	awayRoster, err := s.teamRepo.Roster(ctx, awayID)
	if err != nil {
		return home, away, err
	}

	home = sim.TeamSheet{Team: *homeTeam, Players: homeRoster}
	away = sim.TeamSheet{Team: *awayTeam, Players: awayRoster}
	return home, away, nil
}

// resolveRunID scopes the game: a series game belongs to the series' run,
// a standalone game to the active run.
func (s *GameService) resolveRunID(ctx context.Context, series *domain.Series) (string, error) {
	if series != nil {
		return series.RunID, nil
	}
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}
