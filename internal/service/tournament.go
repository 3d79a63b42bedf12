package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type TournamentService struct {
	seriesRepo *repository.SeriesRepository
	gameRepo   *repository.GameRepository
	teamRepo   *repository.TeamRepository
	runRepo    *repository.RunRepository
	logger     zerolog.Logger

	// One mutex per run so bracket initialization and round advancement
	// cannot interleave.
	runLocks sync.Map
}

func NewTournamentService(seriesRepo *repository.SeriesRepository, gameRepo *repository.GameRepository,
	teamRepo *repository.TeamRepository, runRepo *repository.RunRepository,
	logger zerolog.Logger) *TournamentService {
	return &TournamentService{
		seriesRepo: seriesRepo,
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		runRepo:    runRepo,
		logger:     logger,
	}
}

func (s *TournamentService) lockRun(runID string) *sync.Mutex {
	mu, _ := s.runLocks.LoadOrStore(runID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// InitializeBracket seeds the first round of the active run: 32 teams,
// 16 series, seed 1 against seed 32 and inward from there. Seed order is
// team id order.
func (s *TournamentService) InitializeBracket(ctx context.Context) ([]domain.Series, error) {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	mu := s.lockRun(run.ID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.seriesRepo.CountByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: bracket already initialized for run %s", domain.ErrInvalidInput, run.ID)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(teams) != constants.BracketTeams {
		return nil, fmt.Errorf("%w: have %d teams, need %d", domain.ErrInvalidBracketSize, len(teams), constants.BracketTeams)
	}

	batch := make([]domain.Series, 0, constants.BracketTeams/2)
	for i := 0; i < constants.BracketTeams/2; i++ {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate series id: %w", err)
		}
		now := time.Now()
		batch = append(batch, domain.Series{
			ID:        id,
			RunID:     run.ID,
			Round:     1,
			Number:    i + 1,
			Team1ID:   teams[i].ID,
			Team2ID:   teams[constants.BracketTeams-1-i].ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.seriesRepo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create bracket: %w", err)
	}

	s.logger.Info().Str("run_id", run.ID).Int("series", len(batch)).Msg("bracket initialized")
	return batch, nil
}

// AdvanceRound pairs the winners of a fully completed round into the next
// one. Round 5 has no successor. Advancement is one-way: deleting a
// deciding game later reopens the series but does not tear down the next
// round.
func (s *TournamentService) AdvanceRound(ctx context.Context, round int) ([]domain.Series, error) {
	if round < 1 || round > constants.BracketRounds {
		return nil, fmt.Errorf("%w: round must be between 1 and %d", domain.ErrInvalidInput, constants.BracketRounds)
	}
	if round == constants.BracketRounds {
		return nil, domain.ErrTournamentComplete
	}

	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	mu := s.lockRun(run.ID)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.seriesRepo.ListByRound(ctx, run.ID, round)
	if err != nil {
		return nil, err
	}
	if len(current) != domain.SeriesPerRound(round) {
		return nil, fmt.Errorf("%w: round %d has %d of %d series", domain.ErrRoundNotComplete,
			round, len(current), domain.SeriesPerRound(round))
	}
	for _, sr := range current {
		if !sr.IsCompleted {
			return nil, fmt.Errorf("%w: series %d is still in progress", domain.ErrRoundNotComplete, sr.Number)
		}
	}

	next, err := s.seriesRepo.ListByRound(ctx, run.ID, round+1)
	if err != nil {
		return nil, err
	}
	if len(next) > 0 {
		return nil, fmt.Errorf("%w: round %d already exists", domain.ErrInvalidInput, round+1)
	}

	batch := make([]domain.Series, 0, len(current)/2)
	for i := 0; i < len(current); i += 2 {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate series id: %w", err)
		}
		now := time.Now()
		batch = append(batch, domain.Series{
			ID:        id,
			RunID:     run.ID,
			Round:     round + 1,
			Number:    i/2 + 1,
			Team1ID:   current[i].WinnerTeamID,
			Team2ID:   current[i+1].WinnerTeamID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.seriesRepo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to advance round: %w", err)
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Int("from_round", round).
		Int("series", len(batch)).
		Msg("round advanced")
	return batch, nil
}

// ApplyGame folds one game result into a series. The caller holds the
// series lock and persists the mutated series in the same transaction as
// the game. When the finals series completes, the run to mark as won is
// returned for the same transaction.
func (s *TournamentService) ApplyGame(ctx context.Context, series *domain.Series, game *domain.Game) (*domain.Run, error) {
	if series.IsCompleted {
		return nil, domain.ErrSeriesAlreadyCompleted
	}
	if game.GameNumber > constants.MaxSeriesGames {
		return nil, domain.ErrSeriesAlreadyCompleted
	}
	if game.HomeScore == game.AwayScore {
		return nil, domain.ErrTiedGame
	}

	if !seriesHasTeams(series, game.HomeTeamID, game.AwayTeamID) {
		return nil, fmt.Errorf("%w: game teams do not match the series", domain.ErrInvalidInput)
	}

	winner := game.WinnerTeamID()
	if winner == series.Team1ID {
		series.Team1Wins++
	} else {
		series.Team2Wins++
	}

	series.UpdatedAt = time.Now()
	if series.Team1Wins < constants.SeriesWinTarget && series.Team2Wins < constants.SeriesWinTarget {
		return nil, nil
	}

	series.IsCompleted = true
	series.WinnerTeamID = winner
	if series.Round != constants.BracketRounds {
		return nil, nil
	}

	run, err := s.runRepo.Get(ctx, series.RunID)
	if err != nil {
		return nil, err
	}
	run.IsCompleted = true
	run.ChampionTeamID = winner
	return run, nil
}

// RevertGame undoes ApplyGame for a game about to be deleted.
func (s *TournamentService) RevertGame(ctx context.Context, series *domain.Series, game *domain.Game) (*domain.Run, error) {
	if !seriesHasTeams(series, game.HomeTeamID, game.AwayTeamID) {
		return nil, fmt.Errorf("%w: game teams do not match the series", domain.ErrInvalidInput)
	}

	if game.WinnerTeamID() == series.Team1ID {
		if series.Team1Wins > 0 {
			series.Team1Wins--
		}
	} else if series.Team2Wins > 0 {
		series.Team2Wins--
	}

	series.UpdatedAt = time.Now()
	if !series.IsCompleted {
		return nil, nil
	}
	if series.Team1Wins >= constants.SeriesWinTarget || series.Team2Wins >= constants.SeriesWinTarget {
		return nil, nil
	}

	// The deciding win is gone; the series reopens.
	series.IsCompleted = false
	series.WinnerTeamID = ""
	if series.Round != constants.BracketRounds {
		return nil, nil
	}

	run, err := s.runRepo.Get(ctx, series.RunID)
	if err != nil {
		return nil, err
	}
	run.IsCompleted = false
	run.ChampionTeamID = ""
	return run, nil
}

// BracketView groups a run's series by round for the overview response.
type BracketView struct {
	Run    *domain.Run
	Rounds map[int][]domain.Series
	Teams  map[string]domain.Team
}

func (s *TournamentService) Overview(ctx context.Context) (*BracketView, error) {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.seriesRepo.ListByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamMap(ctx)
	if err != nil {
		return nil, err
	}

	rounds := make(map[int][]domain.Series)
	for _, sr := range all {
		rounds[sr.Round] = append(rounds[sr.Round], sr)
	}
	return &BracketView{Run: run, Rounds: rounds, Teams: teams}, nil
}

// ActiveSeries lists the incomplete series of the deepest round reached.
func (s *TournamentService) ActiveSeries(ctx context.Context) ([]domain.Series, map[string]domain.Team, error) {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	active, err := s.seriesRepo.ListActive(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}

	teams, err := s.teamMap(ctx)
	if err != nil {
		return nil, nil, err
	}
	return active, teams, nil
}

// SeriesDetail is one series plus the games played in it so far.
type SeriesDetail struct {
	Series *domain.Series
	Games  []domain.Game
	Teams  map[string]domain.Team
}

func (s *TournamentService) GetSeries(ctx context.Context, id string) (*SeriesDetail, error) {
	series, err := s.seriesRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListBySeries(ctx, id)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamMap(ctx)
	if err != nil {
		return nil, err
	}
	return &SeriesDetail{Series: series, Games: games, Teams: teams}, nil
}

// Reset wipes the active run's bracket and every game played in it,
// reopening the run if it had been won.
func (s *TournamentService) Reset(ctx context.Context) error {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return err
	}

	mu := s.lockRun(run.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.seriesRepo.ResetRun(ctx, run.ID); err != nil {
		return fmt.Errorf("failed to reset run: %w", err)
	}

	if run.IsCompleted || run.ChampionTeamID != "" {
		run.IsCompleted = false
		run.ChampionTeamID = ""
		if err := s.runRepo.Update(ctx, run); err != nil {
			return err
		}
	}

	s.logger.Info().Str("run_id", run.ID).Msg("tournament reset")
	return nil
}

func seriesHasTeams(s *domain.Series, home, away string) bool {
	return (home == s.Team1ID && away == s.Team2ID) || (home == s.Team2ID && away == s.Team1ID)
}

func (s *TournamentService) teamMap(ctx context.Context) (map[string]domain.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]domain.Team, len(teams))
	for _, t := range teams {
		m[t.ID] = t
	}
	return m, nil
}
