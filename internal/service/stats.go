package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Leader scopes.
const (
	ScopeCurrent = "current"
	ScopeAll     = "all"
)

var leaderCategories = []string{"points", "rebounds", "assists", "steals", "blocks"}

type StatsService struct {
	statsRepo *repository.StatsRepository
	gameRepo  *repository.GameRepository
	runRepo   *repository.RunRepository
	logger    zerolog.Logger
}

func NewStatsService(statsRepo *repository.StatsRepository, gameRepo *repository.GameRepository,
	runRepo *repository.RunRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{statsRepo: statsRepo, gameRepo: gameRepo, runRepo: runRepo, logger: logger}
}

// Leaders returns the top players per category, averaged per game played.
// Scope "current" covers the active run only, "all" spans every run.
// Players without a recorded game never appear.
func (s *StatsService) Leaders(ctx context.Context, scope string) (map[string][]repository.LeaderRow, error) {
	runID, err := s.scopeRunID(ctx, scope)
	if err != nil {
		return nil, err
	}

	results := make(map[string][]repository.LeaderRow, len(leaderCategories))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range leaderCategories {
		g.Go(func() error {
			rows, err := s.statsRepo.Leaders(gctx, category, runID, constants.StatLeaderLimit)
			if err != nil {
				return fmt.Errorf("failed to load %s leaders: %w", category, err)
			}
			mu.Lock()
			results[category] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *StatsService) scopeRunID(ctx context.Context, scope string) (string, error) {
	switch scope {
	case "", ScopeCurrent:
		run, err := s.runRepo.GetActive(ctx)
		if err != nil {
			// No runs yet means no stats yet, not a failure.
			if errors.Is(err, domain.ErrRunNotFound) {
				return "", nil
			}
			return "", err
		}
		return run.ID, nil
	case ScopeAll:
		return "", nil
	}
	return "", fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, scope)
}

// InputPerformance summarizes how played quarters compare to the games
// extrapolated from them across the active run.
type InputPerformance struct {
	Games          int     `json:"games"`
	HomeWins       int     `json:"home_wins"`
	AwayWins       int     `json:"away_wins"`
	AvgInputTotal  float64 `json:"avg_input_total"`
	AvgFinalTotal  float64 `json:"avg_final_total"`
	InputWinnerWon int     `json:"input_winner_won"`
	InputTies      int     `json:"input_ties"`
}

func (s *StatsService) InputPerformance(ctx context.Context) (*InputPerformance, error) {
	run, err := s.runRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	perf := &InputPerformance{Games: len(games)}
	if len(games) == 0 {
		return perf, nil
	}

	var inputTotal, finalTotal int
	for _, g := range games {
		inputTotal += g.InputHome + g.InputAway
		finalTotal += g.HomeScore + g.AwayScore

		if g.HomeScore > g.AwayScore {
			perf.HomeWins++
		} else {
			perf.AwayWins++
		}

		switch {
		case g.InputHome == g.InputAway:
			perf.InputTies++
		case (g.InputHome > g.InputAway) == (g.HomeScore > g.AwayScore):
			perf.InputWinnerWon++
		}
	}
	perf.AvgInputTotal = round1(float64(inputTotal) / float64(len(games)))
	perf.AvgFinalTotal = round1(float64(finalTotal) / float64(len(games)))
	return perf, nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
