package seed

import (
	"context"
	"fmt"

	"hoopsim/internal/repository"
	"hoopsim/internal/rng"
	"hoopsim/internal/service"

	"github.com/rs/zerolog"
)

// Seeder bootstraps an empty database with the 32-team league, generated
// rosters, a free agent pool and an initial active run.
type Seeder struct {
	teamRepo *repository.TeamRepository
	runRepo  *repository.RunRepository
	runs     *service.RunService
	logger   zerolog.Logger
}

func New(teamRepo *repository.TeamRepository, runRepo *repository.RunRepository,
	runs *service.RunService, logger zerolog.Logger) *Seeder {
	return &Seeder{teamRepo: teamRepo, runRepo: runRepo, runs: runs, logger: logger}
}

// Run seeds only when the database holds no teams, so restarts are safe.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.teamRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check team count: %w", err)
	}

	if count == 0 {
		if err := s.seedLeague(ctx); err != nil {
			return err
		}
	}

	if _, err := s.runRepo.GetActive(ctx); err != nil {
		if _, err := s.runs.Create(ctx, "", 0); err != nil {
			return fmt.Errorf("failed to create initial run: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedLeague(ctx context.Context) error {
	src := rng.New()

	created := 0
	for _, spec := range leagueTeams {
		team, err := createTeam(ctx, s.teamRepo, spec)
		if err != nil {
			return err
		}
		if err := createRoster(ctx, s.teamRepo, src, team.ID, rosters[spec.Abbr]); err != nil {
			return err
		}
		created++
	}

	if err := createFreeAgents(ctx, s.teamRepo, src); err != nil {
		return err
	}

	s.logger.Info().Int("teams", created).Msg("league seeded")
	return nil
}
