package service

import (
	"context"
	"fmt"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/repository"

	"github.com/rs/zerolog"
)

type RosterService struct {
	teamRepo *repository.TeamRepository
	logger   zerolog.Logger
}

func NewRosterService(teamRepo *repository.TeamRepository, logger zerolog.Logger) *RosterService {
	return &RosterService{teamRepo: teamRepo, logger: logger}
}

func (s *RosterService) Teams(ctx context.Context) ([]domain.Team, error) {
	return s.teamRepo.List(ctx)
}

// TeamRoster is a team with its current players, rotation order first.
type TeamRoster struct {
	Team    *domain.Team
	Players []domain.Player
}

func (s *RosterService) Team(ctx context.Context, id string) (*TeamRoster, error) {
	team, err := s.teamRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.teamRepo.Roster(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TeamRoster{Team: team, Players: players}, nil
}

func (s *RosterService) FreeAgents(ctx context.Context) ([]domain.Player, error) {
	return s.teamRepo.FreeAgents(ctx)
}

// Sign puts a free agent on a team's roster. A player is on at most one
// roster at a time.
func (s *RosterService) Sign(ctx context.Context, teamID, playerID string) error {
	if _, err := s.teamRepo.Get(ctx, teamID); err != nil {
		return err
	}
	player, err := s.teamRepo.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if player.TeamID != "" {
		return fmt.Errorf("%w: player %s is already on a roster", domain.ErrInvalidInput, playerID)
	}

	if err := s.teamRepo.SetPlayerTeam(ctx, playerID, teamID); err != nil {
		return err
	}
	s.logger.Info().Str("player_id", playerID).Str("team_id", teamID).Msg("player signed")
	return nil
}

// Release sends a player to free agency. A roster never drops below the
// minimum needed to field a lineup.
func (s *RosterService) Release(ctx context.Context, teamID, playerID string) error {
	player, err := s.teamRepo.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if player.TeamID != teamID {
		return fmt.Errorf("%w: player %s is not on team %s", domain.ErrInvalidInput, playerID, teamID)
	}

	roster, err := s.teamRepo.Roster(ctx, teamID)
	if err != nil {
		return err
	}
	if len(roster) <= constants.MinRosterSize {
		return fmt.Errorf("%w: team %s cannot drop below %d players", domain.ErrInvalidInput, teamID, constants.MinRosterSize)
	}

	if err := s.teamRepo.SetPlayerTeam(ctx, playerID, ""); err != nil {
		return err
	}
	s.logger.Info().Str("player_id", playerID).Str("team_id", teamID).Msg("player released")
	return nil
}

// TradeInput swaps groups of players between two teams.
type TradeInput struct {
	Team1ID        string
	Team2ID        string
	Team1PlayerIDs []string
	Team2PlayerIDs []string
}

func (s *RosterService) Trade(ctx context.Context, in TradeInput) error {
	if in.Team1ID == in.Team2ID {
		return fmt.Errorf("%w: cannot trade within one team", domain.ErrInvalidInput)
	}
	if len(in.Team1PlayerIDs) == 0 && len(in.Team2PlayerIDs) == 0 {
		return fmt.Errorf("%w: trade moves no players", domain.ErrInvalidInput)
	}
	if _, err := s.teamRepo.Get(ctx, in.Team1ID); err != nil {
		return err
	}
	if _, err := s.teamRepo.Get(ctx, in.Team2ID); err != nil {
		return err
	}

	if err := s.checkOwnership(ctx, in.Team1ID, in.Team1PlayerIDs); err != nil {
		return err
	}
	if err := s.checkOwnership(ctx, in.Team2ID, in.Team2PlayerIDs); err != nil {
		return err
	}

	// Roster sizes after the swap must still allow a starting five.
	if err := s.checkPostTradeSize(ctx, in.Team1ID, len(in.Team1PlayerIDs), len(in.Team2PlayerIDs)); err != nil {
		return err
	}
	if err := s.checkPostTradeSize(ctx, in.Team2ID, len(in.Team2PlayerIDs), len(in.Team1PlayerIDs)); err != nil {
		return err
	}

	for _, id := range in.Team1PlayerIDs {
		if err := s.teamRepo.SetPlayerTeam(ctx, id, in.Team2ID); err != nil {
			return err
		}
	}
	for _, id := range in.Team2PlayerIDs {
		if err := s.teamRepo.SetPlayerTeam(ctx, id, in.Team1ID); err != nil {
			return err
		}
	}

	s.logger.Info().
		Str("team1_id", in.Team1ID).
		Str("team2_id", in.Team2ID).
		Int("players_moved", len(in.Team1PlayerIDs)+len(in.Team2PlayerIDs)).
		Msg("trade executed")
	return nil
}

func (s *RosterService) checkOwnership(ctx context.Context, teamID string, playerIDs []string) error {
	for _, id := range playerIDs {
		player, err := s.teamRepo.GetPlayer(ctx, id)
		if err != nil {
			return err
		}
		if player.TeamID != teamID {
			return fmt.Errorf("%w: player %s is not on team %s", domain.ErrInvalidInput, id, teamID)
		}
	}
	return nil
}

func (s *RosterService) checkPostTradeSize(ctx context.Context, teamID string, outgoing, incoming int) error {
	roster, err := s.teamRepo.Roster(ctx, teamID)
	if err != nil {
		return err
	}
	if len(roster)-outgoing+incoming < constants.MinRosterSize {
		return fmt.Errorf("%w: trade leaves team %s below %d players", domain.ErrInvalidInput, teamID, constants.MinRosterSize)
	}
	return nil
}
