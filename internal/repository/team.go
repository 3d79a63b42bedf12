package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hoopsim/internal/domain"

	"github.com/rs/zerolog"
)

type TeamRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTeamRepository(db *sql.DB, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{db: db, logger: logger}
}

const teamColumns = "id, city, name, abbreviation, created_at, updated_at"

func scanTeam(row interface{ Scan(...any) error }) (*domain.Team, error) {
	var t domain.Team
	if err := row.Scan(&t.ID, &t.City, &t.Name, &t.Abbreviation, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) Get(ctx context.Context, id string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE id = ?", id)
	team, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return team, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+teamColumns+" FROM teams ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

func (r *TeamRepository) Create(ctx context.Context, t *domain.Team) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO teams (id, city, name, abbreviation, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		t.ID, t.City, t.Name, t.Abbreviation, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team %s: %w", t.ID, err)
	}
	return nil
}

const playerColumns = `id, name, team_id, position, scoring, rebounding, playmaking,
	stealing, shotblock, fg_pct, three_pct, ft_pct, mins, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*domain.Player, error) {
	var p domain.Player
	var teamID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &teamID, &p.Position, &p.Scoring, &p.Rebounding,
		&p.Playmaking, &p.Stealing, &p.ShotBlock, &p.FGPct, &p.ThreePct, &p.FTPct,
		&p.Minutes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TeamID = teamID.String
	return &p, nil
}

func (r *TeamRepository) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	player, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return player, nil
}

func (r *TeamRepository) Roster(ctx context.Context, teamID string) ([]domain.Player, error) {
	return r.queryPlayers(ctx,
		"SELECT "+playerColumns+" FROM players WHERE team_id = ? ORDER BY mins DESC", teamID)
}

func (r *TeamRepository) FreeAgents(ctx context.Context) ([]domain.Player, error) {
	return r.queryPlayers(ctx,
		"SELECT "+playerColumns+" FROM players WHERE team_id IS NULL ORDER BY scoring DESC")
}

func (r *TeamRepository) queryPlayers(ctx context.Context, query string, args ...any) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *TeamRepository) CreatePlayer(ctx context.Context, p *domain.Player) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (id, name, team_id, position, scoring, rebounding, playmaking,
			stealing, shotblock, fg_pct, three_pct, ft_pct, mins, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, nullableID(p.TeamID), p.Position, p.Scoring, p.Rebounding, p.Playmaking,
		p.Stealing, p.ShotBlock, p.FGPct, p.ThreePct, p.FTPct, p.Minutes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create player %s: %w", p.ID, err)
	}
	return nil
}

// SetPlayerTeam moves a player onto a roster, or into the free-agent pool
// when teamID is empty.
func (r *TeamRepository) SetPlayerTeam(ctx context.Context, playerID, teamID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE players SET team_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullableID(teamID), playerID)
	if err != nil {
		return fmt.Errorf("failed to update player %s team: %w", playerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
