package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hoopsim/internal/domain"

	"github.com/rs/zerolog"
)

type StatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStatsRepository(db *sql.DB, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{db: db, logger: logger}
}

type LeaderRow struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"player_name"`
	Team     string  `json:"team_name"`
	Average  float64 `json:"average"`
	Games    int     `json:"games_played"`
}

// Leader categories map to stat line columns; anything else is rejected
// before reaching SQL.
var leaderColumns = map[string]string{
	"points":   "points",
	"rebounds": "rebounds",
	"assists":  "assists",
	"steals":   "steals",
	"blocks":   "blocks",
}

// Leaders ranks players by per-game average of the category. Players with
// no games in scope never appear; ties break by fewer games played, then
// player id, so the ordering is reproducible.
func (r *StatsRepository) Leaders(ctx context.Context, category, runID string, limit int) ([]LeaderRow, error) {
	column, ok := leaderColumns[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown stat category %q", domain.ErrInvalidInput, category)
	}

	query := `SELECT p.id, p.name,
			COALESCE(t.city || ' ' || t.name, 'Free Agent'),
			AVG(s.` + column + `), COUNT(s.id)
		FROM stat_lines s
		JOIN players p ON p.id = s.player_id
		LEFT JOIN teams t ON t.id = p.team_id`

	var args []any
	if runID != "" {
		query += " JOIN games g ON g.id = s.game_id WHERE g.run_id = ?"
		args = append(args, runID)
	}
	query += `
		GROUP BY p.id, p.name
		HAVING COUNT(s.id) >= 1
		ORDER BY AVG(s.` + column + `) DESC, COUNT(s.id) ASC, p.id ASC
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s leaders: %w", category, err)
	}
	defer rows.Close()

	var leaders []LeaderRow
	for rows.Next() {
		var row LeaderRow
		if err := rows.Scan(&row.PlayerID, &row.Name, &row.Team, &row.Average, &row.Games); err != nil {
			return nil, err
		}
		leaders = append(leaders, row)
	}
	return leaders, rows.Err()
}
