package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hoopsim/internal/domain"

	"github.com/rs/zerolog"
)

type SeriesRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSeriesRepository(db *sql.DB, logger zerolog.Logger) *SeriesRepository {
	return &SeriesRepository{db: db, logger: logger}
}

const seriesColumns = `id, run_id, round, number, team1_id, team2_id,
	team1_wins, team2_wins, winner_team_id, is_completed, created_at, updated_at`

func scanSeries(row interface{ Scan(...any) error }) (*domain.Series, error) {
	var s domain.Series
	var winner sql.NullString
	err := row.Scan(&s.ID, &s.RunID, &s.Round, &s.Number, &s.Team1ID, &s.Team2ID,
		&s.Team1Wins, &s.Team2Wins, &winner, &s.IsCompleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.WinnerTeamID = winner.String
	return &s, nil
}

func (r *SeriesRepository) Get(ctx context.Context, id string) (*domain.Series, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+seriesColumns+" FROM series WHERE id = ?", id)
	series, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSeriesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get series %s: %w", id, err)
	}
	return series, nil
}

// CreateBatch inserts a round's worth of series in one transaction.
func (r *SeriesRepository) CreateBatch(ctx context.Context, batch []domain.Series) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO series (`+seriesColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare series insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range batch {
		_, err := stmt.ExecContext(ctx, s.ID, s.RunID, s.Round, s.Number, s.Team1ID, s.Team2ID,
			s.Team1Wins, s.Team2Wins, nullableID(s.WinnerTeamID), s.IsCompleted,
			s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert series %d-%d: %w", s.Round, s.Number, err)
		}
	}
	return tx.Commit()
}

func updateSeriesTx(ctx context.Context, tx *sql.Tx, s *domain.Series) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE series SET team1_wins = ?, team2_wins = ?, winner_team_id = ?,
			is_completed = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.Team1Wins, s.Team2Wins, nullableID(s.WinnerTeamID), s.IsCompleted, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update series %s: %w", s.ID, err)
	}
	return nil
}

func (r *SeriesRepository) ListByRun(ctx context.Context, runID string) ([]domain.Series, error) {
	return r.querySeries(ctx,
		"SELECT "+seriesColumns+" FROM series WHERE run_id = ? ORDER BY round, number", runID)
}

func (r *SeriesRepository) ListByRound(ctx context.Context, runID string, round int) ([]domain.Series, error) {
	return r.querySeries(ctx,
		"SELECT "+seriesColumns+" FROM series WHERE run_id = ? AND round = ? ORDER BY number",
		runID, round)
}

// ListActive returns the incomplete series of the run's latest round.
func (r *SeriesRepository) ListActive(ctx context.Context, runID string) ([]domain.Series, error) {
	return r.querySeries(ctx,
		`SELECT `+seriesColumns+` FROM series
		 WHERE run_id = ? AND is_completed = FALSE
		   AND round = (SELECT MAX(round) FROM series WHERE run_id = ?)
		 ORDER BY number`, runID, runID)
}

func (r *SeriesRepository) CountByRun(ctx context.Context, runID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM series WHERE run_id = ?", runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count series: %w", err)
	}
	return count, nil
}

func (r *SeriesRepository) querySeries(ctx context.Context, query string, args ...any) ([]domain.Series, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var result []domain.Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// ResetRun deletes the run's series and every game hanging off the run,
// including standalone games, leaving teams and players intact.
func (r *SeriesRepository) ResetRun(ctx context.Context, runID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM play_by_play WHERE game_id IN (SELECT id FROM games WHERE run_id = ?)",
		"DELETE FROM stat_lines WHERE game_id IN (SELECT id FROM games WHERE run_id = ?)",
		"DELETE FROM games WHERE run_id = ?",
		"DELETE FROM series WHERE run_id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, runID); err != nil {
			return fmt.Errorf("failed to reset run %s: %w", runID, err)
		}
	}

	r.logger.Info().Str("run_id", runID).Msg("tournament reset")
	return tx.Commit()
}
