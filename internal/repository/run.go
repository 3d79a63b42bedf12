package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hoopsim/internal/domain"

	"github.com/rs/zerolog"
)

type RunRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRunRepository(db *sql.DB, logger zerolog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

const runColumns = "id, name, year, is_active, is_completed, champion_team_id, created_at"

func scanRun(row interface{ Scan(...any) error }) (*domain.Run, error) {
	var r domain.Run
	var champion sql.NullString
	err := row.Scan(&r.ID, &r.Name, &r.Year, &r.IsActive, &r.IsCompleted, &champion, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.ChampionTeamID = champion.String
	return &r, nil
}

// Create inserts the run and deactivates every other run in the same
// transaction, so exactly one run is active afterwards.
func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE runs SET is_active = FALSE"); err != nil {
		return fmt.Errorf("failed to deactivate runs: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs ("+runColumns+") VALUES (?, ?, ?, TRUE, FALSE, NULL, ?)",
		run.ID, run.Name, run.Year, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	run.IsActive = true

	return tx.Commit()
}

// Activate flips the active flag exclusively to the target run.
func (r *RunRepository) Activate(ctx context.Context, id string) (*domain.Run, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE runs SET is_active = FALSE"); err != nil {
		return nil, fmt.Errorf("failed to deactivate runs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE runs SET is_active = TRUE WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to activate run %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	run.IsActive = true
	return run, nil
}

func (r *RunRepository) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

func (r *RunRepository) GetActive(ctx context.Context) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE is_active = TRUE")
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active run: %w", err)
	}
	return run, nil
}

func (r *RunRepository) List(ctx context.Context) ([]domain.Run, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY year DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (r *RunRepository) Update(ctx context.Context, run *domain.Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateRunTx(ctx, tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

func updateRunTx(ctx context.Context, tx *sql.Tx, run *domain.Run) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE runs SET is_completed = ?, champion_team_id = ? WHERE id = ?",
		run.IsCompleted, nullableID(run.ChampionTeamID), run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", run.ID, err)
	}
	return nil
}
