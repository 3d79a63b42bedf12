package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GameRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameRepository(db *sql.DB, logger zerolog.Logger) *GameRepository {
	return &GameRepository{db: db, logger: logger}
}

const gameColumns = `id, run_id, series_id, game_number, home_team_id, away_team_id,
	input_quarter, input_home, input_away,
	home_q1, home_q2, home_q3, home_q4, away_q1, away_q2, away_q3, away_q4,
	home_score, away_score, created_at`

func scanGame(row interface{ Scan(...any) error }) (*domain.Game, error) {
	var g domain.Game
	var seriesID sql.NullString
	var gameNumber sql.NullInt64
	err := row.Scan(&g.ID, &g.RunID, &seriesID, &gameNumber, &g.HomeTeamID, &g.AwayTeamID,
		&g.InputQuarter, &g.InputHome, &g.InputAway,
		&g.HomeQuarters[0], &g.HomeQuarters[1], &g.HomeQuarters[2], &g.HomeQuarters[3],
		&g.AwayQuarters[0], &g.AwayQuarters[1], &g.AwayQuarters[2], &g.AwayQuarters[3],
		&g.HomeScore, &g.AwayScore, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	g.SeriesID = seriesID.String
	g.GameNumber = int(gameNumber.Int64)
	return &g, nil
}

// Create persists a game with its stat lines and play-by-play, plus the
// updated series and run rows when the game decides either, in one
// transaction. Nothing is committed when any piece fails.
func (r *GameRepository) Create(ctx context.Context, g *domain.Game,
	lines []domain.StatLine, events []domain.PlayByPlayEvent,
	series *domain.Series, run *domain.Run) error {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (`+gameColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.RunID, nullableID(g.SeriesID), nullableInt(g.GameNumber),
		g.HomeTeamID, g.AwayTeamID, g.InputQuarter, g.InputHome, g.InputAway,
		g.HomeQuarters[0], g.HomeQuarters[1], g.HomeQuarters[2], g.HomeQuarters[3],
		g.AwayQuarters[0], g.AwayQuarters[1], g.AwayQuarters[2], g.AwayQuarters[3],
		g.HomeScore, g.AwayScore, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	if err := insertStatLines(ctx, tx, g.ID, lines); err != nil {
		return err
	}
	if err := insertPlayByPlay(ctx, tx, g.ID, events); err != nil {
		return err
	}
	if series != nil {
		if err := updateSeriesTx(ctx, tx, series); err != nil {
			return err
		}
	}
	if run != nil {
		if err := updateRunTx(ctx, tx, run); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertStatLines(ctx context.Context, tx *sql.Tx, gameID string, lines []domain.StatLine) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stat_lines (id, game_id, player_id, team_id, minutes, points, rebounds,
			off_rebounds, def_rebounds, assists, steals, blocks, turnovers, fouls,
			fgm, fga, tpm, tpa, ftm, fta, plus_minus,
			true_shooting, effective_fg, usage_rate, per)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stat line insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate stat line id: %w", err)
		}
		_, err = stmt.ExecContext(ctx, id, gameID, l.PlayerID, l.TeamID, l.Minutes, l.Points,
			l.Rebounds, l.OffRebounds, l.DefRebounds, l.Assists, l.Steals, l.Blocks,
			l.Turnovers, l.Fouls, l.FGM, l.FGA, l.TPM, l.TPA, l.FTM, l.FTA, l.PlusMinus,
			l.TrueShooting, l.EffectiveFG, l.UsageRate, l.PER)
		if err != nil {
			return fmt.Errorf("failed to insert stat line for player %s: %w", l.PlayerID, err)
		}
	}
	return nil
}

func insertPlayByPlay(ctx context.Context, tx *sql.Tx, gameID string, events []domain.PlayByPlayEvent) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO play_by_play (id, game_id, quarter, seq, elapsed, clock, event_type,
			description, team_id, player_id, points, home_score, away_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare play-by-play insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate event id: %w", err)
		}
		_, err = stmt.ExecContext(ctx, id, gameID, ev.Quarter, ev.Seq, ev.Elapsed, ev.Clock,
			ev.EventType, ev.Description, nullableID(ev.TeamID), nullableID(ev.PlayerID),
			ev.Points, ev.HomeScore, ev.AwayScore)
		if err != nil {
			return fmt.Errorf("failed to insert play-by-play event %d: %w", ev.Seq, err)
		}
	}
	return nil
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return game, nil
}

func (r *GameRepository) ListByRun(ctx context.Context, runID string) ([]domain.Game, error) {
	return r.queryGames(ctx,
		"SELECT "+gameColumns+" FROM games WHERE run_id = ? ORDER BY created_at DESC", runID)
}

func (r *GameRepository) ListBySeries(ctx context.Context, seriesID string) ([]domain.Game, error) {
	return r.queryGames(ctx,
		"SELECT "+gameColumns+" FROM games WHERE series_id = ? ORDER BY game_number", seriesID)
}

// History returns recent completed games for the run, optionally filtered
// to games a team took part in.
func (r *GameRepository) History(ctx context.Context, runID, teamID string, limit int) ([]domain.Game, error) {
	if limit <= 0 {
		limit = constants.GameHistoryLimit
	}
	if teamID != "" {
		return r.queryGames(ctx,
			`SELECT `+gameColumns+` FROM games
			 WHERE run_id = ? AND (home_team_id = ? OR away_team_id = ?)
			 ORDER BY created_at DESC LIMIT ?`, runID, teamID, teamID, limit)
	}
	return r.queryGames(ctx,
		"SELECT "+gameColumns+" FROM games WHERE run_id = ? ORDER BY created_at DESC LIMIT ?",
		runID, limit)
}

func (r *GameRepository) queryGames(ctx context.Context, query string, args ...any) ([]domain.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func (r *GameRepository) CountBySeries(ctx context.Context, seriesID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM games WHERE series_id = ?", seriesID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count series games: %w", err)
	}
	return count, nil
}

// BoxScore returns the stat lines of a game with player and team names
// attached, home side first in roster order.
func (r *GameRepository) BoxScore(ctx context.Context, gameID string) ([]domain.StatLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.game_id, s.player_id, s.team_id, s.minutes, s.points, s.rebounds,
			s.off_rebounds, s.def_rebounds, s.assists, s.steals, s.blocks, s.turnovers, s.fouls,
			s.fgm, s.fga, s.tpm, s.tpa, s.ftm, s.fta, s.plus_minus,
			s.true_shooting, s.effective_fg, s.usage_rate, s.per,
			p.name, t.city || ' ' || t.name
		 FROM stat_lines s
		 JOIN players p ON p.id = s.player_id
		 JOIN teams t ON t.id = s.team_id
		 WHERE s.game_id = ?
		 ORDER BY s.team_id, s.minutes DESC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query box score: %w", err)
	}
	defer rows.Close()

	var lines []domain.StatLine
	for rows.Next() {
		var l domain.StatLine
		err := rows.Scan(&l.ID, &l.GameID, &l.PlayerID, &l.TeamID, &l.Minutes, &l.Points,
			&l.Rebounds, &l.OffRebounds, &l.DefRebounds, &l.Assists, &l.Steals, &l.Blocks,
			&l.Turnovers, &l.Fouls, &l.FGM, &l.FGA, &l.TPM, &l.TPA, &l.FTM, &l.FTA,
			&l.PlusMinus, &l.TrueShooting, &l.EffectiveFG, &l.UsageRate, &l.PER,
			&l.PlayerName, &l.TeamName)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *GameRepository) PlayByPlay(ctx context.Context, gameID string) ([]domain.PlayByPlayEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, quarter, seq, elapsed, clock, event_type, description,
			COALESCE(team_id, ''), COALESCE(player_id, ''), points, home_score, away_score
		 FROM play_by_play WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query play-by-play: %w", err)
	}
	defer rows.Close()

	var events []domain.PlayByPlayEvent
	for rows.Next() {
		var ev domain.PlayByPlayEvent
		err := rows.Scan(&ev.ID, &ev.GameID, &ev.Quarter, &ev.Seq, &ev.Elapsed, &ev.Clock,
			&ev.EventType, &ev.Description, &ev.TeamID, &ev.PlayerID, &ev.Points,
			&ev.HomeScore, &ev.AwayScore)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Delete removes a game with its stat lines and play-by-play, writing the
// reverted series and run rows in the same transaction.
func (r *GameRepository) Delete(ctx context.Context, gameID string,
	series *domain.Series, run *domain.Run) error {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM play_by_play WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete play-by-play: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM stat_lines WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete stat lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if series != nil {
		if err := updateSeriesTx(ctx, tx, series); err != nil {
			return err
		}
	}
	if run != nil {
		if err := updateRunTx(ctx, tx, run); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
