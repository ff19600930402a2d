package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrBlindLevelNotFound          = errors.New("blind level not found")
	ErrBlindLevelInvalidTournament = errors.New("invalid tournament reference for blind level")
	ErrBlindLevelConflict          = errors.New("duplicate level number for this tournament")
)

type BlindLevelRepository interface {
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, levels []models.BlindLevel) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.BlindLevel, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
}

type postgresBlindLevelRepository struct {
	db *sql.DB
}

func NewPostgresBlindLevelRepository(db *sql.DB) BlindLevelRepository {
	return &postgresBlindLevelRepository{db: db}
}

func (r *postgresBlindLevelRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForTournament заменяет структуру уровней целиком. Вызывается внутри
// транзакции сервисного слоя: удаление и вставка должны быть атомарны.
func (r *postgresBlindLevelRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, levels []models.BlindLevel) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM blind_levels WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear blind levels for tournament %d: %w", tournamentID, err)
	}

	query := `
		INSERT INTO blind_levels (tournament_id, level, small_blind, big_blind, ante, duration_minutes, is_break)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	for i := range levels {
		lvl := &levels[i]
		lvl.TournamentID = tournamentID
		err := executor.QueryRowContext(ctx, query,
			tournamentID, lvl.Level, lvl.SmallBlind, lvl.BigBlind, lvl.Ante, lvl.DurationMinutes, lvl.IsBreak,
		).Scan(&lvl.ID)
		if err != nil {
			return r.handleBlindLevelError(err)
		}
	}
	return nil
}

func (r *postgresBlindLevelRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.BlindLevel, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, level, small_blind, big_blind, ante, duration_minutes, is_break
		FROM blind_levels
		WHERE tournament_id = $1
		ORDER BY level ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]models.BlindLevel, 0)
	for rows.Next() {
		var lvl models.BlindLevel
		if scanErr := rows.Scan(
			&lvl.ID, &lvl.TournamentID, &lvl.Level, &lvl.SmallBlind, &lvl.BigBlind,
			&lvl.Ante, &lvl.DurationMinutes, &lvl.IsBreak,
		); scanErr != nil {
			return nil, scanErr
		}
		levels = append(levels, lvl)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *postgresBlindLevelRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM blind_levels WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresBlindLevelRepository) handleBlindLevelError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrBlindLevelConflict
		case "23503":
			return ErrBlindLevelInvalidTournament
		}
	}
	return err
}
