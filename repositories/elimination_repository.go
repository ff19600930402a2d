package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrEliminationNotFound   = errors.New("elimination not found")
	ErrEliminationInvalidRef = errors.New("invalid tournament or player reference for elimination")
)

type EliminationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, e *models.Elimination) error
	GetLastByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Elimination, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Elimination, error)
	ExistsCreatedAfter(ctx context.Context, exec SQLExecutor, tournamentID int, after time.Time) (bool, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresEliminationRepository struct {
	db *sql.DB
}

func NewPostgresEliminationRepository(db *sql.DB) EliminationRepository {
	return &postgresEliminationRepository{db: db}
}

func (r *postgresEliminationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const eliminationColumns = `
	id, tournament_id, eliminator_player_id, eliminated_player_id,
	rank, level, is_leader_kill, created_at`

func scanElimination(rowScanner interface{ Scan(...interface{}) error }) (*models.Elimination, error) {
	e := &models.Elimination{}
	err := rowScanner.Scan(
		&e.ID, &e.TournamentID, &e.EliminatorPlayerID, &e.EliminatedPlayerID,
		&e.Rank, &e.Level, &e.IsLeaderKill, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEliminationNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresEliminationRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Elimination) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO eliminations (tournament_id, eliminator_player_id, eliminated_player_id, rank, level, is_leader_kill)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		e.TournamentID, e.EliminatorPlayerID, e.EliminatedPlayerID, e.Rank, e.Level, e.IsLeaderKill,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrEliminationInvalidRef
		}
		return err
	}
	return nil
}

func (r *postgresEliminationRepository) GetLastByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Elimination, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + eliminationColumns + `
		FROM eliminations
		WHERE tournament_id = $1
		ORDER BY id DESC
		LIMIT 1`
	return scanElimination(executor.QueryRowContext(ctx, query, tournamentID))
}

func (r *postgresEliminationRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Elimination, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + eliminationColumns + ` FROM eliminations WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	eliminations := make([]models.Elimination, 0)
	for rows.Next() {
		e, scanErr := scanElimination(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		eliminations = append(eliminations, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return eliminations, nil
}

func (r *postgresEliminationRepository) ExistsCreatedAfter(ctx context.Context, exec SQLExecutor, tournamentID int, after time.Time) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM eliminations WHERE tournament_id = $1 AND created_at > $2)`
	if err := executor.QueryRowContext(ctx, query, tournamentID, after).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresEliminationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM eliminations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEliminationNotFound)
}
