package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrBustEventNotFound   = errors.New("bust event not found")
	ErrBustEventInvalidRef = errors.New("invalid tournament or player reference for bust event")
)

type BustEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, b *models.BustEvent) error
	GetLastByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.BustEvent, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.BustEvent, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresBustEventRepository struct {
	db *sql.DB
}

func NewPostgresBustEventRepository(db *sql.DB) BustEventRepository {
	return &postgresBustEventRepository{db: db}
}

func (r *postgresBustEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bustEventColumns = `
	id, tournament_id, eliminated_player_id, killer_player_id,
	level, recave_applied, created_at`

func scanBustEvent(rowScanner interface{ Scan(...interface{}) error }) (*models.BustEvent, error) {
	b := &models.BustEvent{}
	err := rowScanner.Scan(
		&b.ID, &b.TournamentID, &b.EliminatedPlayerID, &b.KillerPlayerID,
		&b.Level, &b.RecaveApplied, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBustEventNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBustEventRepository) Create(ctx context.Context, exec SQLExecutor, b *models.BustEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bust_events (tournament_id, eliminated_player_id, killer_player_id, level, recave_applied)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		b.TournamentID, b.EliminatedPlayerID, b.KillerPlayerID, b.Level, b.RecaveApplied,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrBustEventInvalidRef
		}
		return err
	}
	return nil
}

func (r *postgresBustEventRepository) GetLastByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.BustEvent, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + bustEventColumns + `
		FROM bust_events
		WHERE tournament_id = $1
		ORDER BY id DESC
		LIMIT 1`
	return scanBustEvent(executor.QueryRowContext(ctx, query, tournamentID))
}

func (r *postgresBustEventRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.BustEvent, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + bustEventColumns + ` FROM bust_events WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.BustEvent, 0)
	for rows.Next() {
		b, scanErr := scanBustEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresBustEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM bust_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBustEventNotFound)
}
