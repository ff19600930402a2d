package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerEmailConflict    = errors.New("email address is already in use")
	ErrPlayerNicknameConflict = errors.New("nickname is already in use")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	ListByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	executor := r.getExecutor(nil)
	query := `
		INSERT INTO players (nickname, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, p.Nickname, p.Email, p.PasswordHash, p.Role).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "players_email_key":
				return ErrPlayerEmailConflict
			case "players_nickname_key":
				return ErrPlayerNicknameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, nickname, email, password_hash, role, created_at FROM players WHERE id = $1`

	p := &models.Player{}
	err := executor.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Nickname, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	executor := r.getExecutor(nil)
	query := `SELECT id, nickname, email, password_hash, role, created_at FROM players WHERE email = $1`

	p := &models.Player{}
	err := executor.QueryRowContext(ctx, query, email).
		Scan(&p.ID, &p.Nickname, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error) {
	players := make(map[int]*models.Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	executor := r.getExecutor(nil)
	query := `SELECT id, nickname, email, password_hash, role, created_at FROM players WHERE id = ANY($1)`

	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := &models.Player{}
		if scanErr := rows.Scan(&p.ID, &p.Nickname, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players[p.ID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
