package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentPlayerNotFound   = errors.New("tournament player not found")
	ErrTournamentPlayerConflict   = errors.New("player is already registered for this tournament")
	ErrTournamentPlayerInvalidRef = errors.New("invalid tournament or player reference")

	// ErrStaleRebuysCount возвращается оптимистичным апдейтом счётчика
	// ребаев, когда сохранённое значение уже не равно прочитанному.
	ErrStaleRebuysCount = errors.New("rebuys count was modified concurrently")
)

type TournamentPlayerRepository interface {
	Create(ctx context.Context, tp *models.TournamentPlayer) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentPlayer, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentPlayer, error)
	UpdateCounters(ctx context.Context, exec SQLExecutor, tp *models.TournamentPlayer) error
	UpdateScores(ctx context.Context, exec SQLExecutor, id int, rankPoints, eliminationPoints, bonusPoints, totalPoints int) error
	SetFinalRank(ctx context.Context, exec SQLExecutor, id int, finalRank *int) error
	UpdateRebuysCountIf(ctx context.Context, exec SQLExecutor, id, expectedCount, newCount, newPenalty int) error
	GetLatestWithRebuys(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.TournamentPlayer, error)
}

type postgresTournamentPlayerRepository struct {
	db *sql.DB
}

func NewPostgresTournamentPlayerRepository(db *sql.DB) TournamentPlayerRepository {
	return &postgresTournamentPlayerRepository{db: db}
}

func (r *postgresTournamentPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentPlayerColumns = `
	id, tournament_id, player_id,
	rebuys_count, eliminations_count, bust_eliminations, leader_kills,
	final_rank, penalty_points,
	rank_points, elimination_points, bonus_points, total_points,
	created_at, updated_at`

func scanTournamentPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.TournamentPlayer, error) {
	tp := &models.TournamentPlayer{}
	err := rowScanner.Scan(
		&tp.ID, &tp.TournamentID, &tp.PlayerID,
		&tp.RebuysCount, &tp.EliminationsCount, &tp.BustEliminations, &tp.LeaderKills,
		&tp.FinalRank, &tp.PenaltyPoints,
		&tp.RankPoints, &tp.EliminationPoints, &tp.BonusPoints, &tp.TotalPoints,
		&tp.CreatedAt, &tp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentPlayerNotFound
		}
		return nil, err
	}
	return tp, nil
}

func (r *postgresTournamentPlayerRepository) Create(ctx context.Context, tp *models.TournamentPlayer) error {
	executor := r.getExecutor(nil)
	query := `
		INSERT INTO tournament_players (tournament_id, player_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query, tp.TournamentID, tp.PlayerID).
		Scan(&tp.ID, &tp.CreatedAt, &tp.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrTournamentPlayerConflict
			case "23503":
				return ErrTournamentPlayerInvalidRef
			}
		}
		return err
	}
	return nil
}

func (r *postgresTournamentPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentPlayer, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentPlayerColumns + ` FROM tournament_players WHERE id = $1`
	return scanTournamentPlayer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentPlayerRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentPlayer, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentPlayerColumns + ` FROM tournament_players WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.TournamentPlayer, 0)
	for rows.Next() {
		tp, scanErr := scanTournamentPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, tp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

// UpdateCounters пишет счётчики выбиваний и штраф; очковые поля трогает
// только UpdateScores, их пересчитывает агрегатор сезона.
func (r *postgresTournamentPlayerRepository) UpdateCounters(ctx context.Context, exec SQLExecutor, tp *models.TournamentPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournament_players SET
			rebuys_count = $1,
			eliminations_count = $2,
			bust_eliminations = $3,
			leader_kills = $4,
			penalty_points = $5,
			updated_at = NOW()
		WHERE id = $6`
	result, err := executor.ExecContext(ctx, query,
		tp.RebuysCount, tp.EliminationsCount, tp.BustEliminations, tp.LeaderKills,
		tp.PenaltyPoints, tp.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentPlayerNotFound)
}

func (r *postgresTournamentPlayerRepository) UpdateScores(ctx context.Context, exec SQLExecutor, id int, rankPoints, eliminationPoints, bonusPoints, totalPoints int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournament_players SET
			rank_points = $1,
			elimination_points = $2,
			bonus_points = $3,
			total_points = $4,
			updated_at = NOW()
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query, rankPoints, eliminationPoints, bonusPoints, totalPoints, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentPlayerNotFound)
}

func (r *postgresTournamentPlayerRepository) SetFinalRank(ctx context.Context, exec SQLExecutor, id int, finalRank *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournament_players SET final_rank = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, finalRank, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentPlayerNotFound)
}

// UpdateRebuysCountIf — оптимистичный апдейт: строка меняется только если
// rebuys_count всё ещё равен значению, из которого считали новое состояние.
// Ноль затронутых строк означает гонку, а не отсутствие записи.
func (r *postgresTournamentPlayerRepository) UpdateRebuysCountIf(ctx context.Context, exec SQLExecutor, id, expectedCount, newCount, newPenalty int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournament_players SET
			rebuys_count = $1,
			penalty_points = $2,
			updated_at = NOW()
		WHERE id = $3 AND rebuys_count = $4`
	result, err := executor.ExecContext(ctx, query, newCount, newPenalty, id, expectedCount)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStaleRebuysCount)
}

func (r *postgresTournamentPlayerRepository) GetLatestWithRebuys(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.TournamentPlayer, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentPlayerColumns + `
		FROM tournament_players
		WHERE tournament_id = $1 AND rebuys_count > 0
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`
	return scanTournamentPlayer(executor.QueryRowContext(ctx, query, tournamentID))
}
