package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonNameConflict = errors.New("season name is already in use")
	ErrSeasonInUse        = errors.New("season is in use (tournaments exist)")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error)
	List(ctx context.Context) ([]models.Season, error)
	Update(ctx context.Context, season *models.Season) error
	Delete(ctx context.Context, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const seasonColumns = `
	id, name,
	points_first, points_second, points_third, points_fourth, points_fifth,
	points_sixth, points_seventh, points_eighth, points_ninth, points_tenth,
	points_eleventh, points_sixteenth,
	elimination_points, bust_elimination_bonus, leader_killer_bonus,
	free_rebuys_count, rebuy_tier1_penalty, rebuy_tier2_penalty, rebuy_tier3_penalty,
	best_tournaments_count, detailed_points_config, rebuy_penalty_rules,
	created_at`

func scanSeason(rowScanner interface{ Scan(...interface{}) error }) (*models.Season, error) {
	s := &models.Season{}
	var detailed sql.Null[models.DetailedPointsConfig]
	err := rowScanner.Scan(
		&s.ID, &s.Name,
		&s.PointsFirst, &s.PointsSecond, &s.PointsThird, &s.PointsFourth, &s.PointsFifth,
		&s.PointsSixth, &s.PointsSeventh, &s.PointsEighth, &s.PointsNinth, &s.PointsTenth,
		&s.PointsEleventh, &s.PointsSixteenth,
		&s.EliminationPoints, &s.BustEliminationBonus, &s.LeaderKillerBonus,
		&s.FreeRebuysCount, &s.RebuyTier1Penalty, &s.RebuyTier2Penalty, &s.RebuyTier3Penalty,
		&s.BestTournamentsCount, &detailed, &s.RebuyPenaltyRules,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	if detailed.Valid {
		cfg := detailed.V
		s.DetailedPointsConfig = &cfg
	}
	return s, nil
}

func (r *postgresSeasonRepository) Create(ctx context.Context, s *models.Season) error {
	executor := r.getExecutor(nil)
	query := `
		INSERT INTO seasons (
			name,
			points_first, points_second, points_third, points_fourth, points_fifth,
			points_sixth, points_seventh, points_eighth, points_ninth, points_tenth,
			points_eleventh, points_sixteenth,
			elimination_points, bust_elimination_bonus, leader_killer_bonus,
			free_rebuys_count, rebuy_tier1_penalty, rebuy_tier2_penalty, rebuy_tier3_penalty,
			best_tournaments_count, detailed_points_config, rebuy_penalty_rules
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		s.Name,
		s.PointsFirst, s.PointsSecond, s.PointsThird, s.PointsFourth, s.PointsFifth,
		s.PointsSixth, s.PointsSeventh, s.PointsEighth, s.PointsNinth, s.PointsTenth,
		s.PointsEleventh, s.PointsSixteenth,
		s.EliminationPoints, s.BustEliminationBonus, s.LeaderKillerBonus,
		s.FreeRebuysCount, s.RebuyTier1Penalty, s.RebuyTier2Penalty, s.RebuyTier3Penalty,
		s.BestTournamentsCount, s.DetailedPointsConfig, s.RebuyPenaltyRules,
	).Scan(&s.ID, &s.CreatedAt)

	return r.handleSeasonError(err)
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + seasonColumns + ` FROM seasons WHERE id = $1`
	return scanSeason(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresSeasonRepository) List(ctx context.Context) ([]models.Season, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + seasonColumns + ` FROM seasons ORDER BY created_at DESC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := make([]models.Season, 0)
	for rows.Next() {
		s, scanErr := scanSeason(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		seasons = append(seasons, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (r *postgresSeasonRepository) Update(ctx context.Context, s *models.Season) error {
	executor := r.getExecutor(nil)
	query := `
		UPDATE seasons SET
			name = $1,
			points_first = $2, points_second = $3, points_third = $4, points_fourth = $5, points_fifth = $6,
			points_sixth = $7, points_seventh = $8, points_eighth = $9, points_ninth = $10, points_tenth = $11,
			points_eleventh = $12, points_sixteenth = $13,
			elimination_points = $14, bust_elimination_bonus = $15, leader_killer_bonus = $16,
			free_rebuys_count = $17, rebuy_tier1_penalty = $18, rebuy_tier2_penalty = $19, rebuy_tier3_penalty = $20,
			best_tournaments_count = $21, detailed_points_config = $22, rebuy_penalty_rules = $23
		WHERE id = $24`

	result, err := executor.ExecContext(ctx, query,
		s.Name,
		s.PointsFirst, s.PointsSecond, s.PointsThird, s.PointsFourth, s.PointsFifth,
		s.PointsSixth, s.PointsSeventh, s.PointsEighth, s.PointsNinth, s.PointsTenth,
		s.PointsEleventh, s.PointsSixteenth,
		s.EliminationPoints, s.BustEliminationBonus, s.LeaderKillerBonus,
		s.FreeRebuysCount, s.RebuyTier1Penalty, s.RebuyTier2Penalty, s.RebuyTier3Penalty,
		s.BestTournamentsCount, s.DetailedPointsConfig, s.RebuyPenaltyRules,
		s.ID,
	)
	if err != nil {
		return r.handleSeasonError(err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, id int) error {
	executor := r.getExecutor(nil)
	result, err := executor.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		return r.handleSeasonError(err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) handleSeasonError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrSeasonNameConflict
		case "23503":
			return ErrSeasonInUse
		}
	}
	return err
}
