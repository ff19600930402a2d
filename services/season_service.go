package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

type SeasonService interface {
	CreateSeason(ctx context.Context, season *models.Season) (*models.Season, error)
	GetSeasonByID(ctx context.Context, id int) (*models.Season, error)
	ListSeasons(ctx context.Context) ([]models.Season, error)
	UpdateSeason(ctx context.Context, id int, season *models.Season) (*models.Season, error)
	DeleteSeason(ctx context.Context, id int) error
}

type seasonService struct {
	seasonRepo repositories.SeasonRepository
}

func NewSeasonService(seasonRepo repositories.SeasonRepository) SeasonService {
	return &seasonService{seasonRepo: seasonRepo}
}

func (s *seasonService) CreateSeason(ctx context.Context, season *models.Season) (*models.Season, error) {
	if err := validateSeasonConfig(season); err != nil {
		return nil, err
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		return nil, s.mapSeasonError(err)
	}
	return season, nil
}

func (s *seasonService) GetSeasonByID(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.mapSeasonError(err)
	}
	return season, nil
}

func (s *seasonService) ListSeasons(ctx context.Context) ([]models.Season, error) {
	return s.seasonRepo.List(ctx)
}

func (s *seasonService) UpdateSeason(ctx context.Context, id int, season *models.Season) (*models.Season, error) {
	if err := validateSeasonConfig(season); err != nil {
		return nil, err
	}
	season.ID = id
	if err := s.seasonRepo.Update(ctx, season); err != nil {
		return nil, s.mapSeasonError(err)
	}
	return season, nil
}

func (s *seasonService) DeleteSeason(ctx context.Context, id int) error {
	if err := s.seasonRepo.Delete(ctx, id); err != nil {
		return s.mapSeasonError(err)
	}
	return nil
}

// validateSeasonConfig проверяет согласованность конфигурации подсчёта.
// Сами значения очков не ограничиваются: отрицательные штрафы — норма.
func validateSeasonConfig(season *models.Season) error {
	if season.Name == "" {
		return fmt.Errorf("%w: season name is required", ErrValidationFailed)
	}
	if season.BestTournamentsCount != nil && *season.BestTournamentsCount < 1 {
		return fmt.Errorf("%w: best tournaments count must be positive", ErrSeasonConfigInvalid)
	}
	if season.FreeRebuysCount < 0 {
		return fmt.Errorf("%w: free rebuys count cannot be negative", ErrSeasonConfigInvalid)
	}
	prev := 0
	for i, rule := range season.RebuyPenaltyRules {
		if rule.FromRebuys < 1 {
			return fmt.Errorf("%w: rebuy penalty rule %d has non-positive threshold", ErrSeasonConfigInvalid, i)
		}
		if i > 0 && rule.FromRebuys <= prev {
			return fmt.Errorf("%w: rebuy penalty thresholds must be strictly ascending", ErrSeasonConfigInvalid)
		}
		if rule.PenaltyPoints > 0 {
			return fmt.Errorf("%w: penalty points must not be positive", ErrSeasonConfigInvalid)
		}
		prev = rule.FromRebuys
	}
	return nil
}

func (s *seasonService) mapSeasonError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSeasonNotFound):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrSeasonNameConflict):
		return ErrSeasonNameConflict
	}
	return err
}
