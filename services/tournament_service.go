package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

type CreateTournamentInput struct {
	SeasonID      int                 `json:"season_id"`
	Name          string              `json:"name"`
	RebuyEndLevel *int                `json:"rebuy_end_level,omitempty"`
	Levels        []models.BlindLevel `json:"levels,omitempty"`
}

type UpdateTournamentInput struct {
	Name          *string                  `json:"name,omitempty"`
	Status        *models.TournamentStatus `json:"status,omitempty"`
	RebuyEndLevel *int                     `json:"rebuy_end_level,omitempty"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	SetBlindLevels(ctx context.Context, tournamentID int, levels []models.BlindLevel) ([]models.BlindLevel, error)
	EnrollPlayer(ctx context.Context, tournamentID, playerID int) (*models.TournamentPlayer, error)
	DeleteTournament(ctx context.Context, id int) error
}

type tournamentService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	seasonRepo     repositories.SeasonRepository
	levelRepo      repositories.BlindLevelRepository
	playerRepo     repositories.TournamentPlayerRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	seasonRepo repositories.SeasonRepository,
	levelRepo repositories.BlindLevelRepository,
	playerRepo repositories.TournamentPlayerRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		seasonRepo:     seasonRepo,
		levelRepo:      levelRepo,
		playerRepo:     playerRepo,
		logger:         logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.RebuyEndLevel != nil && *input.RebuyEndLevel < 1 {
		return nil, fmt.Errorf("%w: rebuy end level must be positive", ErrValidationFailed)
	}
	if len(input.Levels) > 0 {
		if err := validateBlindLevels(input.Levels); err != nil {
			return nil, err
		}
	}

	if _, err := s.seasonRepo.GetByID(ctx, nil, input.SeasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}

	tournament := &models.Tournament{
		SeasonID:      input.SeasonID,
		Name:          input.Name,
		Status:        models.StatusPlanned,
		RebuyEndLevel: input.RebuyEndLevel,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, s.mapTournamentError(err)
	}
	if len(input.Levels) > 0 {
		err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			return s.levelRepo.ReplaceForTournament(ctx, exec, tournament.ID, input.Levels)
		})
		if err != nil {
			return nil, err
		}
		tournament.Levels = input.Levels
	}
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.mapTournamentError(err)
	}

	levels, err := s.levelRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		s.logger.Warn("failed to load blind levels", slog.Int("tournament_id", id), slog.Any("error", err))
	} else {
		tournament.Levels = levels
	}

	players, err := s.playerRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		s.logger.Warn("failed to load tournament players", slog.Int("tournament_id", id), slog.Any("error", err))
	} else {
		tournament.Players = make([]models.TournamentPlayer, 0, len(players))
		for _, p := range players {
			tournament.Players = append(tournament.Players, *p)
		}
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.mapTournamentError(err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
		}
		tournament.Name = *input.Name
	}
	if input.Status != nil {
		if !isValidStatusTransition(tournament.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, tournament.Status, *input.Status)
		}
		tournament.Status = *input.Status
	}
	if input.RebuyEndLevel != nil {
		if *input.RebuyEndLevel < 1 {
			return nil, fmt.Errorf("%w: rebuy end level must be positive", ErrValidationFailed)
		}
		tournament.RebuyEndLevel = input.RebuyEndLevel
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, s.mapTournamentError(err)
	}
	return tournament, nil
}

// SetBlindLevels заменяет структуру уровней целиком. После старта турнира
// структура заморожена: от неё зависит производный уровень часов.
func (s *tournamentService) SetBlindLevels(ctx context.Context, tournamentID int, levels []models.BlindLevel) ([]models.BlindLevel, error) {
	if err := validateBlindLevels(levels); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, s.mapTournamentError(err)
	}
	if tournament.Status != models.StatusPlanned && tournament.Status != models.StatusRegistration {
		return nil, ErrBlindStructureFrozen
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.levelRepo.ReplaceForTournament(ctx, exec, tournamentID, levels)
	})
	if err != nil {
		return nil, err
	}
	return levels, nil
}

func (s *tournamentService) EnrollPlayer(ctx context.Context, tournamentID, playerID int) (*models.TournamentPlayer, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, s.mapTournamentError(err)
	}
	if tournament.Status != models.StatusPlanned && tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationClosed
	}

	tp := &models.TournamentPlayer{TournamentID: tournamentID, PlayerID: playerID}
	if err := s.playerRepo.Create(ctx, tp); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentPlayerConflict):
			return nil, ErrEnrollmentConflict
		case errors.Is(err, repositories.ErrTournamentPlayerInvalidRef):
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return tp, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return s.mapTournamentError(err)
	}
	return nil
}

func (s *tournamentService) mapTournamentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTournamentInvalidSeason):
		return ErrSeasonNotFound
	}
	return err
}
