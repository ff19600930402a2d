package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/poker-league/blinds"
	"github.com/Dosada05/poker-league/live"
	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

// ClockView — снимок часов турнира для чтения. Собирается без блокировок:
// уровень каждый раз выводится заново, так что устаревший снимок безопасен.
type ClockView struct {
	blinds.ClockState
	RebuysOpen   bool               `json:"rebuys_open"`
	CurrentLevel *models.BlindLevel `json:"current_level,omitempty"`
}

type TimerService interface {
	Start(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Pause(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Resume(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Reset(ctx context.Context, tournamentID int) (*models.Tournament, error)
	ClockState(ctx context.Context, tournamentID int) (*ClockView, error)
	ScheduleAutoResume(tournamentID int, delay time.Duration)
}

type timerService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	levelRepo      repositories.BlindLevelRepository
	hub            EventBroadcaster
	logger         *slog.Logger
	now            func() time.Time
}

type TimerOption func(*timerService)

// WithTimerClock подменяет источник времени (для тестов).
func WithTimerClock(now func() time.Time) TimerOption {
	return func(s *timerService) { s.now = now }
}

func NewTimerService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	levelRepo repositories.BlindLevelRepository,
	hub EventBroadcaster,
	logger *slog.Logger,
	opts ...TimerOption,
) TimerService {
	s := &timerService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		levelRepo:      levelRepo,
		hub:            hub,
		logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start запускает часы из состояния Idle: требует хотя бы один уровень
// блайндов, переводит турнир в in_progress. Повторный запуск работающего
// таймера — конфликт состояния, а не тихий no-op.
func (s *timerService) Start(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var tournament *models.Tournament

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.getTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if t.Status == models.StatusFinished || t.Status == models.StatusCancelled {
			return ErrTournamentFinished
		}
		if t.TimerRunning() {
			return ErrTimerAlreadyRunning
		}

		count, err := s.levelRepo.CountByTournament(ctx, exec, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count blind levels: %w", err)
		}
		if count == 0 {
			return ErrBlindLevelsRequired
		}

		now := s.now()
		t.TimerStartedAt = &now
		t.TimerPausedAt = nil
		if err := s.tournamentRepo.UpdateTimerState(ctx, exec, t.ID, t.TimerStartedAt, nil, t.TimerElapsedSeconds); err != nil {
			return err
		}
		if t.Status != models.StatusInProgress {
			if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.StatusInProgress); err != nil {
				return err
			}
			t.Status = models.StatusInProgress
		}
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventTimerStarted, map[string]interface{}{
		"started_at": tournament.TimerStartedAt,
		"level":      1,
	})
	return tournament, nil
}

// Pause замораживает часы: дельта с момента запуска досчитывается в
// TimerElapsedSeconds, и только это накопленное значение попадает в БД.
func (s *timerService) Pause(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var tournament *models.Tournament

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.getTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if !t.TimerRunning() {
			return ErrTimerNotRunning
		}

		now := s.now()
		delta := int(now.Sub(*t.TimerStartedAt).Seconds())
		if delta > 0 {
			t.TimerElapsedSeconds += delta
		}
		t.TimerStartedAt = nil
		t.TimerPausedAt = &now
		if err := s.tournamentRepo.UpdateTimerState(ctx, exec, t.ID, nil, t.TimerPausedAt, t.TimerElapsedSeconds); err != nil {
			return err
		}
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventTimerPaused, map[string]interface{}{
		"elapsed_seconds": tournament.TimerElapsedSeconds,
	})
	return tournament, nil
}

// Resume продолжает отсчёт с места паузы; накопленные секунды не трогаются.
func (s *timerService) Resume(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var tournament *models.Tournament

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.getTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if t.TimerPausedAt == nil {
			return ErrTimerNotPaused
		}

		now := s.now()
		t.TimerStartedAt = &now
		t.TimerPausedAt = nil
		if err := s.tournamentRepo.UpdateTimerState(ctx, exec, t.ID, t.TimerStartedAt, nil, t.TimerElapsedSeconds); err != nil {
			return err
		}
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventTimerResumed, map[string]interface{}{
		"elapsed_seconds": tournament.TimerElapsedSeconds,
	})
	return tournament, nil
}

// Reset возвращает часы и турнир в исходное состояние planned.
// Завершённый турнир сбросить нельзя.
func (s *timerService) Reset(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var tournament *models.Tournament

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.getTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if t.Status == models.StatusFinished {
			return ErrTournamentFinished
		}

		t.TimerStartedAt = nil
		t.TimerPausedAt = nil
		t.TimerElapsedSeconds = 0
		if err := s.tournamentRepo.UpdateTimerState(ctx, exec, t.ID, nil, nil, 0); err != nil {
			return err
		}
		if t.Status != models.StatusPlanned {
			if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.StatusPlanned); err != nil {
				return err
			}
			t.Status = models.StatusPlanned
		}
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventTimerReset, map[string]interface{}{"level": 1})
	return tournament, nil
}

// ClockState — lock-free чтение производного состояния часов.
func (s *timerService) ClockState(ctx context.Context, tournamentID int) (*ClockView, error) {
	t, err := s.getTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	levels, err := s.levelRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blind levels: %w", err)
	}

	state := blinds.DeriveLevel(t.TimerStartedAt, t.TimerPausedAt, t.TimerElapsedSeconds, levels, s.now())
	view := &ClockView{
		ClockState: state,
		RebuysOpen: blinds.RebuysOpen(t.Status, state.Level, t.RebuyEndLevel, state.IsBreak),
	}
	for i := range levels {
		if levels[i].Level == state.Level {
			view.CurrentLevel = &levels[i]
			break
		}
	}
	return view, nil
}

// ScheduleAutoResume объявляет обратный отсчёт и возобновляет таймер одним
// отложенным срабатыванием. Если человек возобновил часы раньше, отложенный
// Resume упрётся в ErrTimerNotPaused и безвредно погаснет.
func (s *timerService) ScheduleAutoResume(tournamentID int, delay time.Duration) {
	resumeAt := s.now().Add(delay)
	s.hub.BroadcastToTournament(tournamentID, live.EventTimerAutoResumeCountdown, map[string]interface{}{
		"resume_at":     resumeAt,
		"delay_seconds": int(delay.Seconds()),
	})

	time.AfterFunc(delay, func() {
		if _, err := s.Resume(context.Background(), tournamentID); err != nil {
			if errors.Is(err, ErrTimerNotPaused) {
				return // кто-то успел возобновить вручную
			}
			s.logger.Error("auto-resume failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	})
}

func (s *timerService) getTournament(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, exec, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}
