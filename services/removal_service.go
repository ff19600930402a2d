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
	"github.com/Dosada05/poker-league/scoring"
)

type RecordBustInput struct {
	TournamentID       int  `json:"tournament_id"`
	EliminatedPlayerID int  `json:"eliminated_player_id"`
	KillerPlayerID     *int `json:"killer_player_id,omitempty"`
	ApplyRecave        bool `json:"apply_recave"`
}

type RecordEliminationInput struct {
	TournamentID       int  `json:"tournament_id"`
	EliminatorPlayerID int  `json:"eliminator_player_id"`
	EliminatedPlayerID int  `json:"eliminated_player_id"`
	Rank               int  `json:"rank"`
	IsLeaderKill       bool `json:"is_leader_kill"`
}

// RemovalService ведёт журнал выбываний турнира: бысты (временные, в окне
// ребаев) и элиминации (окончательные). Каждая операция — одна атомарная
// транзакция; отмены строго LIFO — откатить можно только самое свежее
// событие своего вида, потому что события тянут за собой счётчики других
// игроков, и отмена из середины истории сделала бы их невосстановимыми без
// полного реплея журнала.
type RemovalService interface {
	RecordBust(ctx context.Context, input RecordBustInput) (*models.BustEvent, error)
	UndoLastBust(ctx context.Context, tournamentID int) (*models.BustEvent, error)
	RecordElimination(ctx context.Context, input RecordEliminationInput) (*models.Elimination, error)
	UndoLastElimination(ctx context.Context, tournamentID int) (*models.Elimination, error)
	UndoLastRebuy(ctx context.Context, tournamentID int) (*models.TournamentPlayer, error)
}

type removalService struct {
	tx              TxRunner
	tournamentRepo  repositories.TournamentRepository
	levelRepo       repositories.BlindLevelRepository
	playerRepo      repositories.TournamentPlayerRepository
	bustRepo        repositories.BustEventRepository
	eliminationRepo repositories.EliminationRepository
	seasonRepo      repositories.SeasonRepository
	timer           TimerService
	hub             EventBroadcaster
	logger          *slog.Logger
	now             func() time.Time

	// Пауза после выбывания с автоподъёмом; 0 отключает поведение.
	autoResumeDelay time.Duration
}

type RemovalOption func(*removalService)

func WithRemovalClock(now func() time.Time) RemovalOption {
	return func(s *removalService) { s.now = now }
}

// WithAutoResumeDelay включает автопаузу часов после быста или элиминации
// с автоматическим возобновлением через delay.
func WithAutoResumeDelay(delay time.Duration) RemovalOption {
	return func(s *removalService) { s.autoResumeDelay = delay }
}

func NewRemovalService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	levelRepo repositories.BlindLevelRepository,
	playerRepo repositories.TournamentPlayerRepository,
	bustRepo repositories.BustEventRepository,
	eliminationRepo repositories.EliminationRepository,
	seasonRepo repositories.SeasonRepository,
	timer TimerService,
	hub EventBroadcaster,
	logger *slog.Logger,
	opts ...RemovalOption,
) RemovalService {
	s := &removalService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		levelRepo:       levelRepo,
		playerRepo:      playerRepo,
		bustRepo:        bustRepo,
		eliminationRepo: eliminationRepo,
		seasonRepo:      seasonRepo,
		timer:           timer,
		hub:             hub,
		logger:          logger,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordBust фиксирует временный вылет. Допустим только при открытом окне
// ребаев; итоговое место не присваивается. Если в том же вызове применён
// ребай, инкремент счётчика и пересчёт штрафа происходят в той же
// транзакции, что и создание события.
func (s *removalService) RecordBust(ctx context.Context, input RecordBustInput) (*models.BustEvent, error) {
	var bust *models.BustEvent
	recaveApplied := false

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, season, err := s.getTournamentWithSeason(ctx, exec, input.TournamentID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusInProgress {
			return ErrTournamentNotInProgress
		}

		levels, err := s.levelRepo.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return fmt.Errorf("failed to list blind levels: %w", err)
		}
		clock := blinds.DeriveLevel(t.TimerStartedAt, t.TimerPausedAt, t.TimerElapsedSeconds, levels, s.now())
		if !blinds.RebuysOpen(t.Status, clock.Level, t.RebuyEndLevel, clock.IsBreak) {
			return ErrRebuysClosed
		}

		eliminated, err := s.getEnrollment(ctx, exec, t.ID, input.EliminatedPlayerID)
		if err != nil {
			return err
		}
		if eliminated.FinalRank != nil {
			return ErrPlayerAlreadyEliminated
		}

		bust = &models.BustEvent{
			TournamentID:       t.ID,
			EliminatedPlayerID: eliminated.ID,
			KillerPlayerID:     input.KillerPlayerID,
			Level:              clock.Level,
			RecaveApplied:      input.ApplyRecave,
		}
		if err := s.bustRepo.Create(ctx, exec, bust); err != nil {
			return err
		}

		if input.ApplyRecave {
			eliminated.RebuysCount++
			eliminated.PenaltyPoints = scoring.RebuyPenalty(eliminated.RebuysCount, season)
			if err := s.playerRepo.UpdateCounters(ctx, exec, eliminated); err != nil {
				return err
			}
			recaveApplied = true
		}

		if input.KillerPlayerID != nil {
			killer, err := s.getEnrollment(ctx, exec, t.ID, *input.KillerPlayerID)
			if err != nil {
				return err
			}
			// Бысты кредитуются отдельным счётчиком, не eliminations_count.
			killer.BustEliminations++
			if err := s.playerRepo.UpdateCounters(ctx, exec, killer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(input.TournamentID, live.EventBustRecorded, bust)
	if recaveApplied {
		s.hub.BroadcastToTournament(input.TournamentID, live.EventRebuyApplied, map[string]interface{}{
			"tournament_player_id": bust.EliminatedPlayerID,
		})
	}
	s.pauseWithAutoResume(ctx, input.TournamentID)
	return bust, nil
}

// UndoLastBust откатывает самый свежий быст турнира. Отмена блокируется,
// если после быста была записана элиминация или выбитый игрок уже получил
// итоговое место: откат в такой истории разошёлся бы со счётчиками.
func (s *removalService) UndoLastBust(ctx context.Context, tournamentID int) (*models.BustEvent, error) {
	var bust *models.BustEvent
	recaveReversed := false

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, season, err := s.getTournamentWithSeason(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		bust, err = s.bustRepo.GetLastByTournament(ctx, exec, t.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrBustEventNotFound) {
				return ErrNothingToUndo
			}
			return err
		}

		laterElimination, err := s.eliminationRepo.ExistsCreatedAfter(ctx, exec, t.ID, bust.CreatedAt)
		if err != nil {
			return err
		}
		if laterElimination {
			return ErrUndoBlockedByElimination
		}

		eliminated, err := s.playerRepo.GetByID(ctx, exec, bust.EliminatedPlayerID)
		if err != nil {
			return s.mapPlayerError(err)
		}
		if eliminated.FinalRank != nil {
			return ErrPlayerAlreadyEliminated
		}

		if bust.RecaveApplied {
			if eliminated.RebuysCount > 0 {
				eliminated.RebuysCount--
			}
			eliminated.PenaltyPoints = scoring.RebuyPenalty(eliminated.RebuysCount, season)
			if err := s.playerRepo.UpdateCounters(ctx, exec, eliminated); err != nil {
				return err
			}
			recaveReversed = true
		}

		if bust.KillerPlayerID != nil {
			killer, err := s.playerRepo.GetByID(ctx, exec, *bust.KillerPlayerID)
			if err != nil {
				return s.mapPlayerError(err)
			}
			if killer.BustEliminations > 0 {
				killer.BustEliminations--
			}
			if err := s.playerRepo.UpdateCounters(ctx, exec, killer); err != nil {
				return err
			}
		}

		return s.bustRepo.Delete(ctx, exec, bust.ID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventBustCancelled, bust)
	if recaveReversed {
		s.hub.BroadcastToTournament(tournamentID, live.EventRebuyCancelled, map[string]interface{}{
			"tournament_player_id": bust.EliminatedPlayerID,
		})
	}
	return bust, nil
}

// RecordElimination фиксирует окончательный вылет: итоговое место, инкремент
// счётчиков элиминатора и запись события создаются атомарно. Окно ребаев
// элиминации не касается.
func (s *removalService) RecordElimination(ctx context.Context, input RecordEliminationInput) (*models.Elimination, error) {
	if input.Rank < 1 {
		return nil, ErrRankInvalid
	}
	if input.EliminatorPlayerID == input.EliminatedPlayerID {
		return nil, fmt.Errorf("%w: player cannot eliminate themselves", ErrValidationFailed)
	}

	var elimination *models.Elimination

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.getTournament(ctx, exec, input.TournamentID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusInProgress {
			return ErrTournamentNotInProgress
		}

		levels, err := s.levelRepo.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return fmt.Errorf("failed to list blind levels: %w", err)
		}
		clock := blinds.DeriveLevel(t.TimerStartedAt, t.TimerPausedAt, t.TimerElapsedSeconds, levels, s.now())

		eliminated, err := s.getEnrollment(ctx, exec, t.ID, input.EliminatedPlayerID)
		if err != nil {
			return err
		}
		if eliminated.FinalRank != nil {
			return ErrPlayerAlreadyEliminated
		}
		eliminator, err := s.getEnrollment(ctx, exec, t.ID, input.EliminatorPlayerID)
		if err != nil {
			return err
		}

		rank := input.Rank
		if err := s.playerRepo.SetFinalRank(ctx, exec, eliminated.ID, &rank); err != nil {
			return err
		}

		eliminator.EliminationsCount++
		if input.IsLeaderKill {
			eliminator.LeaderKills++
		}
		if err := s.playerRepo.UpdateCounters(ctx, exec, eliminator); err != nil {
			return err
		}

		elimination = &models.Elimination{
			TournamentID:       t.ID,
			EliminatorPlayerID: eliminator.ID,
			EliminatedPlayerID: eliminated.ID,
			Rank:               rank,
			Level:              clock.Level,
			IsLeaderKill:       input.IsLeaderKill,
		}
		return s.eliminationRepo.Create(ctx, exec, elimination)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(input.TournamentID, live.EventEliminationRecorded, elimination)
	s.pauseWithAutoResume(ctx, input.TournamentID)
	return elimination, nil
}

// UndoLastElimination симметрично откатывает самую свежую элиминацию:
// итоговое место снимается, счётчики элиминатора декрементируются, запись
// удаляется — всё в одной транзакции.
func (s *removalService) UndoLastElimination(ctx context.Context, tournamentID int) (*models.Elimination, error) {
	var elimination *models.Elimination

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		elimination, err = s.eliminationRepo.GetLastByTournament(ctx, exec, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrEliminationNotFound) {
				return ErrNothingToUndo
			}
			return err
		}

		if err := s.playerRepo.SetFinalRank(ctx, exec, elimination.EliminatedPlayerID, nil); err != nil {
			return err
		}

		eliminator, err := s.playerRepo.GetByID(ctx, exec, elimination.EliminatorPlayerID)
		if err != nil {
			return s.mapPlayerError(err)
		}
		if eliminator.EliminationsCount > 0 {
			eliminator.EliminationsCount--
		}
		if elimination.IsLeaderKill && eliminator.LeaderKills > 0 {
			eliminator.LeaderKills--
		}
		if err := s.playerRepo.UpdateCounters(ctx, exec, eliminator); err != nil {
			return err
		}

		return s.eliminationRepo.Delete(ctx, exec, elimination.ID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventEliminationCancelled, elimination)
	return elimination, nil
}

// UndoLastRebuy снимает один ребай с игрока, у которого ненулевой счётчик
// обновлялся последним. Декремент выполняется оптимистично: строка меняется
// только если счётчик всё ещё равен прочитанному значению, иначе операция
// завершается конфликтом и вызывающий повторяет её.
func (s *removalService) UndoLastRebuy(ctx context.Context, tournamentID int) (*models.TournamentPlayer, error) {
	var player *models.TournamentPlayer

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		_, season, err := s.getTournamentWithSeason(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		player, err = s.playerRepo.GetLatestWithRebuys(ctx, exec, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentPlayerNotFound) {
				return ErrNothingToUndo
			}
			return err
		}

		expected := player.RebuysCount
		newCount := expected - 1
		newPenalty := scoring.RebuyPenalty(newCount, season)
		if err := s.playerRepo.UpdateRebuysCountIf(ctx, exec, player.ID, expected, newCount, newPenalty); err != nil {
			if errors.Is(err, repositories.ErrStaleRebuysCount) {
				return ErrConcurrentModification
			}
			return err
		}
		player.RebuysCount = newCount
		player.PenaltyPoints = newPenalty
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToTournament(tournamentID, live.EventRebuyCancelled, map[string]interface{}{
		"tournament_player_id": player.ID,
		"rebuys_count":         player.RebuysCount,
	})
	return player, nil
}

// pauseWithAutoResume ставит часы на паузу после выбывания и планирует
// автоматическое возобновление. Неработающий таймер — не ошибка.
func (s *removalService) pauseWithAutoResume(ctx context.Context, tournamentID int) {
	if s.autoResumeDelay <= 0 || s.timer == nil {
		return
	}
	if _, err := s.timer.Pause(ctx, tournamentID); err != nil {
		if !errors.Is(err, ErrTimerNotRunning) {
			s.logger.Error("auto-pause failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		return
	}
	s.timer.ScheduleAutoResume(tournamentID, s.autoResumeDelay)
}

func (s *removalService) getTournament(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, exec, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *removalService) getTournamentWithSeason(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, *models.Season, error) {
	t, err := s.getTournament(ctx, exec, id)
	if err != nil {
		return nil, nil, err
	}
	season, err := s.seasonRepo.GetByID(ctx, exec, t.SeasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, nil, ErrSeasonNotFound
		}
		return nil, nil, err
	}
	return t, season, nil
}

// getEnrollment загружает запись участия и проверяет принадлежность турниру.
func (s *removalService) getEnrollment(ctx context.Context, exec repositories.SQLExecutor, tournamentID, enrollmentID int) (*models.TournamentPlayer, error) {
	tp, err := s.playerRepo.GetByID(ctx, exec, enrollmentID)
	if err != nil {
		return nil, s.mapPlayerError(err)
	}
	if tp.TournamentID != tournamentID {
		return nil, ErrTournamentPlayerNotFound
	}
	return tp, nil
}

func (s *removalService) mapPlayerError(err error) error {
	if errors.Is(err, repositories.ErrTournamentPlayerNotFound) {
		return ErrTournamentPlayerNotFound
	}
	return err
}
