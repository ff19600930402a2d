package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

// EventBroadcaster — односторонняя доставка событий наблюдателям турнира.
// Реализация обязана быть fire-and-forget: она не возвращает ошибку и не
// вправе блокировать завершившуюся мутацию.
type EventBroadcaster interface {
	BroadcastToTournament(tournamentID int, eventType string, payload interface{})
}

// TxRunner исполняет функцию внутри одной атомарной транзакции. Сервисы
// зависят от этого интерфейса, а не от *sql.DB напрямую, чтобы тесты могли
// подменить исполнение транзакций.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

func NewSQLTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusPlanned:      {models.StatusRegistration, models.StatusCancelled},
		models.StatusRegistration: {models.StatusInProgress, models.StatusCancelled},
		models.StatusInProgress:   {models.StatusFinished, models.StatusCancelled},
		models.StatusFinished:     {},
		models.StatusCancelled:    {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

// validateBlindLevels проверяет структуру уровней: номера идут подряд с
// единицы, длительности положительны, на игровых уровнях блайнды заданы.
func validateBlindLevels(levels []models.BlindLevel) error {
	if len(levels) == 0 {
		return ErrBlindLevelsRequired
	}
	for i, lvl := range levels {
		if lvl.Level != i+1 {
			return fmt.Errorf("%w: level numbers must be contiguous starting at 1, got %d at position %d", ErrBlindLevelInvalid, lvl.Level, i)
		}
		if lvl.DurationMinutes <= 0 {
			return fmt.Errorf("%w: level %d has non-positive duration", ErrBlindLevelInvalid, lvl.Level)
		}
		if !lvl.IsBreak {
			if lvl.SmallBlind <= 0 || lvl.BigBlind <= 0 {
				return fmt.Errorf("%w: level %d must have positive blinds", ErrBlindLevelInvalid, lvl.Level)
			}
			if lvl.BigBlind < lvl.SmallBlind {
				return fmt.Errorf("%w: level %d has big blind below small blind", ErrBlindLevelInvalid, lvl.Level)
			}
			if lvl.Ante < 0 {
				return fmt.Errorf("%w: level %d has negative ante", ErrBlindLevelInvalid, lvl.Level)
			}
		}
	}
	return nil
}
