package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrBlindLevelsRequired = errors.New("tournament requires at least one blind level")
	ErrBlindLevelInvalid   = errors.New("blind level is invalid")
	ErrSeasonConfigInvalid = errors.New("season scoring configuration is invalid")
	ErrRankInvalid         = errors.New("final rank must be a positive number")

	// Конфликты состояния: операция отвергается без частичной записи.
	ErrTournamentNotInProgress  = errors.New("tournament is not in progress")
	ErrTimerAlreadyRunning      = errors.New("timer is already running")
	ErrTimerNotRunning          = errors.New("timer is not running")
	ErrTimerNotPaused           = errors.New("timer is not paused")
	ErrTournamentFinished       = errors.New("tournament is finished")
	ErrInvalidStatusTransition  = errors.New("invalid tournament status transition")
	ErrRegistrationClosed       = errors.New("tournament registration is closed")
	ErrBlindStructureFrozen     = errors.New("blind structure is frozen after tournament start")
	ErrRebuysClosed             = errors.New("rebuy window is closed")
	ErrPlayerAlreadyEliminated  = errors.New("player already holds a final rank")
	ErrNothingToUndo            = errors.New("nothing to undo")
	ErrUndoBlockedByElimination = errors.New("a later elimination blocks this undo")

	// Конкурентный конфликт: вызывающий может повторить операцию.
	ErrConcurrentModification = errors.New("concurrent modification detected, retry the operation")

	// Ошибки, специфичные для сущностей
	ErrPlayerNotFound           = errors.New("player not found")
	ErrSeasonNotFound           = errors.New("season not found")
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentPlayerNotFound = errors.New("tournament player not found")

	// Конфликты уникальности
	ErrPlayerEmailConflict    = errors.New("email address is already in use")
	ErrPlayerNicknameConflict = errors.New("nickname is already in use")
	ErrEnrollmentConflict     = errors.New("player is already registered for this tournament")
	ErrTournamentNameConflict = errors.New("tournament name already exists in this season")
	ErrSeasonNameConflict     = errors.New("season name already exists")
)
