package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusPlanned      TournamentStatus = "planned"
	StatusRegistration TournamentStatus = "registration"
	StatusInProgress   TournamentStatus = "in_progress"
	StatusFinished     TournamentStatus = "finished"
	StatusCancelled    TournamentStatus = "cancelled"
)

// Tournament представляет один турнир сезона.
//
// Состояние таймера держится в трёх полях: TimerStartedAt (момент последнего
// запуска отсчёта), TimerPausedAt (не nil — часы заморожены) и
// TimerElapsedSeconds (накопленные секунды на момент последней паузы).
// Пока таймер идёт, текущая дельта вычисляется на чтении и в БД не пишется.
type Tournament struct {
	ID                  int              `json:"id" db:"id"`
	SeasonID            int              `json:"season_id" db:"season_id"`
	Name                string           `json:"name" db:"name"`
	Status              TournamentStatus `json:"status" db:"status"`
	TimerStartedAt      *time.Time       `json:"timer_started_at,omitempty" db:"timer_started_at"`
	TimerPausedAt       *time.Time       `json:"timer_paused_at,omitempty" db:"timer_paused_at"`
	TimerElapsedSeconds int              `json:"timer_elapsed_seconds" db:"timer_elapsed_seconds"`
	RebuyEndLevel       *int             `json:"rebuy_end_level,omitempty" db:"rebuy_end_level"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Season  *Season            `json:"season,omitempty" db:"-"`
	Levels  []BlindLevel       `json:"levels,omitempty" db:"-"`
	Players []TournamentPlayer `json:"players,omitempty" db:"-"`
}

// TimerRunning сообщает, идёт ли отсчёт прямо сейчас.
func (t *Tournament) TimerRunning() bool {
	return t.TimerStartedAt != nil && t.TimerPausedAt == nil
}

// BlindLevel представляет один уровень блайндов в структуре турнира.
type BlindLevel struct {
	ID              int  `json:"id" db:"id"`
	TournamentID    int  `json:"tournament_id" db:"tournament_id"`
	Level           int  `json:"level" db:"level"`
	SmallBlind      int  `json:"small_blind" db:"small_blind"`
	BigBlind        int  `json:"big_blind" db:"big_blind"`
	Ante            int  `json:"ante" db:"ante"`
	DurationMinutes int  `json:"duration_minutes" db:"duration_minutes"`
	IsBreak         bool `json:"is_break" db:"is_break"`
}
