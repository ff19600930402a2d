package blinds

import (
	"time"

	"github.com/Dosada05/poker-league/models"
)

// ClockState — производное состояние турнирных часов на момент now.
type ClockState struct {
	Level               int  `json:"level"`
	SecondsIntoLevel    int  `json:"seconds_into_level"`
	TotalElapsedSeconds int  `json:"total_elapsed_seconds"`
	IsBreak             bool `json:"is_break"`
	Running             bool `json:"running"`
}

// DeriveLevel вычисляет текущий уровень блайндов из состояния таймера и
// структуры уровней. Хранимое поле "текущий уровень" не используется как
// источник истины: оно тихо расходится с реальным временем, когда никто не
// двигает его активно, поэтому уровень всегда выводится из таймера заново.
//
// levels должны идти по возрастанию номера уровня. Если суммарное время
// вышло за пределы структуры, возвращается последний уровень с
// SecondsIntoLevel, равным его полной длительности: турнир, переживший свою
// структуру, не ошибка.
func DeriveLevel(startedAt, pausedAt *time.Time, elapsedSeconds int, levels []models.BlindLevel, now time.Time) ClockState {
	running := startedAt != nil && pausedAt == nil

	total := elapsedSeconds
	if running {
		delta := int(now.Sub(*startedAt).Seconds())
		if delta > 0 {
			total += delta
		}
	}

	state := ClockState{
		Level:               1,
		TotalElapsedSeconds: total,
		Running:             running,
	}
	if len(levels) == 0 {
		return state
	}

	remaining := total
	for _, lvl := range levels {
		duration := lvl.DurationMinutes * 60
		if remaining < duration {
			state.Level = lvl.Level
			state.SecondsIntoLevel = remaining
			state.IsBreak = lvl.IsBreak
			return state
		}
		remaining -= duration
	}

	// Структура исчерпана: фиксируемся на последнем уровне.
	last := levels[len(levels)-1]
	state.Level = last.Level
	state.SecondsIntoLevel = last.DurationMinutes * 60
	state.IsBreak = last.IsBreak
	return state
}
