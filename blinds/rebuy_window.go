package blinds

import "github.com/Dosada05/poker-league/models"

// RebuysOpen решает, открыто ли сейчас окно ребаев.
//
// rebuyEndLevel == nil означает неограниченные ребаи. Отдельная оговорка:
// если текущий уровень — это перерыв сразу после уровня отсечки, ребаи всё
// ещё разрешены ("последний шанс во время перерыва" — так это объявляют за
// столом).
func RebuysOpen(status models.TournamentStatus, effectiveLevel int, rebuyEndLevel *int, currentLevelIsBreak bool) bool {
	if status != models.StatusInProgress {
		return false
	}
	if rebuyEndLevel == nil {
		return true
	}
	if effectiveLevel <= *rebuyEndLevel {
		return true
	}
	return effectiveLevel == *rebuyEndLevel+1 && currentLevelIsBreak
}
