package scoring

import (
	"strconv"

	"github.com/Dosada05/poker-league/models"
)

// Breakdown — четыре очковые составляющие результата игрока в турнире.
type Breakdown struct {
	RankPoints        int `json:"rank_points"`
	EliminationPoints int `json:"elimination_points"`
	BonusPoints       int `json:"bonus_points"`
	TotalPoints       int `json:"total_points"`
}

// RankPoints возвращает очки за итоговое место по правилам сезона.
// DetailedPointsConfig имеет приоритет над legacy-таблицей; в legacy-таблице
// места 11-15 получают корзину points_eleventh, а 16 и хуже —
// points_sixteenth.
func RankPoints(finalRank int, season *models.Season) int {
	if finalRank < 1 || season == nil {
		return 0
	}

	if cfg := season.DetailedPointsConfig; cfg != nil {
		if pts, ok := cfg.ByRank[strconv.Itoa(finalRank)]; ok {
			return pts
		}
		return cfg.Rank19Plus
	}

	switch finalRank {
	case 1:
		return season.PointsFirst
	case 2:
		return season.PointsSecond
	case 3:
		return season.PointsThird
	case 4:
		return season.PointsFourth
	case 5:
		return season.PointsFifth
	case 6:
		return season.PointsSixth
	case 7:
		return season.PointsSeventh
	case 8:
		return season.PointsEighth
	case 9:
		return season.PointsNinth
	case 10:
		return season.PointsTenth
	}
	if finalRank <= 15 {
		return season.PointsEleventh
	}
	return season.PointsSixteenth
}

// PlayerBreakdown пересчитывает очковые поля игрока по правилам сезона.
// Вызывается на каждом проходе агрегатора: сохранённые в БД очки — кэш, а не
// источник истины. Игрок без итогового места ещё не имеет результата и не
// даёт вклада в зачёт.
func PlayerBreakdown(tp *models.TournamentPlayer, season *models.Season) Breakdown {
	if tp == nil || tp.FinalRank == nil {
		return Breakdown{}
	}

	b := Breakdown{
		RankPoints: RankPoints(*tp.FinalRank, season),
		EliminationPoints: tp.EliminationsCount*season.EliminationPoints +
			tp.BustEliminations*season.BustEliminationBonus,
		BonusPoints: tp.LeaderKills * season.LeaderKillerBonus,
	}
	b.TotalPoints = b.RankPoints + b.EliminationPoints + b.BonusPoints + tp.PenaltyPoints
	return b
}
