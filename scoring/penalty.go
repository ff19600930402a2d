package scoring

import "github.com/Dosada05/poker-league/models"

// RebuyPenalty возвращает штраф (<= 0) за указанное число ребаев по правилам
// сезона. Динамические правила имеют приоритет над legacy-тирами.
//
// Legacy-тиры привязаны к значениям ровно 3, ровно 4 и 5+ и не сдвигаются,
// даже если FreeRebuysCount настроен не равным 2. Сезоны, которым нужны
// другие границы, задают RebuyPenaltyRules.
func RebuyPenalty(rebuysCount int, season *models.Season) int {
	if rebuysCount <= 0 || season == nil {
		return 0
	}

	if len(season.RebuyPenaltyRules) > 0 {
		return dynamicPenalty(rebuysCount, season.RebuyPenaltyRules)
	}

	if rebuysCount <= season.FreeRebuysCount {
		return 0
	}
	switch {
	case rebuysCount == 3:
		return season.RebuyTier1Penalty
	case rebuysCount == 4:
		return season.RebuyTier2Penalty
	case rebuysCount >= 5:
		return season.RebuyTier3Penalty
	}
	return 0
}

// dynamicPenalty выбирает правило с наибольшим порогом FromRebuys, не
// превышающим счётчик. Правила отсортированы по возрастанию порога.
func dynamicPenalty(rebuysCount int, rules models.RebuyPenaltyRules) int {
	penalty := 0
	for _, rule := range rules {
		if rule.FromRebuys <= rebuysCount {
			penalty = rule.PenaltyPoints
		}
	}
	return penalty
}
