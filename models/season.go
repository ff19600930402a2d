package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DetailedPointsConfig — динамическая таблица очков за место. Когда она задана
// у сезона, legacy-поля points_first..points_sixteenth игнорируются.
type DetailedPointsConfig struct {
	ByRank     map[string]int `json:"by_rank"`
	Rank19Plus int            `json:"rank_19_plus"`
}

// RebuyPenaltyRule — один порог динамических правил штрафа за ребаи:
// применяется правило с наибольшим FromRebuys, не превышающим счётчик ребаев.
type RebuyPenaltyRule struct {
	FromRebuys    int `json:"from_rebuys"`
	PenaltyPoints int `json:"penalty_points"`
}

// RebuyPenaltyRules хранится в JSONB-колонке, порядок — по возрастанию FromRebuys.
type RebuyPenaltyRules []RebuyPenaltyRule

// Season хранит конфигурацию подсчёта очков и окно агрегации сезона.
//
// Для очков за место и для штрафов за ребаи существует два источника правил:
// legacy-поля с фиксированными значениями и динамические JSONB-таблицы.
// Динамические имеют приоритет, когда присутствуют; выбор активного набора
// правил сделан в пакете scoring и нигде больше не дублируется.
type Season struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Legacy-таблица очков за место: явные значения для мест 1-10,
	// общая корзина для мест 11-15 и корзина для 16+.
	PointsFirst     int `json:"points_first" db:"points_first"`
	PointsSecond    int `json:"points_second" db:"points_second"`
	PointsThird     int `json:"points_third" db:"points_third"`
	PointsFourth    int `json:"points_fourth" db:"points_fourth"`
	PointsFifth     int `json:"points_fifth" db:"points_fifth"`
	PointsSixth     int `json:"points_sixth" db:"points_sixth"`
	PointsSeventh   int `json:"points_seventh" db:"points_seventh"`
	PointsEighth    int `json:"points_eighth" db:"points_eighth"`
	PointsNinth     int `json:"points_ninth" db:"points_ninth"`
	PointsTenth     int `json:"points_tenth" db:"points_tenth"`
	PointsEleventh  int `json:"points_eleventh" db:"points_eleventh"`
	PointsSixteenth int `json:"points_sixteenth" db:"points_sixteenth"`

	EliminationPoints    int `json:"elimination_points" db:"elimination_points"`
	BustEliminationBonus int `json:"bust_elimination_bonus" db:"bust_elimination_bonus"`
	LeaderKillerBonus    int `json:"leader_killer_bonus" db:"leader_killer_bonus"`

	// Legacy-правила штрафов за ребаи: бесплатные ребаи, затем три тира.
	FreeRebuysCount   int `json:"free_rebuys_count" db:"free_rebuys_count"`
	RebuyTier1Penalty int `json:"rebuy_tier1_penalty" db:"rebuy_tier1_penalty"`
	RebuyTier2Penalty int `json:"rebuy_tier2_penalty" db:"rebuy_tier2_penalty"`
	RebuyTier3Penalty int `json:"rebuy_tier3_penalty" db:"rebuy_tier3_penalty"`

	BestTournamentsCount *int                  `json:"best_tournaments_count,omitempty" db:"best_tournaments_count"`
	DetailedPointsConfig *DetailedPointsConfig `json:"detailed_points_config,omitempty" db:"detailed_points_config"`
	RebuyPenaltyRules    RebuyPenaltyRules     `json:"rebuy_penalty_rules,omitempty" db:"rebuy_penalty_rules"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (c *DetailedPointsConfig) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into DetailedPointsConfig", src)
	}
	return json.Unmarshal(b, c)
}

func (c DetailedPointsConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (r *RebuyPenaltyRules) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RebuyPenaltyRules", src)
	}
	return json.Unmarshal(b, r)
}

func (r RebuyPenaltyRules) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}
