package scoring

import (
	"testing"

	"github.com/Dosada05/poker-league/models"
	"github.com/stretchr/testify/assert"
)

func legacySeason() *models.Season {
	return &models.Season{
		FreeRebuysCount:   2,
		RebuyTier1Penalty: -100,
		RebuyTier2Penalty: -200,
		RebuyTier3Penalty: -300,
	}
}

func TestRebuyPenaltyLegacyTiers(t *testing.T) {
	season := legacySeason()

	tests := []struct {
		name   string
		rebuys int
		want   int
	}{
		{"no rebuys", 0, 0},
		{"within free allowance", 2, 0},
		{"third rebuy hits tier one", 3, -100},
		{"fourth rebuy hits tier two", 4, -200},
		{"fifth rebuy hits tier three", 5, -300},
		{"tier three is a floor", 7, -300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RebuyPenalty(tt.rebuys, season))
		})
	}
}

// Тиры не сдвигаются вслед за FreeRebuysCount: при допуске 4 бесплатных
// ребаев третий и четвёртый остаются бесплатными, а тир 3 всё ещё начинается
// с пятого.
func TestRebuyPenaltyLegacyTiersDoNotShift(t *testing.T) {
	season := legacySeason()
	season.FreeRebuysCount = 4

	assert.Equal(t, 0, RebuyPenalty(3, season))
	assert.Equal(t, 0, RebuyPenalty(4, season))
	assert.Equal(t, -300, RebuyPenalty(5, season))
}

func TestRebuyPenaltyDynamicRules(t *testing.T) {
	season := legacySeason()
	season.RebuyPenaltyRules = models.RebuyPenaltyRules{
		{FromRebuys: 2, PenaltyPoints: -50},
		{FromRebuys: 4, PenaltyPoints: -150},
		{FromRebuys: 6, PenaltyPoints: -400},
	}

	tests := []struct {
		rebuys int
		want   int
	}{
		{1, 0},
		{2, -50},
		{3, -50},
		{4, -150},
		{5, -150},
		{6, -400},
		{10, -400},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RebuyPenalty(tt.rebuys, season), "rebuys=%d", tt.rebuys)
	}
}

// Наличие динамических правил полностью вытесняет legacy-тиры, включая
// бесплатные ребаи.
func TestRebuyPenaltyDynamicRulesOverrideLegacy(t *testing.T) {
	season := legacySeason()
	season.RebuyPenaltyRules = models.RebuyPenaltyRules{
		{FromRebuys: 1, PenaltyPoints: -25},
	}

	assert.Equal(t, -25, RebuyPenalty(1, season))
	assert.Equal(t, -25, RebuyPenalty(2, season))
}

func TestRebuyPenaltyNilSeason(t *testing.T) {
	assert.Zero(t, RebuyPenalty(5, nil))
}
