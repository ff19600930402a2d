package scoring

import (
	"testing"

	"github.com/Dosada05/poker-league/models"
	"github.com/stretchr/testify/assert"
)

func scoringSeason() *models.Season {
	return &models.Season{
		PointsFirst:     1500,
		PointsSecond:    1200,
		PointsThird:     1000,
		PointsFourth:    800,
		PointsFifth:     700,
		PointsSixth:     600,
		PointsSeventh:   500,
		PointsEighth:    400,
		PointsNinth:     300,
		PointsTenth:     200,
		PointsEleventh:  100,
		PointsSixteenth: 50,

		EliminationPoints:    50,
		BustEliminationBonus: 25,
		LeaderKillerBonus:    25,
	}
}

func TestRankPointsLegacyTable(t *testing.T) {
	season := scoringSeason()

	tests := []struct {
		rank int
		want int
	}{
		{1, 1500},
		{2, 1200},
		{10, 200},
		{11, 100},
		{13, 100},
		{15, 100},
		{16, 50},
		{20, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RankPoints(tt.rank, season), "rank=%d", tt.rank)
	}
}

func TestRankPointsDetailedConfigOverridesLegacy(t *testing.T) {
	season := scoringSeason()
	season.DetailedPointsConfig = &models.DetailedPointsConfig{
		ByRank:     map[string]int{"1": 2000, "2": 1600, "3": 1300},
		Rank19Plus: 10,
	}

	assert.Equal(t, 2000, RankPoints(1, season))
	assert.Equal(t, 1300, RankPoints(3, season))
	// Место вне явной таблицы падает в корзину Rank19Plus.
	assert.Equal(t, 10, RankPoints(4, season))
	assert.Equal(t, 10, RankPoints(25, season))
}

func TestRankPointsInvalidInput(t *testing.T) {
	assert.Zero(t, RankPoints(0, scoringSeason()))
	assert.Zero(t, RankPoints(-3, scoringSeason()))
	assert.Zero(t, RankPoints(1, nil))
}

func TestPlayerBreakdown(t *testing.T) {
	season := scoringSeason()
	rank := 1

	tp := &models.TournamentPlayer{
		FinalRank:         &rank,
		EliminationsCount: 2,
		BustEliminations:  2,
		LeaderKills:       1,
	}

	got := PlayerBreakdown(tp, season)

	assert.Equal(t, 1500, got.RankPoints)
	assert.Equal(t, 150, got.EliminationPoints)
	assert.Equal(t, 25, got.BonusPoints)
	assert.Equal(t, 1675, got.TotalPoints)
}

func TestPlayerBreakdownAppliesPenalty(t *testing.T) {
	season := scoringSeason()
	rank := 5

	tp := &models.TournamentPlayer{
		FinalRank:     &rank,
		PenaltyPoints: -200,
	}

	got := PlayerBreakdown(tp, season)

	assert.Equal(t, 700, got.RankPoints)
	assert.Equal(t, 500, got.TotalPoints)
}

func TestPlayerBreakdownWithoutFinalRank(t *testing.T) {
	tp := &models.TournamentPlayer{EliminationsCount: 3, LeaderKills: 1}

	assert.Equal(t, Breakdown{}, PlayerBreakdown(tp, scoringSeason()))
	assert.Equal(t, Breakdown{}, PlayerBreakdown(nil, scoringSeason()))
}
