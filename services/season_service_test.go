package services

import (
	"context"
	"testing"

	"github.com/Dosada05/poker-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSeason(t *testing.T) {
	service := NewSeasonService(newFakeSeasonRepo())

	season, err := service.CreateSeason(context.Background(), &models.Season{
		Name:            "Season 2026",
		PointsFirst:     1500,
		FreeRebuysCount: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, season.ID)
}

func TestSeasonConfigValidation(t *testing.T) {
	service := NewSeasonService(newFakeSeasonRepo())
	zero := 0

	tests := []struct {
		name    string
		season  *models.Season
		wantErr error
	}{
		{
			name:    "empty name",
			season:  &models.Season{},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "non-positive best tournaments count",
			season:  &models.Season{Name: "s", BestTournamentsCount: &zero},
			wantErr: ErrSeasonConfigInvalid,
		},
		{
			name:    "negative free rebuys",
			season:  &models.Season{Name: "s", FreeRebuysCount: -1},
			wantErr: ErrSeasonConfigInvalid,
		},
		{
			name: "penalty rule threshold below one",
			season: &models.Season{Name: "s", RebuyPenaltyRules: models.RebuyPenaltyRules{
				{FromRebuys: 0, PenaltyPoints: -50},
			}},
			wantErr: ErrSeasonConfigInvalid,
		},
		{
			name: "penalty rule thresholds must ascend",
			season: &models.Season{Name: "s", RebuyPenaltyRules: models.RebuyPenaltyRules{
				{FromRebuys: 3, PenaltyPoints: -50},
				{FromRebuys: 3, PenaltyPoints: -100},
			}},
			wantErr: ErrSeasonConfigInvalid,
		},
		{
			name: "positive penalty points",
			season: &models.Season{Name: "s", RebuyPenaltyRules: models.RebuyPenaltyRules{
				{FromRebuys: 3, PenaltyPoints: 50},
			}},
			wantErr: ErrSeasonConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateSeason(context.Background(), tt.season)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateSeasonKeepsID(t *testing.T) {
	repo := newFakeSeasonRepo(&models.Season{ID: 1, Name: "old"})
	service := NewSeasonService(repo)

	got, err := service.UpdateSeason(context.Background(), 1, &models.Season{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)

	stored, err := repo.GetByID(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Name)
}

func TestGetSeasonNotFound(t *testing.T) {
	service := NewSeasonService(newFakeSeasonRepo())

	_, err := service.GetSeasonByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}
