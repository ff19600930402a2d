package blinds

import (
	"testing"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/stretchr/testify/assert"
)

func standardLevels() []models.BlindLevel {
	return []models.BlindLevel{
		{Level: 1, SmallBlind: 25, BigBlind: 50, DurationMinutes: 20},
		{Level: 2, SmallBlind: 50, BigBlind: 100, DurationMinutes: 20},
		{Level: 3, DurationMinutes: 10, IsBreak: true},
		{Level: 4, SmallBlind: 100, BigBlind: 200, DurationMinutes: 20},
	}
}

func TestDeriveLevel(t *testing.T) {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	levels := standardLevels()

	tests := []struct {
		name      string
		startedAt *time.Time
		pausedAt  *time.Time
		elapsed   int
		now       time.Time
		want      ClockState
	}{
		{
			name: "idle timer sits at level 1",
			want: ClockState{Level: 1},
		},
		{
			name:      "running inside first level",
			startedAt: &base,
			now:       base.Add(5 * time.Minute),
			want:      ClockState{Level: 1, SecondsIntoLevel: 300, TotalElapsedSeconds: 300, Running: true},
		},
		{
			name:      "running crosses into second level",
			startedAt: &base,
			now:       base.Add(25 * time.Minute),
			want:      ClockState{Level: 2, SecondsIntoLevel: 300, TotalElapsedSeconds: 1500, Running: true},
		},
		{
			name:      "level boundary belongs to the next level",
			startedAt: &base,
			now:       base.Add(20 * time.Minute),
			want:      ClockState{Level: 2, SecondsIntoLevel: 0, TotalElapsedSeconds: 1200, Running: true},
		},
		{
			name:      "break level is reported as break",
			startedAt: &base,
			now:       base.Add(45 * time.Minute),
			want:      ClockState{Level: 3, SecondsIntoLevel: 300, TotalElapsedSeconds: 2700, IsBreak: true, Running: true},
		},
		{
			name:     "paused timer uses frozen elapsed only",
			pausedAt: &base,
			elapsed:  1500,
			now:      base.Add(2 * time.Hour),
			want:     ClockState{Level: 2, SecondsIntoLevel: 300, TotalElapsedSeconds: 1500},
		},
		{
			name:      "resumed timer adds frozen elapsed to the new run",
			startedAt: &base,
			elapsed:   1200,
			now:       base.Add(5 * time.Minute),
			want:      ClockState{Level: 2, SecondsIntoLevel: 300, TotalElapsedSeconds: 1500, Running: true},
		},
		{
			name:      "exhausted structure clamps to the last level",
			startedAt: &base,
			now:       base.Add(10 * time.Hour),
			want:      ClockState{Level: 4, SecondsIntoLevel: 1200, TotalElapsedSeconds: 36000, Running: true},
		},
		{
			name:      "clock skew behind startedAt does not go negative",
			startedAt: &base,
			elapsed:   300,
			now:       base.Add(-1 * time.Minute),
			want:      ClockState{Level: 1, SecondsIntoLevel: 300, TotalElapsedSeconds: 300, Running: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveLevel(tt.startedAt, tt.pausedAt, tt.elapsed, levels, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveLevelIsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	now := base.Add(37 * time.Minute)
	levels := standardLevels()

	first := DeriveLevel(&base, nil, 0, levels, now)
	second := DeriveLevel(&base, nil, 0, levels, now)

	assert.Equal(t, first, second)
}

func TestDeriveLevelWithoutLevels(t *testing.T) {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	got := DeriveLevel(&base, nil, 0, nil, base.Add(time.Hour))

	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 3600, got.TotalElapsedSeconds)
	assert.Zero(t, got.SecondsIntoLevel)
}
