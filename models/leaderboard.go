package models

// PlayerPerformance — результат игрока в одном завершённом турнире,
// уже пересчитанный по правилам сезона (сохранённые очки не используются).
type PlayerPerformance struct {
	TournamentID int  `json:"tournament_id"`
	TotalPoints  int  `json:"total_points"`
	FinalRank    *int `json:"final_rank,omitempty"`
	CountedInSum bool `json:"counted_in_sum"`
}

// LeaderboardEntry — строка сезонного зачёта одного игрока.
//
// TotalPoints и TournamentsCount подчиняются правилу best-N-of-M, а
// Victories и Podiums считаются по всем сыгранным турнирам, включая
// отброшенные из суммы.
type LeaderboardEntry struct {
	Rank             int                 `json:"rank"`
	PlayerID         int                 `json:"player_id"`
	Player           *Player             `json:"player,omitempty"`
	TotalPoints      int                 `json:"total_points"`
	TournamentsCount int                 `json:"tournaments_count"`
	AveragePoints    int                 `json:"average_points"`
	Victories        int                 `json:"victories"`
	Podiums          int                 `json:"podiums"`
	Performances     []PlayerPerformance `json:"performances,omitempty"`
}
