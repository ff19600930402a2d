package models

import "time"

// TournamentPlayer представляет участие игрока в одном турнире.
//
// Четыре очковых поля (RankPoints, EliminationPoints, BonusPoints,
// TotalPoints) — это кэш, пересчитываемый агрегатором сезона; руками они не
// редактируются. Инвариант: TotalPoints = RankPoints + EliminationPoints +
// BonusPoints + PenaltyPoints.
type TournamentPlayer struct {
	ID                int        `json:"id" db:"id"`
	TournamentID      int        `json:"tournament_id" db:"tournament_id"`
	PlayerID          int        `json:"player_id" db:"player_id"`
	RebuysCount       int        `json:"rebuys_count" db:"rebuys_count"`
	EliminationsCount int        `json:"eliminations_count" db:"eliminations_count"`
	BustEliminations  int        `json:"bust_eliminations" db:"bust_eliminations"`
	LeaderKills       int        `json:"leader_kills" db:"leader_kills"`
	FinalRank         *int       `json:"final_rank,omitempty" db:"final_rank"`
	PenaltyPoints     int        `json:"penalty_points" db:"penalty_points"`
	RankPoints        int        `json:"rank_points" db:"rank_points"`
	EliminationPoints int        `json:"elimination_points" db:"elimination_points"`
	BonusPoints       int        `json:"bonus_points" db:"bonus_points"`
	TotalPoints       int        `json:"total_points" db:"total_points"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// Elimination — необратимое (кроме отмены последнего) событие вылета игрока.
type Elimination struct {
	ID                 int       `json:"id" db:"id"`
	TournamentID       int       `json:"tournament_id" db:"tournament_id"`
	EliminatorPlayerID int       `json:"eliminator_player_id" db:"eliminator_player_id"`
	EliminatedPlayerID int       `json:"eliminated_player_id" db:"eliminated_player_id"`
	Rank               int       `json:"rank" db:"rank"`
	Level              int       `json:"level" db:"level"`
	IsLeaderKill       bool      `json:"is_leader_kill" db:"is_leader_kill"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// BustEvent — временный вылет в окне ребаев. В отличие от Elimination не
// присваивает итоговое место и может быть отменён, пока остаётся последним
// событием турнира.
type BustEvent struct {
	ID                 int       `json:"id" db:"id"`
	TournamentID       int       `json:"tournament_id" db:"tournament_id"`
	EliminatedPlayerID int       `json:"eliminated_player_id" db:"eliminated_player_id"`
	KillerPlayerID     *int      `json:"killer_player_id,omitempty" db:"killer_player_id"`
	Level              int       `json:"level" db:"level"`
	RecaveApplied      bool      `json:"recave_applied" db:"recave_applied"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
