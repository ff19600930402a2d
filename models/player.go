package models

import "time"

type PlayerRole string

const (
	RolePlayer   PlayerRole = "player"
	RoleDirector PlayerRole = "director"
)

// Player представляет игрока лиги (и одновременно учётную запись).
type Player struct {
	ID           int        `json:"id" db:"id"`
	Nickname     string     `json:"nickname" db:"nickname"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         PlayerRole `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
