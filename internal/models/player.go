package models

import (
	"database/sql"
	"time"
)

// Player represents an NBA player on a roster
type Player struct {
	ID        int            `db:"id"`
	PlayerID  int            `db:"player_id"`
	TeamID    sql.NullInt32  `db:"team_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Position  sql.NullString `db:"position"`
	Jersey    sql.NullString `db:"jersey"`
	Status    string         `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PlayerInput is used for creating/updating players from the stats API
type PlayerInput struct {
	PlayerID  int    `json:"PLAYER_ID"`
	TeamID    int    `json:"TEAM_ID"`
	FirstName string `json:"PLAYER_FIRST_NAME"`
	LastName  string `json:"PLAYER_LAST_NAME"`
	Position  string `json:"POSITION"`
	Jersey    string `json:"JERSEY_NUMBER"`
	Status    string `json:"ROSTER_STATUS"`
}

// ToPlayer converts PlayerInput (from API) to Player model
func (pi *PlayerInput) ToPlayer() *Player {
	player := &Player{
		PlayerID:  pi.PlayerID,
		FirstName: pi.FirstName,
		LastName:  pi.LastName,
		Status:    pi.Status,
	}

	if player.Status == "" {
		player.Status = "Active"
	}
	if pi.TeamID > 0 {
		player.TeamID = sql.NullInt32{Int32: int32(pi.TeamID), Valid: true}
	}
	if pi.Position != "" {
		player.Position = sql.NullString{String: pi.Position, Valid: true}
	}
	if pi.Jersey != "" {
		player.Jersey = sql.NullString{String: pi.Jersey, Valid: true}
	}

	return player
}
