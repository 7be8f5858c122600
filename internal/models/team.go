package models

import (
	"database/sql"
	"time"
)

// Team represents an NBA team
type Team struct {
	ID           int            `db:"id"`
	TeamID       int            `db:"team_id"`
	Abbreviation string         `db:"abbreviation"`
	FullName     string         `db:"full_name"`
	Nickname     sql.NullString `db:"nickname"`
	Conference   sql.NullString `db:"conference"`
	Division     sql.NullString `db:"division"`
	City         sql.NullString `db:"city"`
	State        sql.NullString `db:"state"`
	YearFounded  sql.NullInt32  `db:"year_founded"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TeamInput is the shape a team row takes once a stats API resultSet
// has been decoded into column/value pairs
type TeamInput struct {
	TeamID       int    `json:"TEAM_ID"`
	Abbreviation string `json:"ABBREVIATION"`
	FullName     string `json:"TEAM_NAME"`
	Nickname     string `json:"NICKNAME"`
	Conference   string `json:"CONFERENCE"`
	Division     string `json:"DIVISION"`
	City         string `json:"CITY"`
	State        string `json:"STATE"`
	YearFounded  int    `json:"YEAR_FOUNDED"`
}

// ToTeam converts TeamInput (from API) to Team model
func (ti *TeamInput) ToTeam() *Team {
	team := &Team{
		TeamID:       ti.TeamID,
		Abbreviation: ti.Abbreviation,
		FullName:     ti.FullName,
	}

	if ti.Nickname != "" {
		team.Nickname = sql.NullString{String: ti.Nickname, Valid: true}
	}
	if ti.Conference != "" {
		team.Conference = sql.NullString{String: ti.Conference, Valid: true}
	}
	if ti.Division != "" {
		team.Division = sql.NullString{String: ti.Division, Valid: true}
	}
	if ti.City != "" {
		team.City = sql.NullString{String: ti.City, Valid: true}
	}
	if ti.State != "" {
		team.State = sql.NullString{String: ti.State, Valid: true}
	}
	if ti.YearFounded > 0 {
		team.YearFounded = sql.NullInt32{Int32: int32(ti.YearFounded), Valid: true}
	}

	return team
}
