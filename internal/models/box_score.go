package models

import (
	"database/sql"
	"strconv"
	"strings"
)

// TeamGameStatsInput is a decoded TeamStats box score row
type TeamGameStatsInput struct {
	GameID  string `json:"GAME_ID"`
	TeamID  int    `json:"TEAM_ID"`
	Minutes string `json:"MIN"` // "240:00"
	Points  int    `json:"PTS"`

	FGM  int `json:"FGM"`
	FGA  int `json:"FGA"`
	FG3M int `json:"FG3M"`
	FG3A int `json:"FG3A"`
	FTM  int `json:"FTM"`
	FTA  int `json:"FTA"`

	OREB      int `json:"OREB"`
	DREB      int `json:"DREB"`
	Assists   int `json:"AST"`
	Steals    int `json:"STL"`
	Blocks    int `json:"BLK"`
	Turnovers int `json:"TO"`
	Fouls     int `json:"PF"`

	PlusMinus *float64 `json:"PLUS_MINUS,omitempty"`
}

// ToTeamGameStats converts the API row to the model. teamDBID is the
// database id resolved by the caller.
func (i *TeamGameStatsInput) ToTeamGameStats(teamDBID int) *TeamGameStats {
	s := &TeamGameStats{
		GameID:  i.GameID,
		TeamID:  teamDBID,
		Minutes: clockToMinutes(i.Minutes),
		Points:  i.Points,

		FieldGoalsMade:      i.FGM,
		FieldGoalsAttempted: i.FGA,
		ThreesMade:          i.FG3M,
		ThreesAttempted:     i.FG3A,
		FreeThrowsMade:      i.FTM,
		FreeThrowsAttempted: i.FTA,

		OffensiveRebounds: i.OREB,
		DefensiveRebounds: i.DREB,
		Assists:           i.Assists,
		Steals:            i.Steals,
		Blocks:            i.Blocks,
		Turnovers:         i.Turnovers,
		PersonalFouls:     i.Fouls,
	}

	if i.PlusMinus != nil {
		s.PlusMinus = sql.NullInt32{Int32: int32(*i.PlusMinus), Valid: true}
	}

	return s
}

// PlayerGameStatsInput is a decoded PlayerStats box score row
type PlayerGameStatsInput struct {
	GameID   string `json:"GAME_ID"`
	TeamID   int    `json:"TEAM_ID"`
	PlayerID int    `json:"PLAYER_ID"`
	Minutes  string `json:"MIN"` // "36:42", empty for DNP
	Points   int    `json:"PTS"`

	FGM  int `json:"FGM"`
	FGA  int `json:"FGA"`
	FG3M int `json:"FG3M"`
	FG3A int `json:"FG3A"`
	FTM  int `json:"FTM"`
	FTA  int `json:"FTA"`

	OREB      int `json:"OREB"`
	DREB      int `json:"DREB"`
	Assists   int `json:"AST"`
	Steals    int `json:"STL"`
	Blocks    int `json:"BLK"`
	Turnovers int `json:"TO"`
	Fouls     int `json:"PF"`

	PlusMinus *float64 `json:"PLUS_MINUS,omitempty"`
}

// DidNotPlay reports whether the row is a DNP line
func (i *PlayerGameStatsInput) DidNotPlay() bool {
	return i.Minutes == ""
}

// ToPlayerGameStats converts the API row to the model
func (i *PlayerGameStatsInput) ToPlayerGameStats(teamDBID int) *PlayerGameStats {
	s := &PlayerGameStats{
		GameID:   i.GameID,
		TeamID:   teamDBID,
		PlayerID: i.PlayerID,
		Seconds:  clockToSeconds(i.Minutes),
		Points:   i.Points,

		FieldGoalsMade:      i.FGM,
		FieldGoalsAttempted: i.FGA,
		ThreesMade:          i.FG3M,
		ThreesAttempted:     i.FG3A,
		FreeThrowsMade:      i.FTM,
		FreeThrowsAttempted: i.FTA,

		OffensiveRebounds: i.OREB,
		DefensiveRebounds: i.DREB,
		Assists:           i.Assists,
		Steals:            i.Steals,
		Blocks:            i.Blocks,
		Turnovers:         i.Turnovers,
		PersonalFouls:     i.Fouls,
	}

	if i.PlusMinus != nil {
		s.PlusMinus = sql.NullInt32{Int32: int32(*i.PlusMinus), Valid: true}
	}

	return s
}

// StandingInput is a decoded Standings row
type StandingInput struct {
	TeamID         int     `json:"TEAM_ID"`
	Wins           int     `json:"WINS"`
	Losses         int     `json:"LOSSES"`
	WinPct         float64 `json:"W_PCT"`
	ConferenceRank int     `json:"CONFERENCE_RANK"`
	HomeRecord     string  `json:"HOME_RECORD"`
	RoadRecord     string  `json:"ROAD_RECORD"`
	LastTen        string  `json:"L10"`
	CurrentStreak  int     `json:"CURRENT_STREAK"`
}

// ToStanding converts the API row to the model
func (i *StandingInput) ToStanding(teamDBID int, season string) *Standing {
	return &Standing{
		TeamID:         teamDBID,
		Season:         season,
		Wins:           i.Wins,
		Losses:         i.Losses,
		WinPct:         i.WinPct,
		ConferenceRank: i.ConferenceRank,
		HomeRecord:     i.HomeRecord,
		RoadRecord:     i.RoadRecord,
		LastTen:        i.LastTen,
		Streak:         i.CurrentStreak,
	}
}

// clockToSeconds parses "MM:SS" playing time into seconds.
// Empty and malformed strings parse to 0.
func clockToSeconds(clock string) int {
	if clock == "" {
		return 0
	}
	parts := strings.SplitN(clock, ":", 2)
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	secs := 0
	if len(parts) == 2 {
		secs, _ = strconv.Atoi(parts[1])
	}
	return mins*60 + secs
}

func clockToMinutes(clock string) int {
	return clockToSeconds(clock) / 60
}
