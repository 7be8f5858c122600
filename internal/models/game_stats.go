package models

import (
	"database/sql"
	"time"
)

// TeamGameStats represents one team's box score line for a single game
type TeamGameStats struct {
	ID     int    `db:"id"`
	GameID string `db:"game_id"`
	TeamID int    `db:"team_id"`

	Minutes int `db:"minutes"`
	Points  int `db:"points"`

	FieldGoalsMade      int `db:"fgm"`
	FieldGoalsAttempted int `db:"fga"`
	ThreesMade          int `db:"fg3m"`
	ThreesAttempted     int `db:"fg3a"`
	FreeThrowsMade      int `db:"ftm"`
	FreeThrowsAttempted int `db:"fta"`

	OffensiveRebounds int `db:"oreb"`
	DefensiveRebounds int `db:"dreb"`
	Assists           int `db:"assists"`
	Steals            int `db:"steals"`
	Blocks            int `db:"blocks"`
	Turnovers         int `db:"turnovers"`
	PersonalFouls     int `db:"fouls"`

	PlusMinus sql.NullInt32 `db:"plus_minus"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PlayerGameStats represents one player's box score line for a single game
type PlayerGameStats struct {
	ID       int    `db:"id"`
	GameID   string `db:"game_id"`
	TeamID   int    `db:"team_id"`
	PlayerID int    `db:"player_id"`

	Seconds int `db:"seconds"` // playing time, stored in seconds
	Points  int `db:"points"`

	FieldGoalsMade      int `db:"fgm"`
	FieldGoalsAttempted int `db:"fga"`
	ThreesMade          int `db:"fg3m"`
	ThreesAttempted     int `db:"fg3a"`
	FreeThrowsMade      int `db:"ftm"`
	FreeThrowsAttempted int `db:"fta"`

	OffensiveRebounds int `db:"oreb"`
	DefensiveRebounds int `db:"dreb"`
	Assists           int `db:"assists"`
	Steals            int `db:"steals"`
	Blocks            int `db:"blocks"`
	Turnovers         int `db:"turnovers"`
	PersonalFouls     int `db:"fouls"`

	PlusMinus sql.NullInt32 `db:"plus_minus"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TeamSeasonStats holds the per-game aggregates recomputed from team_game_stats
type TeamSeasonStats struct {
	ID     int    `db:"id"`
	TeamID int    `db:"team_id"`
	Season string `db:"season"`

	GamesPlayed int `db:"games_played"`
	Wins        int `db:"wins"`
	Losses      int `db:"losses"`

	PointsPerGame         float64 `db:"points_per_game"`
	OpponentPointsPerGame float64 `db:"opponent_points_per_game"`

	FieldGoalPct float64 `db:"field_goal_pct"`
	ThreePct     float64 `db:"three_pct"`
	FreeThrowPct float64 `db:"free_throw_pct"`

	ReboundsPerGame  float64 `db:"rebounds_per_game"`
	AssistsPerGame   float64 `db:"assists_per_game"`
	TurnoversPerGame float64 `db:"turnovers_per_game"`

	// Advanced
	Pace            float64 `db:"pace"`
	OffensiveRating float64 `db:"offensive_rating"`
	DefensiveRating float64 `db:"defensive_rating"`
	NetRating       float64 `db:"net_rating"`
	TrueShootingPct float64 `db:"true_shooting_pct"`
	EffectiveFGPct  float64 `db:"effective_fg_pct"`
	PythagoreanWins float64 `db:"pythagorean_wins"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Standing represents one row of the league standings
type Standing struct {
	ID     int    `db:"id"`
	TeamID int    `db:"team_id"`
	Season string `db:"season"`

	Wins           int     `db:"wins"`
	Losses         int     `db:"losses"`
	WinPct         float64 `db:"win_pct"`
	ConferenceRank int     `db:"conference_rank"`
	HomeRecord     string  `db:"home_record"`
	RoadRecord     string  `db:"road_record"`
	LastTen        string  `db:"last_ten"`
	Streak         int     `db:"streak"` // positive = win streak, negative = losing streak

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
