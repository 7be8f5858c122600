package models

import (
	"database/sql"
	"time"
)

// Game statuses as reported by the stats API
const (
	StatusScheduled  = "Scheduled"
	StatusInProgress = "InProgress"
	StatusFinal      = "Final"
)

// Game represents an NBA game
type Game struct {
	ID           int            `db:"id"`
	GameID       string         `db:"game_id"`
	Season       string         `db:"season"`
	SeasonType   string         `db:"season_type"`
	HomeTeamID   int            `db:"home_team_id"`
	AwayTeamID   int            `db:"away_team_id"`
	HomeTriCode  string         `db:"home_tricode"`
	AwayTriCode  string         `db:"away_tricode"`
	GameDate     time.Time      `db:"game_date"`
	Status       string         `db:"status"`
	Period       sql.NullInt32  `db:"period"`
	GameClock    sql.NullString `db:"game_clock"`

	// Scores
	HomeScore sql.NullInt32 `db:"home_score"`
	AwayScore sql.NullInt32 `db:"away_score"`

	// Quarter scores
	HomeScoreQ1 sql.NullInt32 `db:"home_score_q1"`
	HomeScoreQ2 sql.NullInt32 `db:"home_score_q2"`
	HomeScoreQ3 sql.NullInt32 `db:"home_score_q3"`
	HomeScoreQ4 sql.NullInt32 `db:"home_score_q4"`
	HomeScoreOT sql.NullInt32 `db:"home_score_ot"`

	AwayScoreQ1 sql.NullInt32 `db:"away_score_q1"`
	AwayScoreQ2 sql.NullInt32 `db:"away_score_q2"`
	AwayScoreQ3 sql.NullInt32 `db:"away_score_q3"`
	AwayScoreQ4 sql.NullInt32 `db:"away_score_q4"`
	AwayScoreOT sql.NullInt32 `db:"away_score_ot"`

	// Derived fields (generated columns in DB)
	TotalScore sql.NullInt32 `db:"total_score"`
	Margin     sql.NullInt32 `db:"margin"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GameInput is used for creating/updating games from the stats API
type GameInput struct {
	GameID      string `json:"GAME_ID"`
	Season      string `json:"SEASON"`
	SeasonType  string `json:"SEASON_TYPE"`
	HomeTeamID  int    `json:"HOME_TEAM_ID"`
	AwayTeamID  int    `json:"VISITOR_TEAM_ID"`
	HomeTriCode string `json:"HOME_TEAM_ABBREVIATION"`
	AwayTriCode string `json:"VISITOR_TEAM_ABBREVIATION"`
	GameDate    string `json:"GAME_DATE_EST"` // ISO 8601
	Status      string `json:"GAME_STATUS_TEXT"`
	Period      int    `json:"LIVE_PERIOD"`
	GameClock   string `json:"LIVE_PC_TIME"`

	HomeScore *int `json:"HOME_PTS,omitempty"`
	AwayScore *int `json:"VISITOR_PTS,omitempty"`

	HomeScoreQ1 *int `json:"HOME_PTS_QTR1,omitempty"`
	HomeScoreQ2 *int `json:"HOME_PTS_QTR2,omitempty"`
	HomeScoreQ3 *int `json:"HOME_PTS_QTR3,omitempty"`
	HomeScoreQ4 *int `json:"HOME_PTS_QTR4,omitempty"`
	HomeScoreOT *int `json:"HOME_PTS_OT,omitempty"`

	AwayScoreQ1 *int `json:"VISITOR_PTS_QTR1,omitempty"`
	AwayScoreQ2 *int `json:"VISITOR_PTS_QTR2,omitempty"`
	AwayScoreQ3 *int `json:"VISITOR_PTS_QTR3,omitempty"`
	AwayScoreQ4 *int `json:"VISITOR_PTS_QTR4,omitempty"`
	AwayScoreOT *int `json:"VISITOR_PTS_OT,omitempty"`
}

// ToGame converts GameInput (from API) to Game model
// HomeTeamID/AwayTeamID refer to the database ids resolved by the caller
func (gi *GameInput) ToGame(homeTeamDBID, awayTeamDBID int) *Game {
	game := &Game{
		GameID:      gi.GameID,
		Season:      gi.Season,
		SeasonType:  gi.SeasonType,
		HomeTeamID:  homeTeamDBID,
		AwayTeamID:  awayTeamDBID,
		HomeTriCode: gi.HomeTriCode,
		AwayTriCode: gi.AwayTriCode,
		Status:      normalizeStatus(gi.Status),
	}

	if gameTime, err := time.Parse(time.RFC3339, gi.GameDate); err == nil {
		game.GameDate = gameTime
	} else if gameTime, err := time.Parse("2006-01-02T15:04:05", gi.GameDate); err == nil {
		game.GameDate = gameTime
	}

	if gi.Period > 0 {
		game.Period = sql.NullInt32{Int32: int32(gi.Period), Valid: true}
	}
	if gi.GameClock != "" {
		game.GameClock = sql.NullString{String: gi.GameClock, Valid: true}
	}

	game.HomeScore = nullInt32(gi.HomeScore)
	game.AwayScore = nullInt32(gi.AwayScore)

	game.HomeScoreQ1 = nullInt32(gi.HomeScoreQ1)
	game.HomeScoreQ2 = nullInt32(gi.HomeScoreQ2)
	game.HomeScoreQ3 = nullInt32(gi.HomeScoreQ3)
	game.HomeScoreQ4 = nullInt32(gi.HomeScoreQ4)
	game.HomeScoreOT = nullInt32(gi.HomeScoreOT)

	game.AwayScoreQ1 = nullInt32(gi.AwayScoreQ1)
	game.AwayScoreQ2 = nullInt32(gi.AwayScoreQ2)
	game.AwayScoreQ3 = nullInt32(gi.AwayScoreQ3)
	game.AwayScoreQ4 = nullInt32(gi.AwayScoreQ4)
	game.AwayScoreOT = nullInt32(gi.AwayScoreOT)

	return game
}

// normalizeStatus maps the free-form status text from the API to one of
// the three statuses the pipeline routes on
func normalizeStatus(statusText string) string {
	switch statusText {
	case "", "Scheduled", "PPD":
		return StatusScheduled
	case "Final", "F/OT":
		return StatusFinal
	default:
		// "Qtr", "Halftime", "End of ..." and clock strings all mean live
		return StatusInProgress
	}
}

func nullInt32(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

// IsActive returns true if the game is currently in progress
func (g *Game) IsActive() bool {
	return g.Status == StatusInProgress
}

// IsScheduled returns true if the game is scheduled but not started
func (g *Game) IsScheduled() bool {
	return g.Status == StatusScheduled
}

// IsFinal returns true if the game is completed
func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal
}
