package nbastats

import (
	"testing"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"resource": "leaguegamelog",
	"resultSets": [
		{
			"name": "LeagueGameLog",
			"headers": ["GAME_ID", "TEAM_ID", "PTS"],
			"rowSet": [
				["0022400001", 1610612738, 120],
				["0022400002", 1610612747, 112],
				["0022400003", 1610612747]
			]
		},
		{
			"name": "Other",
			"headers": ["X"],
			"rowSet": [[1]]
		}
	]
}`

func TestParseResultSet(t *testing.T) {
	rows, err := parseResultSet([]byte(sampleResponse), "LeagueGameLog")
	require.NoError(t, err)

	// The third row is ragged and must be dropped, not misaligned
	require.Len(t, rows, 2)
	assert.Equal(t, "0022400001", rows[0]["GAME_ID"])
	assert.Equal(t, float64(1610612738), rows[0]["TEAM_ID"])
	assert.Equal(t, float64(120), rows[0]["PTS"])
}

func TestParseResultSetMissing(t *testing.T) {
	_, err := parseResultSet([]byte(sampleResponse), "Nope")
	assert.Error(t, err)
}

func TestParseResultSetBadJSON(t *testing.T) {
	_, err := parseResultSet([]byte("{not json"), "LeagueGameLog")
	assert.Error(t, err)
}

func TestDecodeRow(t *testing.T) {
	row := map[string]interface{}{
		"TEAM_ID":      float64(1610612738),
		"ABBREVIATION": "BOS",
		"TEAM_NAME":    "Boston Celtics",
		"CONFERENCE":   "East",
	}

	var input models.TeamInput
	require.NoError(t, DecodeRow(row, &input))

	assert.Equal(t, 1610612738, input.TeamID)
	assert.Equal(t, "BOS", input.Abbreviation)
	assert.Equal(t, "Boston Celtics", input.FullName)

	team := input.ToTeam()
	assert.Equal(t, "East", team.Conference.String)
	assert.True(t, team.Conference.Valid)
	assert.False(t, team.Division.Valid)
}
