package draftkings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventGroupFixture = `{
	"eventGroup": {
		"events": [
			{
				"eventId": "30500001",
				"name": "MIA Heat @ BOS Celtics",
				"startDate": "2025-12-02T00:10:00Z",
				"teamName1": "MIA Heat",
				"teamName2": "BOS Celtics"
			}
		],
		"offerCategories": [
			{
				"name": "Game Lines",
				"offerSubcategoryDescriptors": [
					{
						"offerSubcategory": {
							"offers": [
								[
									{
										"eventId": "30500001",
										"label": "Spread",
										"outcomes": [
											{"label": "BOS Celtics", "oddsAmerican": "-108", "line": -7.5},
											{"label": "MIA Heat", "oddsAmerican": "-112", "line": 7.5}
										]
									},
									{
										"eventId": "30500001",
										"label": "Total",
										"outcomes": [
											{"label": "Over", "oddsAmerican": "-110", "line": 219.5},
											{"label": "Under", "oddsAmerican": "-110", "line": 219.5}
										]
									},
									{
										"eventId": "30500001",
										"label": "Moneyline",
										"outcomes": [
											{"label": "BOS Celtics", "oddsAmerican": "-320"},
											{"label": "MIA Heat", "oddsAmerican": "+260"}
										]
									}
								]
							]
						}
					}
				]
			}
		]
	}
}`

func TestParseEventGroup(t *testing.T) {
	events, err := parseEventGroup([]byte(eventGroupFixture))
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "30500001", e.EventID)
	assert.Equal(t, "BOS Celtics", e.HomeTeam)
	assert.Equal(t, "MIA Heat", e.AwayTeam)

	assert.Equal(t, -7.5, e.HomeSpread)
	assert.Equal(t, -108, e.HomeSpreadPrice)
	assert.Equal(t, -112, e.AwaySpreadPrice)

	assert.Equal(t, 219.5, e.Total)
	assert.Equal(t, -110, e.OverPrice)
	assert.Equal(t, -110, e.UnderPrice)

	assert.Equal(t, -320, e.HomeMoneyline)
	assert.Equal(t, 260, e.AwayMoneyline)
}

func TestParseEventGroupBadJSON(t *testing.T) {
	_, err := parseEventGroup([]byte("{"))
	assert.Error(t, err)
}

func TestParseAmerican(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"-110", -110, true},
		{"+150", 150, true},
		{"100", 100, true},
		{"", 0, false},
		{"EVEN", 0, false},
	}

	for _, tc := range cases {
		got, err := parseAmerican(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}
