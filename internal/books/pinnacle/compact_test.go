package pinnacle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compactFixture = `{
	"n": [
		[4, "Basketball", [
			[487, "NBA", [
				[1594969210, "Boston Celtics", "Miami Heat", 0, 1764633600000,
					[-7.5, 1.952, 1.934],
					[218.5, 1.909, 1.980],
					[1.308, 3.720]
				],
				[1594969211, "Denver Nuggets", "Phoenix Suns", 0, 1764640800000,
					[-3.0, 1.909, 1.980],
					[224.0, 1.934, 1.952],
					[1.571, 2.430]
				]
			]]
		]]
	],
	"l": [
		[4, "Basketball", [
			[487, "NBA", [
				[1594969200, "Los Angeles Lakers", "Golden State Warriors", 1, 1764626400000,
					[2.5, 1.909, 1.980],
					[210.0, 1.909, 1.980],
					[2.100, 1.780]
				]
			]]
		]]
	]
}`

func TestParseCompactEvents(t *testing.T) {
	events, err := parseCompactEvents([]byte(compactFixture), true, true)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Live events come first
	live := events[0]
	assert.True(t, live.Live)
	assert.Equal(t, int64(1594969200), live.EventID)
	assert.Equal(t, "Los Angeles Lakers", live.HomeTeam)
	assert.Equal(t, "Golden State Warriors", live.AwayTeam)
	assert.Equal(t, 2.5, live.HomeSpread)

	prematch := events[1]
	assert.False(t, prematch.Live)
	assert.Equal(t, "NBA", prematch.League)
	assert.Equal(t, "Boston Celtics", prematch.HomeTeam)
	assert.Equal(t, -7.5, prematch.HomeSpread)
	assert.InDelta(t, 1.952, prematch.HomeSpreadPrice, 1e-9)
	assert.Equal(t, 218.5, prematch.Total)
	assert.InDelta(t, 1.909, prematch.OverPrice, 1e-9)
	assert.InDelta(t, 1.308, prematch.HomeMoneyline, 1e-9)
	assert.Equal(t, time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC), prematch.StartsAt)
}

func TestParseCompactEventsPrematchOnly(t *testing.T) {
	events, err := parseCompactEvents([]byte(compactFixture), false, true)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.False(t, e.Live)
	}
}

func TestParseCompactEventsMalformed(t *testing.T) {
	_, err := parseCompactEvents([]byte("[1,2,3"), true, true)
	assert.Error(t, err)

	// Valid JSON with garbage inside should parse to zero events, not error
	events, err := parseCompactEvents([]byte(`{"n": [[4]], "l": []}`), true, true)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSessionExpiry(t *testing.T) {
	s := NewSession("ASESSION=abc123", 50*time.Millisecond)

	cookie, err := s.Cookie()
	require.NoError(t, err)
	assert.Equal(t, "ASESSION=abc123", cookie)

	time.Sleep(60 * time.Millisecond)
	_, err = s.Cookie()
	assert.Error(t, err, "expired cookie must be rejected")

	s.Refresh("ASESSION=def456")
	cookie, err = s.Cookie()
	require.NoError(t, err)
	assert.Equal(t, "ASESSION=def456", cookie)
}

func TestSessionMissingCookie(t *testing.T) {
	s := NewSession("", time.Hour)
	_, err := s.Cookie()
	assert.Error(t, err)
}
