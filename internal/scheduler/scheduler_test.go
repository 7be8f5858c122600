package scheduler

import (
	"context"
	"testing"
	"time"

	"nba_edge/pipeline/internal/books/draftkings"
	"nba_edge/pipeline/internal/books/pinnacle"
	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameIndex() *gameIndex {
	return &gameIndex{
		byHomeTricode: map[string]*models.Game{
			"BOS": {GameID: "0022500901", HomeTriCode: "BOS", AwayTriCode: "MIA"},
			"LAL": {GameID: "0022500902", HomeTriCode: "LAL", AwayTriCode: "DEN"},
		},
		tricodeByName: map[string]string{
			"Boston Celtics":     "BOS",
			"Los Angeles Lakers": "LAL",
			"Miami Heat":         "MIA",
		},
	}
}

func TestGameIndexMatchByFullName(t *testing.T) {
	idx := testGameIndex()

	game := idx.matchByFullName("Boston Celtics")
	require.NotNil(t, game)
	assert.Equal(t, "0022500901", game.GameID)

	assert.Nil(t, idx.matchByFullName("Miami Heat"), "Away teams should not match a home-keyed index")
	assert.Nil(t, idx.matchByFullName("Seattle SuperSonics"))
}

func TestGameIndexMatchByShortName(t *testing.T) {
	idx := testGameIndex()

	game := idx.matchByShortName("LAL Lakers")
	require.NotNil(t, game)
	assert.Equal(t, "0022500902", game.GameID)

	assert.Nil(t, idx.matchByShortName("SEA SuperSonics"))
	assert.Nil(t, idx.matchByShortName("BOS"), "Name without a space has no tricode prefix")
}

func TestPinnacleSnapshots(t *testing.T) {
	e := &pinnacle.EventOdds{
		EventID:  1600123456,
		HomeTeam: "Boston Celtics",
		AwayTeam: "Miami Heat",

		HomeSpread:      -5.5,
		HomeSpreadPrice: 1.91,
		AwaySpreadPrice: 1.91,

		Total:      221.5,
		OverPrice:  1.95,
		UnderPrice: 1.87,

		HomeMoneyline: 1.62,
		AwayMoneyline: 2.35,
	}

	snapshots := pinnacleSnapshots(e, "0022500901")
	require.Len(t, snapshots, 3)

	spread := snapshots[0]
	assert.Equal(t, models.MarketSpread, spread.MarketType)
	assert.Equal(t, string(models.BookPinnacle), spread.Sportsbook)
	assert.Equal(t, models.PeriodFullGame, spread.Period)
	assert.Equal(t, "0022500901", spread.GameID)
	assert.Equal(t, -5.5, spread.HomeSpread.Float64)
	assert.Equal(t, 5.5, spread.AwaySpread.Float64)
	assert.Equal(t, int32(-110), spread.HomeSpreadJuice.Int32, "1.91 decimal is -110 american")

	total := snapshots[1]
	assert.Equal(t, models.MarketTotal, total.MarketType)
	assert.Equal(t, 221.5, total.Total.Float64)
	assert.True(t, total.OverJuice.Valid)
	assert.True(t, total.UnderJuice.Valid)

	moneyline := snapshots[2]
	assert.Equal(t, models.MarketMoneyline, moneyline.MarketType)
	assert.Equal(t, int32(-161), moneyline.HomeMoneyline.Int32)
	assert.Equal(t, int32(135), moneyline.AwayMoneyline.Int32)
}

func TestPinnacleSnapshotsSkipsMissingMarkets(t *testing.T) {
	// Spread only; total and moneyline absent from the compact feed
	e := &pinnacle.EventOdds{
		HomeTeam:        "Boston Celtics",
		HomeSpread:      -3.0,
		HomeSpreadPrice: 1.91,
		AwaySpreadPrice: 1.91,
	}

	snapshots := pinnacleSnapshots(e, "0022500901")
	require.Len(t, snapshots, 1)
	assert.Equal(t, models.MarketSpread, snapshots[0].MarketType)
}

func TestDraftKingsSnapshots(t *testing.T) {
	e := &draftkings.EventOdds{
		EventID:  "31500001",
		HomeTeam: "BOS Celtics",
		AwayTeam: "MIA Heat",

		HomeSpread:      -5.5,
		HomeSpreadPrice: -110,
		AwaySpreadPrice: -110,

		Total:      222.0,
		OverPrice:  -112,
		UnderPrice: -108,

		HomeMoneyline: -218,
		AwayMoneyline: 180,
	}

	snapshots := draftKingsSnapshots(e, "0022500901")
	require.Len(t, snapshots, 3)

	spread := snapshots[0]
	assert.Equal(t, string(models.BookDraftKings), spread.Sportsbook)
	assert.Equal(t, -5.5, spread.HomeSpread.Float64)
	assert.Equal(t, int32(-110), spread.HomeSpreadJuice.Int32)

	total := snapshots[1]
	assert.Equal(t, 222.0, total.Total.Float64)
	assert.Equal(t, int32(-112), total.OverJuice.Int32)
	assert.Equal(t, int32(-108), total.UnderJuice.Int32)

	moneyline := snapshots[2]
	assert.Equal(t, int32(-218), moneyline.HomeMoneyline.Int32)
	assert.Equal(t, int32(180), moneyline.AwayMoneyline.Int32)
}

func TestDraftKingsSnapshotsSkipsMissingMarkets(t *testing.T) {
	e := &draftkings.EventOdds{
		HomeTeam:      "BOS Celtics",
		HomeMoneyline: -218,
		AwayMoneyline: 180,
	}

	snapshots := draftKingsSnapshots(e, "0022500901")
	require.Len(t, snapshots, 1)
	assert.Equal(t, models.MarketMoneyline, snapshots[0].MarketType)
}

func TestNormalizedStatus(t *testing.T) {
	assert.Equal(t, models.StatusFinal, normalizedStatus("Final"))
	assert.Equal(t, models.StatusFinal, normalizedStatus("F/OT"))
	assert.Equal(t, models.StatusScheduled, normalizedStatus("Scheduled"))
	assert.Equal(t, models.StatusInProgress, normalizedStatus("End of 3rd Qtr"))
}

func TestSchedulerStartStop(t *testing.T) {
	s := &Scheduler{
		stopChan: make(chan struct{}),
	}

	s.liveTicker = time.NewTicker(time.Hour)
	s.oddsTicker = time.NewTicker(time.Hour)

	done := make(chan struct{})
	go func() {
		s.pollLoop(context.Background(), s.liveTicker, "test", nil)
		close(done)
	}()

	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll loop did not stop after Stop()")
	}
}
