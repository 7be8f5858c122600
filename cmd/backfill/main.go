// Command backfill loads a full season of historical data: schedule,
// standings, rosters and the box scores of every final game that is
// still missing its team lines. Run it before training the advisor on a
// past season.
package main

import (
	"context"
	"flag"
	"strconv"

	"nba_edge/pipeline/internal/books/draftkings"
	"nba_edge/pipeline/internal/books/pinnacle"
	"nba_edge/pipeline/internal/config"
	"nba_edge/pipeline/internal/nbastats"
	"nba_edge/pipeline/internal/repository"
	"nba_edge/pipeline/internal/scheduler"

	"github.com/rs/zerolog/log"
)

func main() {
	var (
		season    = flag.String("season", "", "season to backfill, stats.nba.com format (default: configured season)")
		boxScores = flag.Bool("boxscores", true, "fetch box scores for final games missing team lines")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()
	if *season != "" {
		cfg.Season = *season
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	statsClient := nbastats.NewClient(cfg.StatsBaseURL, cfg.StatsTimeout, cfg.StatsRPS, cfg.StatsBurst)
	session := pinnacle.NewSession(cfg.PinnacleCookie, cfg.PinnacleCookieTTL)
	pinnClient := pinnacle.NewClient(cfg.PinnacleBaseURL, session, cfg.PinnacleTimeout)
	dkClient := draftkings.NewClient(cfg.DraftKingsBaseURL, cfg.DraftKingsEventGroupID, cfg.DraftKingsTimeout)

	sched := scheduler.NewScheduler(cfg, statsClient, pinnClient, dkClient, db)

	log.Info().Str("season", cfg.Season).Msg("Starting season backfill")

	if err := sched.RefreshStaticData(ctx); err != nil {
		log.Fatal().Err(err).Msg("Static data backfill failed")
	}

	if !*boxScores {
		log.Info().Msg("Backfill complete (box scores skipped)")
		return
	}

	finals, err := db.Games.GetFinalsBySeason(ctx, cfg.Season)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list final games")
	}
	log.Info().Int("count", len(finals)).Msg("Final games found")

	ingested := 0
	skipped := 0
	failed := 0
	for _, game := range finals {
		// Both team lines present means the game is already ingested
		existing, err := db.Stats.GetTeamGameStats(ctx, game.GameID)
		if err == nil && len(existing) >= 2 {
			skipped++
			continue
		}

		if err := sched.IngestBoxScore(ctx, game.GameID); err != nil {
			log.Warn().Err(err).Str("game_id", game.GameID).Msg("Box score backfill failed")
			failed++
			continue
		}
		ingested++
	}

	log.Info().
		Int("ingested", ingested).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Season backfill complete")
}
