// Command calcstats recomputes every team's season aggregates from the
// stored box score lines: shooting splits, pace, ratings and Pythagorean
// expectation. The advisor reads these aggregates, so run calcstats after
// any backfill.
package main

import (
	"context"
	"flag"
	"strconv"

	"nba_edge/pipeline/internal/analytics"
	"nba_edge/pipeline/internal/config"
	"nba_edge/pipeline/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	season := flag.String("season", "", "season to recompute (default: configured season)")
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

	teams, err := db.Teams.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list teams")
	}

	log.Info().Str("season", cfg.Season).Int("teams", len(teams)).Msg("Recomputing season aggregates")

	updated := 0
	for _, team := range teams {
		lines, err := db.Stats.GetTeamSeasonLines(ctx, team.ID, cfg.Season)
		if err != nil {
			log.Error().Err(err).Str("team", team.Abbreviation).Msg("Failed to load season lines")
			continue
		}
		opponents, err := db.Stats.GetOpponentSeasonLines(ctx, team.ID, cfg.Season)
		if err != nil {
			log.Error().Err(err).Str("team", team.Abbreviation).Msg("Failed to load opponent lines")
			continue
		}

		agg := analytics.ComputeSeasonAggregates(team.ID, cfg.Season, lines, opponents)
		if agg.GamesPlayed == 0 {
			log.Debug().Str("team", team.Abbreviation).Msg("No final games yet, skipping")
			continue
		}

		if err := db.Stats.UpsertTeamSeasonStats(ctx, agg); err != nil {
			log.Error().Err(err).Str("team", team.Abbreviation).Msg("Failed to save aggregates")
			continue
		}

		log.Info().
			Str("team", team.Abbreviation).
			Int("games", agg.GamesPlayed).
			Float64("net_rating", agg.NetRating).
			Float64("pace", agg.Pace).
			Msg("Aggregates updated")
		updated++
	}

	log.Info().Int("updated", updated).Msg("Season aggregate recompute complete")
}
