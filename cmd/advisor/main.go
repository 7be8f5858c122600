// Command advisor runs the pick pipeline over every upcoming game that
// has no stored prediction yet: trains the logistic model on the season's
// finals, gathers context per game, debates the pick and persists the
// verdict. Finishes by printing the value bets it found.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"nba_edge/pipeline/internal/advisor"
	"nba_edge/pipeline/internal/cache"
	"nba_edge/pipeline/internal/config"
	"nba_edge/pipeline/internal/metrics"
	"nba_edge/pipeline/internal/models"
	"nba_edge/pipeline/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	window := flag.Duration("window", 48*time.Hour, "how far ahead to look for games needing picks")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

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

	redisCache, err := cache.NewRedisCache(ctx, cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Train on the season's finals. An early-season run falls back to the
	// Pythagorean component alone.
	quant := &advisor.QuantAnalyst{}
	examples, err := advisor.BuildTrainingSet(ctx, db, cfg.Season)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to build training set, model stays untrained")
	} else if err := quant.Train(examples); err != nil {
		log.Warn().Err(err).Int("examples", len(examples)).Msg("Training failed, model stays untrained")
	} else {
		log.Info().Int("examples", len(examples)).Msg("Logistic model trained")
	}

	scout := advisor.NewDataScout(db, redisCache, cfg.Season,
		time.Duration(cfg.CacheTTLTeamStats)*time.Second)
	judge := advisor.NewJudge(cfg.AdvisorConfidenceFloor, cfg.AdvisorKellyMultiplier, cfg.AdvisorKellyCap)
	supervisor := advisor.NewSupervisor(advisor.New(scout, quant, judge), cfg.AdvisorMaxRetries)

	games, err := db.Games.ListUnpredicted(ctx, *window)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list games needing picks")
	}
	if len(games) == 0 {
		log.Info().Msg("No games need picks. Exiting.")
		return
	}
	log.Info().Int("count", len(games)).Msg("Games needing picks")

	var picks []*models.Prediction
	abandoned := 0
	for _, game := range games {
		start := time.Now()

		prediction, err := supervisor.Run(ctx, game)
		if err != nil {
			if errors.Is(err, advisor.ErrAbandoned) {
				log.Error().Err(err).Str("game_id", game.GameID).Msg("Pick abandoned")
				metrics.RecordAdvisorRun("abandoned", time.Since(start).Seconds())
				abandoned++
				continue
			}
			log.Fatal().Err(err).Str("game_id", game.GameID).Msg("Advisor run failed")
		}

		if err := db.Predictions.Create(ctx, prediction); err != nil {
			log.Error().Err(err).Str("game_id", game.GameID).Msg("Failed to save pick")
			continue
		}

		outcome := "abstain"
		if prediction.RecommendBet {
			outcome = "bet"
			picks = append(picks, prediction)
		}
		metrics.RecordAdvisorRun(outcome, time.Since(start).Seconds())

		log.Info().
			Str("game_id", game.GameID).
			Str("matchup", fmt.Sprintf("%s @ %s", game.AwayTriCode, game.HomeTriCode)).
			Str("outcome", outcome).
			Float64("confidence", prediction.ConfidenceScore.Float64).
			Msg("Pick saved")
	}

	log.Info().
		Int("games", len(games)).
		Int("bets", len(picks)).
		Int("abandoned", abandoned).
		Msg("Advisor run complete")

	printValueBets(picks, games)
}

// printValueBets writes the recommended bets to stdout, best edge first
func printValueBets(picks []*models.Prediction, games []*models.Game) {
	if len(picks) == 0 {
		fmt.Println("No value bets found.")
		return
	}

	gamesByID := make(map[string]*models.Game, len(games))
	for _, g := range games {
		gamesByID[g.GameID] = g
	}

	sort.Slice(picks, func(i, j int) bool {
		return picks[i].Edge.Float64 > picks[j].Edge.Float64
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MATCHUP\tTIPOFF\tSIDE\tMODEL\tMARKET\tEDGE\tCONF\tKELLY")
	for _, p := range picks {
		matchup := p.GameID
		tipoff := ""
		if g, ok := gamesByID[p.GameID]; ok {
			matchup = fmt.Sprintf("%s @ %s", g.AwayTriCode, g.HomeTriCode)
			tipoff = g.GameDate.Format("Jan 2 15:04")
		}

		// Probabilities are stored home-relative; flip for away picks
		sideProb := p.HomeWinProbability.Float64
		if p.BetSide.String == "away" {
			sideProb = 1 - sideProb
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%.1f%%\t%+.1f%%\t%.2f\t%.3f\n",
			matchup,
			tipoff,
			p.BetSide.String,
			100*sideProb,
			100*p.MarketProbability.Float64,
			100*p.Edge.Float64,
			p.ConfidenceScore.Float64,
			p.KellyFraction.Float64,
		)
	}
	w.Flush()
}
