// Package scheduler runs the background ingestion: a nightly refresh of
// static data, a live-game poll and an odds poll on separate tickers.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"nba_edge/pipeline/internal/books/draftkings"
	"nba_edge/pipeline/internal/books/pinnacle"
	"nba_edge/pipeline/internal/config"
	"nba_edge/pipeline/internal/metrics"
	"nba_edge/pipeline/internal/models"
	"nba_edge/pipeline/internal/nbastats"
	"nba_edge/pipeline/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler manages the background ingestion tasks
type Scheduler struct {
	cfg   *config.Config
	stats *nbastats.Client
	pinn  *pinnacle.Client
	dk    *draftkings.Client
	db    *repository.Database

	cron       *cron.Cron
	liveTicker *time.Ticker
	oddsTicker *time.Ticker
	stopChan   chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, stats *nbastats.Client, pinn *pinnacle.Client, dk *draftkings.Client, db *repository.Database) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		stats:    stats,
		pinn:     pinn,
		dk:       dk,
		db:       db,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the nightly cron and the two polling loops
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly refresh...")
		if err := s.RefreshStaticData(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly refresh failed")
			metrics.RecordError("scheduler", "nightly_refresh")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRefreshCron).
		Msg("Nightly refresh scheduled")

	liveInterval := time.Duration(s.cfg.LiveGamePollInterval) * time.Second
	s.liveTicker = time.NewTicker(liveInterval)
	go s.pollLoop(ctx, s.liveTicker, "live games", s.SyncLiveGames)
	log.Info().Dur("interval", liveInterval).Msg("Live game polling started")

	oddsInterval := time.Duration(s.cfg.OddsPollInterval) * time.Second
	s.oddsTicker = time.NewTicker(oddsInterval)
	go s.pollLoop(ctx, s.oddsTicker, "odds", s.SyncOdds)
	log.Info().Dur("interval", oddsInterval).Msg("Odds polling started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}
	if s.liveTicker != nil {
		s.liveTicker.Stop()
	}
	if s.oddsTicker != nil {
		s.oddsTicker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) pollLoop(ctx context.Context, ticker *time.Ticker, name string, fn func(context.Context) error) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("poll", name).Msg("Context cancelled, stopping poll loop")
			return
		case <-s.stopChan:
			log.Info().Str("poll", name).Msg("Stop signal received, stopping poll loop")
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Error().Err(err).Str("poll", name).Msg("Poll failed")
				metrics.RecordError("scheduler", name)
			}
		}
	}
}

// RefreshStaticData refreshes teams, players, the season schedule and
// standings. Run nightly and as the initial sync.
func (s *Scheduler) RefreshStaticData(ctx context.Context) error {
	start := time.Now()
	log.Info().Str("season", s.cfg.Season).Msg("Refreshing static data...")

	if err := s.syncTeamsAndStandings(ctx); err != nil {
		metrics.RecordSync("static_refresh", "failure", time.Since(start).Seconds())
		return err
	}
	if err := s.syncPlayers(ctx); err != nil {
		metrics.RecordSync("static_refresh", "failure", time.Since(start).Seconds())
		return err
	}
	if err := s.syncSchedule(ctx); err != nil {
		metrics.RecordSync("static_refresh", "failure", time.Since(start).Seconds())
		return err
	}

	s.updateIngestionGauges(ctx)
	metrics.RecordSync("static_refresh", "success", time.Since(start).Seconds())
	log.Info().Dur("duration", time.Since(start)).Msg("Static data refresh complete")
	return nil
}

// syncTeamsAndStandings decodes the standings rows into both team and
// standing records; the feed carries franchise data on every row.
func (s *Scheduler) syncTeamsAndStandings(ctx context.Context) error {
	rows, err := s.stats.FetchStandings(ctx, s.cfg.Season)
	if err != nil {
		return fmt.Errorf("failed to fetch standings: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("Standings rows fetched")

	saved := 0
	for _, row := range rows {
		var teamInput models.TeamInput
		if err := nbastats.DecodeRow(row, &teamInput); err != nil {
			log.Warn().Err(err).Msg("Failed to decode team row")
			continue
		}

		team := teamInput.ToTeam()
		if err := s.db.Teams.Upsert(ctx, team); err != nil {
			log.Error().Err(err).Int("team_id", teamInput.TeamID).Msg("Failed to save team")
			continue
		}

		var standingInput models.StandingInput
		if err := nbastats.DecodeRow(row, &standingInput); err != nil {
			log.Warn().Err(err).Msg("Failed to decode standing row")
			continue
		}

		standing := standingInput.ToStanding(team.ID, s.cfg.Season)
		if err := s.db.Standings.Upsert(ctx, standing); err != nil {
			log.Error().Err(err).Int("team_id", teamInput.TeamID).Msg("Failed to save standing")
			continue
		}

		saved++
	}
	log.Info().Int("count", saved).Msg("Teams and standings saved to database")
	return nil
}

func (s *Scheduler) syncPlayers(ctx context.Context) error {
	rows, err := s.stats.FetchPlayers(ctx, s.cfg.Season)
	if err != nil {
		return fmt.Errorf("failed to fetch players: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("Players fetched")

	saved := 0
	for _, row := range rows {
		var input models.PlayerInput
		if err := nbastats.DecodeRow(row, &input); err != nil {
			log.Warn().Err(err).Msg("Failed to decode player row")
			continue
		}

		player := input.ToPlayer()

		// ToPlayer carries the stats API team id; swap in the database id
		player.TeamID = sql.NullInt32{}
		if input.TeamID > 0 {
			if team, err := s.db.Teams.GetByTeamID(ctx, input.TeamID); err == nil {
				player.TeamID = sql.NullInt32{Int32: int32(team.ID), Valid: true}
			}
		}

		if err := s.db.Players.Upsert(ctx, player); err != nil {
			log.Error().Err(err).Int("player_id", input.PlayerID).Msg("Failed to save player")
			continue
		}
		saved++
	}
	log.Info().Int("count", saved).Msg("Players saved to database")
	return nil
}

func (s *Scheduler) syncSchedule(ctx context.Context) error {
	rows, err := s.stats.FetchSchedule(ctx, s.cfg.Season)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("Schedule rows fetched")

	saved := 0
	for _, row := range rows {
		if err := s.upsertGameRow(ctx, row); err != nil {
			log.Warn().Err(err).Msg("Failed to save scheduled game")
			continue
		}
		saved++
	}
	log.Info().Int("count", saved).Msg("Schedule saved to database")
	return nil
}

// upsertGameRow decodes one game row and resolves team ids before the upsert
func (s *Scheduler) upsertGameRow(ctx context.Context, row map[string]interface{}) error {
	var input models.GameInput
	if err := nbastats.DecodeRow(row, &input); err != nil {
		return fmt.Errorf("decode game row: %w", err)
	}
	if input.GameID == "" {
		return fmt.Errorf("game row missing GAME_ID")
	}
	if input.Season == "" {
		input.Season = s.cfg.Season
	}

	home, err := s.db.Teams.GetByTeamID(ctx, input.HomeTeamID)
	if err != nil {
		return fmt.Errorf("resolve home team %d: %w", input.HomeTeamID, err)
	}
	away, err := s.db.Teams.GetByTeamID(ctx, input.AwayTeamID)
	if err != nil {
		return fmt.Errorf("resolve away team %d: %w", input.AwayTeamID, err)
	}

	game := input.ToGame(home.ID, away.ID)
	if game.HomeTriCode == "" {
		game.HomeTriCode = home.Abbreviation
	}
	if game.AwayTriCode == "" {
		game.AwayTriCode = away.Abbreviation
	}

	return s.db.Games.Upsert(ctx, game)
}

// SyncLiveGames polls the scoreboard for today, updates game rows, and
// ingests box scores for games that just went final.
func (s *Scheduler) SyncLiveGames(ctx context.Context) error {
	start := time.Now()

	rows, err := s.stats.FetchScoreboard(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	var justFinal []string
	for _, row := range rows {
		var input models.GameInput
		if err := nbastats.DecodeRow(row, &input); err != nil {
			log.Warn().Err(err).Msg("Failed to decode scoreboard row")
			continue
		}

		prev, _ := s.db.Games.GetByGameID(ctx, input.GameID)

		if err := s.upsertGameRow(ctx, row); err != nil {
			log.Error().Err(err).Str("game_id", input.GameID).Msg("Failed to update live game")
			continue
		}

		// Box scores are pulled once, on the transition to final
		if prev != nil && !prev.IsFinal() && models.StatusFinal == normalizedStatus(input.Status) {
			justFinal = append(justFinal, input.GameID)
		}
	}

	active, err := s.db.Games.GetActiveGames(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active games: %w", err)
	}
	metrics.ActiveGames.Set(float64(len(active)))

	var wg sync.WaitGroup
	for _, gameID := range justFinal {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.IngestBoxScore(ctx, id); err != nil {
				log.Error().Err(err).Str("game_id", id).Msg("Failed to ingest box score")
				metrics.RecordError("scheduler", "box_score")
			}
		}(gameID)
	}
	wg.Wait()

	log.Info().
		Int("scoreboard_rows", len(rows)).
		Int("active_games", len(active)).
		Int("finalized", len(justFinal)).
		Dur("duration", time.Since(start)).
		Msg("Live game poll complete")

	return nil
}

func normalizedStatus(statusText string) string {
	g := models.GameInput{Status: statusText}
	return g.ToGame(0, 0).Status
}

// IngestBoxScore fetches and stores both team lines and all player lines
// for one game
func (s *Scheduler) IngestBoxScore(ctx context.Context, gameID string) error {
	players, teams, err := s.stats.FetchBoxScore(ctx, gameID)
	if err != nil {
		return err
	}

	for _, row := range teams {
		var input models.TeamGameStatsInput
		if err := nbastats.DecodeRow(row, &input); err != nil {
			log.Warn().Err(err).Str("game_id", gameID).Msg("Failed to decode team box score row")
			continue
		}

		team, err := s.db.Teams.GetByTeamID(ctx, input.TeamID)
		if err != nil {
			log.Warn().Err(err).Int("team_id", input.TeamID).Msg("Unknown team in box score")
			continue
		}

		if err := s.db.Stats.UpsertTeamGameStats(ctx, input.ToTeamGameStats(team.ID)); err != nil {
			log.Error().Err(err).Str("game_id", gameID).Msg("Failed to save team box score")
		}
	}

	for _, row := range players {
		var input models.PlayerGameStatsInput
		if err := nbastats.DecodeRow(row, &input); err != nil {
			log.Warn().Err(err).Str("game_id", gameID).Msg("Failed to decode player box score row")
			continue
		}
		if input.DidNotPlay() {
			continue
		}

		team, err := s.db.Teams.GetByTeamID(ctx, input.TeamID)
		if err != nil {
			continue
		}

		if err := s.db.Stats.UpsertPlayerGameStats(ctx, input.ToPlayerGameStats(team.ID)); err != nil {
			log.Error().Err(err).Str("game_id", gameID).Int("player_id", input.PlayerID).Msg("Failed to save player box score")
		}
	}

	log.Debug().Str("game_id", gameID).Msg("Box score ingested")
	return nil
}

// SyncOdds fetches lines from both books and stores snapshots for every
// game it can match. A book failing is logged, not fatal; the other book
// still syncs.
func (s *Scheduler) SyncOdds(ctx context.Context) error {
	start := time.Now()

	index, err := s.buildGameIndex(ctx)
	if err != nil {
		return err
	}
	if len(index.byHomeTricode) == 0 {
		log.Debug().Msg("No games in the odds window")
		return nil
	}

	s.syncPinnacle(ctx, index)
	s.syncDraftKings(ctx, index)

	metrics.RecordSync("odds", "success", time.Since(start).Seconds())
	log.Info().Dur("duration", time.Since(start)).Msg("Odds poll complete")
	return nil
}

// gameIndex maps book team naming onto stored games
type gameIndex struct {
	byHomeTricode map[string]*models.Game
	tricodeByName map[string]string // "Boston Celtics" -> "BOS"
}

func (s *Scheduler) buildGameIndex(ctx context.Context) (*gameIndex, error) {
	idx := &gameIndex{
		byHomeTricode: make(map[string]*models.Game),
		tricodeByName: make(map[string]string),
	}

	upcoming, err := s.db.Games.GetUpcoming(ctx, 48*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming games: %w", err)
	}
	active, err := s.db.Games.GetActiveGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games: %w", err)
	}

	// Earliest game wins when a team hosts twice inside the window
	for _, g := range append(active, upcoming...) {
		if _, exists := idx.byHomeTricode[g.HomeTriCode]; !exists {
			idx.byHomeTricode[g.HomeTriCode] = g
		}
	}

	teams, err := s.db.Teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, t := range teams {
		idx.tricodeByName[t.FullName] = t.Abbreviation
	}

	return idx, nil
}

// matchByFullName resolves "Boston Celtics" to its game
func (idx *gameIndex) matchByFullName(name string) *models.Game {
	tricode, ok := idx.tricodeByName[name]
	if !ok {
		return nil
	}
	return idx.byHomeTricode[tricode]
}

// matchByShortName resolves "BOS Celtics" style names, where the first
// token is the tricode
func (idx *gameIndex) matchByShortName(name string) *models.Game {
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			return idx.byHomeTricode[name[:i]]
		}
	}
	return nil
}

func (s *Scheduler) syncPinnacle(ctx context.Context, idx *gameIndex) {
	start := time.Now()
	events, err := s.pinn.FetchEvents(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Pinnacle fetch failed")
		metrics.RecordBookFetch(string(models.BookPinnacle), "failure", time.Since(start).Seconds())
		return
	}
	metrics.RecordBookFetch(string(models.BookPinnacle), "success", time.Since(start).Seconds())

	matched := 0
	for _, e := range events {
		game := idx.matchByFullName(e.HomeTeam)
		if game == nil {
			continue
		}
		matched++
		s.saveSnapshots(ctx, pinnacleSnapshots(e, game.GameID))
	}

	log.Info().Int("events", len(events)).Int("matched", matched).Msg("Pinnacle odds synced")
}

func (s *Scheduler) syncDraftKings(ctx context.Context, idx *gameIndex) {
	start := time.Now()
	events, err := s.dk.FetchEventGroup(ctx)
	if err != nil {
		log.Error().Err(err).Msg("DraftKings fetch failed")
		metrics.RecordBookFetch(string(models.BookDraftKings), "failure", time.Since(start).Seconds())
		return
	}
	metrics.RecordBookFetch(string(models.BookDraftKings), "success", time.Since(start).Seconds())

	matched := 0
	for _, e := range events {
		game := idx.matchByShortName(e.HomeTeam)
		if game == nil {
			continue
		}
		matched++
		s.saveSnapshots(ctx, draftKingsSnapshots(e, game.GameID))
	}

	log.Info().Int("events", len(events)).Int("matched", matched).Msg("DraftKings odds synced")
}

func (s *Scheduler) saveSnapshots(ctx context.Context, snapshots []*models.Odds) {
	for _, odds := range snapshots {
		movement, err := s.db.Odds.TrackAndSaveOdds(ctx, odds)
		if err != nil {
			log.Error().
				Err(err).
				Str("game_id", odds.GameID).
				Str("sportsbook", odds.Sportsbook).
				Str("market", odds.MarketType).
				Msg("Failed to save odds")
			continue
		}
		if movement != nil {
			metrics.RecordLineMovement()
		}
	}
}

func (s *Scheduler) updateIngestionGauges(ctx context.Context) {
	teams, err := s.db.Teams.Count(ctx)
	if err != nil {
		return
	}
	games, err := s.db.Games.CountBySeason(ctx, s.cfg.Season)
	if err != nil {
		return
	}
	active, err := s.db.Games.GetActiveGames(ctx)
	if err != nil {
		return
	}
	metrics.UpdateIngestionStats(int64(teams), int64(games), int64(len(active)))
}
