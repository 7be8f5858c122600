// Package advisor turns stored stats and odds into bet recommendations.
// The pipeline runs six stages in order: DataScout assembles the inputs,
// QuantAnalyst produces model probabilities, Narrative extracts qualitative
// signals, DebateRoom argues both sides, Judge scores the verdict, and
// Supervisor drives the stages with bounded retries.
package advisor

import (
	"context"
	"fmt"
	"time"

	"nba_edge/pipeline/internal/cache"
	"nba_edge/pipeline/internal/models"
	"nba_edge/pipeline/internal/repository"

	"github.com/rs/zerolog/log"
)

// GameContext is everything the downstream stages need about one matchup
type GameContext struct {
	Game     *models.Game
	HomeTeam *models.Team
	AwayTeam *models.Team

	HomeSeason *models.TeamSeasonStats
	AwaySeason *models.TeamSeasonStats

	HomeStanding *models.Standing
	AwayStanding *models.Standing

	// Recent finals, most recent first
	HomeRecent []*models.Game
	AwayRecent []*models.Game

	// Latest snapshots, sharpest book available
	SpreadOdds    *models.Odds
	TotalOdds     *models.Odds
	MoneylineOdds *models.Odds

	Movements []*models.LineMovement

	// Share of public money on the home side, 0 when no source is wired
	PublicHomeShare float64
}

// DataScout assembles game contexts from the repositories, with a
// read-through cache in front of the season aggregate lookups
type DataScout struct {
	db     *repository.Database
	cache  *cache.RedisCache
	season string

	statsTTL   time.Duration
	recentForm int
}

// NewDataScout creates a scout. cache may be nil, in which case every
// lookup goes to the database.
func NewDataScout(db *repository.Database, c *cache.RedisCache, season string, statsTTL time.Duration) *DataScout {
	return &DataScout{
		db:         db,
		cache:      c,
		season:     season,
		statsTTL:   statsTTL,
		recentForm: 10,
	}
}

// Gather builds the full context for one game. Missing odds are tolerated;
// missing season aggregates are not, since every model input depends on them.
func (s *DataScout) Gather(ctx context.Context, game *models.Game) (*GameContext, error) {
	gc := &GameContext{Game: game}

	var err error
	gc.HomeTeam, err = s.db.Teams.GetByAbbreviation(ctx, game.HomeTriCode)
	if err != nil {
		return nil, fmt.Errorf("scout home team: %w", err)
	}
	gc.AwayTeam, err = s.db.Teams.GetByAbbreviation(ctx, game.AwayTriCode)
	if err != nil {
		return nil, fmt.Errorf("scout away team: %w", err)
	}

	gc.HomeSeason, err = s.seasonStats(ctx, game.HomeTeamID)
	if err != nil {
		return nil, err
	}
	gc.AwaySeason, err = s.seasonStats(ctx, game.AwayTeamID)
	if err != nil {
		return nil, err
	}
	if gc.HomeSeason == nil || gc.AwaySeason == nil {
		return nil, fmt.Errorf("season aggregates not computed for game %s", game.GameID)
	}

	// Standings are a soft input, the narrative stage degrades without them
	gc.HomeStanding, _ = s.db.Standings.GetByTeam(ctx, game.HomeTeamID, s.season)
	gc.AwayStanding, _ = s.db.Standings.GetByTeam(ctx, game.AwayTeamID, s.season)

	gc.HomeRecent, err = s.db.Games.GetFinalsByTeam(ctx, game.HomeTeamID, s.season, s.recentForm)
	if err != nil {
		return nil, fmt.Errorf("scout home recent form: %w", err)
	}
	gc.AwayRecent, err = s.db.Games.GetFinalsByTeam(ctx, game.AwayTeamID, s.season, s.recentForm)
	if err != nil {
		return nil, fmt.Errorf("scout away recent form: %w", err)
	}

	if err := s.gatherOdds(ctx, gc); err != nil {
		return nil, err
	}

	gc.Movements, err = s.db.Odds.GetLineMovements(ctx, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("scout line movements: %w", err)
	}

	return gc, nil
}

// gatherOdds prefers Pinnacle lines and falls back to DraftKings
func (s *DataScout) gatherOdds(ctx context.Context, gc *GameContext) error {
	books := []string{string(models.BookPinnacle), string(models.BookDraftKings)}
	markets := []struct {
		market string
		dest   **models.Odds
	}{
		{models.MarketSpread, &gc.SpreadOdds},
		{models.MarketTotal, &gc.TotalOdds},
		{models.MarketMoneyline, &gc.MoneylineOdds},
	}

	for _, m := range markets {
		for _, book := range books {
			odds, err := s.db.Odds.GetLatestOdds(ctx, gc.Game.GameID, book, m.market)
			if err != nil {
				return fmt.Errorf("scout odds: %w", err)
			}
			if odds != nil {
				*m.dest = odds
				break
			}
		}
	}

	if gc.MoneylineOdds == nil {
		log.Debug().Str("game_id", gc.Game.GameID).Msg("No moneyline stored for game")
	}

	return nil
}

func (s *DataScout) seasonStats(ctx context.Context, teamID int) (*models.TeamSeasonStats, error) {
	key := fmt.Sprintf("season_stats:%s:%d", s.season, teamID)

	if s.cache != nil {
		var cached models.TeamSeasonStats
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to database")
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.db.Stats.GetTeamSeasonStats(ctx, teamID, s.season)
	if err != nil {
		return nil, fmt.Errorf("scout season stats: %w", err)
	}

	if stats != nil && s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, stats, s.statsTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}

	return stats, nil
}
