// Package nbastats is the client for the stats.nba.com-style JSON API.
// The endpoints are undocumented and picky about headers, so every
// request carries the full browser header set and goes through a shared
// rate limiter.
package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"nba_edge/pipeline/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client is the stats API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new stats API client. rps/burst bound the request
// rate; the API bans aggressive callers.
func NewClient(baseURL string, timeout time.Duration, rps float64, burst int) *Client {
	return &Client{
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic and rate limiting
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	start := time.Now()
	body, err := c.doGet(ctx, path, params)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordStatsAPICall(path, status, time.Since(start).Seconds())

	return body, err
}

func (c *Client) doGet(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying stats API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		// The API rejects requests without a full browser header set
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "application/json, text/plain, */*")
		req.Header.Set("Referer", "https://www.nba.com/")
		req.Header.Set("Origin", "https://www.nba.com")
		req.Header.Set("x-nba-stats-origin", "stats")
		req.Header.Set("x-nba-stats-token", "true")

		if len(params) > 0 {
			q := req.URL.Query()
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()
		}

		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Making stats API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("stats API request failed: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			log.Debug().
				Str("url", url).
				Int("size", len(body)).
				Msg("Stats API request successful")
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("stats API returned retryable status %d", resp.StatusCode)
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			return nil, lastErr

		default:
			return nil, fmt.Errorf("stats API returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// FetchSchedule fetches the full game schedule for a season
func (c *Client) FetchSchedule(ctx context.Context, season string) ([]map[string]interface{}, error) {
	body, err := c.get(ctx, "leaguegamelog", map[string]string{
		"LeagueID":   "00",
		"Season":     season,
		"SeasonType": "Regular Season",
		"Sorter":     "DATE",
		"Direction":  "ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return parseResultSet(body, "LeagueGameLog")
}

// FetchScoreboard fetches game headers for a single day
func (c *Client) FetchScoreboard(ctx context.Context, gameDate time.Time) ([]map[string]interface{}, error) {
	body, err := c.get(ctx, "scoreboardv2", map[string]string{
		"LeagueID":  "00",
		"GameDate":  gameDate.Format("01/02/2006"),
		"DayOffset": "0",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}
	return parseResultSet(body, "GameHeader")
}

// FetchBoxScore fetches the player and team lines for one game.
// Returns player rows and team rows separately.
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (players, teams []map[string]interface{}, err error) {
	body, err := c.get(ctx, "boxscoretraditionalv2", map[string]string{
		"GameID":      gameID,
		"StartPeriod": "0",
		"EndPeriod":   "10",
		"RangeType":   "0",
		"StartRange":  "0",
		"EndRange":    "0",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch box score: %w", err)
	}

	players, err = parseResultSet(body, "PlayerStats")
	if err != nil {
		return nil, nil, err
	}
	teams, err = parseResultSet(body, "TeamStats")
	if err != nil {
		return nil, nil, err
	}
	return players, teams, nil
}

// FetchStandings fetches the current league standings. The resultset
// carries franchise columns on every row, so it doubles as the team feed.
func (c *Client) FetchStandings(ctx context.Context, season string) ([]map[string]interface{}, error) {
	body, err := c.get(ctx, "leaguestandingsv3", map[string]string{
		"LeagueID":   "00",
		"Season":     season,
		"SeasonType": "Regular Season",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standings: %w", err)
	}
	return parseResultSet(body, "Standings")
}

// FetchPlayers fetches the league-wide player index
func (c *Client) FetchPlayers(ctx context.Context, season string) ([]map[string]interface{}, error) {
	body, err := c.get(ctx, "playerindex", map[string]string{
		"LeagueID": "00",
		"Season":   season,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	return parseResultSet(body, "PlayerIndex")
}
