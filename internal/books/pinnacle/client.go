// Package pinnacle scrapes the ps3838 compact-events API. The site has
// no public API: requests ride on a session cookie that expires, and the
// response packs events into positional arrays rather than keyed JSON.
package pinnacle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"nba_edge/pipeline/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// basketball sport id in the compact-events API
const sportBasketball = "4"

// Session holds the manually provisioned cookie and its expiry. The
// cookie comes from a logged-in browser session and has to be rotated
// by hand when it lapses.
type Session struct {
	mu        sync.Mutex
	cookie    string
	ttl       time.Duration
	expiresAt time.Time
}

// NewSession creates a session from a raw Cookie header value
func NewSession(cookie string, ttl time.Duration) *Session {
	return &Session{
		cookie:    cookie,
		ttl:       ttl,
		expiresAt: time.Now().Add(ttl),
	}
}

// Cookie returns the current cookie, or an error if it has expired
func (s *Session) Cookie() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cookie == "" {
		return "", fmt.Errorf("pinnacle session cookie not configured")
	}
	if time.Now().After(s.expiresAt) {
		return "", fmt.Errorf("pinnacle session cookie expired at %s", s.expiresAt.Format(time.RFC3339))
	}
	return s.cookie, nil
}

// Refresh replaces the cookie and resets the expiry clock
func (s *Session) Refresh(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookie = cookie
	s.expiresAt = time.Now().Add(s.ttl)
	metrics.RecordSessionRefresh()
	log.Info().Time("expires_at", s.expiresAt).Msg("Pinnacle session cookie refreshed")
}

// Client fetches compact events from ps3838
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Pinnacle client. The circuit breaker trips open
// after consecutive failures so a dead session doesn't turn into a
// request storm against the site.
func NewClient(baseURL string, session *Session, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pinnacle",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL: baseURL,
		session: session,
		limiter: rate.NewLimiter(rate.Limit(0.5), 1), // one request every 2s
		breaker: breaker,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchEvents fetches the basketball compact-events feed and parses it
// into per-game odds snapshots
func (c *Client) FetchEvents(ctx context.Context) ([]*EventOdds, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchCompact(ctx)
	})
	if err != nil {
		return nil, err
	}

	events, err := parseCompactEvents(body.([]byte), true, true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compact events: %w", err)
	}

	log.Debug().Int("count", len(events)).Msg("Pinnacle events parsed")
	return events, nil
}

func (c *Client) fetchCompact(ctx context.Context) ([]byte, error) {
	cookie, err := c.session.Cookie()
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/sports-service/sv/compact/events?sp=%s&mk=0&ev=&l=3&o=1", c.baseURL, sportBasketball)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Cookie", cookie)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.baseURL+"/en/sports")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinnacle request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("pinnacle session rejected (status %d), cookie needs rotation", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinnacle returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pinnacle response: %w", err)
	}

	return body, nil
}
