// Package draftkings pulls NBA lines from the public sportsbook
// eventgroup API. Unlike Pinnacle there is no session to maintain, but
// the response nests offers three levels deep and prices are american.
package draftkings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client fetches the NBA event group from the sportsbook API
type Client struct {
	baseURL      string
	eventGroupID string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a DraftKings client for one event group (NBA)
func NewClient(baseURL, eventGroupID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		eventGroupID: eventGroupID,
		limiter:      rate.NewLimiter(rate.Limit(1), 2),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchEventGroup fetches and parses the full event group feed
func (c *Client) FetchEventGroup(ctx context.Context) ([]*EventOdds, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/sites/US-SB/api/v5/eventgroups/%s?format=json", c.baseURL, c.eventGroupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("draftkings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("draftkings returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read draftkings response: %w", err)
	}

	events, err := parseEventGroup(body)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(events)).Msg("DraftKings events parsed")
	return events, nil
}

// EventOdds is one game's parsed line. Prices are american odds.
type EventOdds struct {
	EventID  string
	HomeTeam string
	AwayTeam string
	StartsAt time.Time

	HomeSpread      float64
	HomeSpreadPrice int
	AwaySpreadPrice int

	Total      float64
	OverPrice  int
	UnderPrice int

	HomeMoneyline int
	AwayMoneyline int
}

// Wire types for the eventgroup payload. Only the fields the parser
// touches are declared.
type eventGroupResponse struct {
	EventGroup struct {
		Events               []dkEvent        `json:"events"`
		OfferCategories      []dkOfferCategory `json:"offerCategories"`
	} `json:"eventGroup"`
}

type dkEvent struct {
	EventID   string `json:"eventId"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	TeamName1 string `json:"teamName1"` // away
	TeamName2 string `json:"teamName2"` // home
}

type dkOfferCategory struct {
	Name                 string `json:"name"`
	OfferSubcategoryDescriptors []struct {
		OfferSubcategory struct {
			Offers [][]dkOffer `json:"offers"`
		} `json:"offerSubcategory"`
	} `json:"offerSubcategoryDescriptors"`
}

type dkOffer struct {
	EventID  string      `json:"eventId"`
	Label    string      `json:"label"`
	Outcomes []dkOutcome `json:"outcomes"`
}

type dkOutcome struct {
	Label     string   `json:"label"`
	OddsAmerican string `json:"oddsAmerican"`
	Line      *float64 `json:"line,omitempty"`
}

func parseEventGroup(body []byte) ([]*EventOdds, error) {
	var resp eventGroupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal event group: %w", err)
	}

	byID := make(map[string]*EventOdds)
	var ordered []*EventOdds
	for _, ev := range resp.EventGroup.Events {
		event := &EventOdds{
			EventID:  ev.EventID,
			AwayTeam: ev.TeamName1,
			HomeTeam: ev.TeamName2,
		}
		if t, err := time.Parse(time.RFC3339, ev.StartDate); err == nil {
			event.StartsAt = t
		}
		byID[ev.EventID] = event
		ordered = append(ordered, event)
	}

	for _, category := range resp.EventGroup.OfferCategories {
		for _, descriptor := range category.OfferSubcategoryDescriptors {
			for _, offerRow := range descriptor.OfferSubcategory.Offers {
				for _, offer := range offerRow {
					event, ok := byID[offer.EventID]
					if !ok {
						continue
					}
					applyOffer(event, &offer)
				}
			}
		}
	}

	return ordered, nil
}

func applyOffer(event *EventOdds, offer *dkOffer) {
	switch offer.Label {
	case "Spread":
		for _, o := range offer.Outcomes {
			price, err := parseAmerican(o.OddsAmerican)
			if err != nil || o.Line == nil {
				continue
			}
			if o.Label == event.HomeTeam {
				event.HomeSpread = *o.Line
				event.HomeSpreadPrice = price
			} else if o.Label == event.AwayTeam {
				event.AwaySpreadPrice = price
			}
		}
	case "Total":
		for _, o := range offer.Outcomes {
			price, err := parseAmerican(o.OddsAmerican)
			if err != nil || o.Line == nil {
				continue
			}
			switch o.Label {
			case "Over":
				event.Total = *o.Line
				event.OverPrice = price
			case "Under":
				event.UnderPrice = price
			}
		}
	case "Moneyline":
		for _, o := range offer.Outcomes {
			price, err := parseAmerican(o.OddsAmerican)
			if err != nil {
				continue
			}
			if o.Label == event.HomeTeam {
				event.HomeMoneyline = price
			} else if o.Label == event.AwayTeam {
				event.AwayMoneyline = price
			}
		}
	}
}

// parseAmerican parses DK's string-encoded american odds ("-110", "+150")
func parseAmerican(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty odds string")
	}
	if s[0] == '+' {
		s = s[1:]
	}
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("bad american odds %q: %w", s, err)
	}
	return v, nil
}
