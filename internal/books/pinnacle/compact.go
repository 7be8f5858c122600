package pinnacle

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventOdds is one game's parsed line from the compact feed. Odds are
// decimal, spreads are from the home team's perspective.
type EventOdds struct {
	EventID  int64
	League   string
	HomeTeam string
	AwayTeam string
	StartsAt time.Time
	Live     bool

	HomeSpread      float64
	HomeSpreadPrice float64
	AwaySpreadPrice float64

	Total      float64
	OverPrice  float64
	UnderPrice float64

	HomeMoneyline float64
	AwayMoneyline float64
}

// compactResponse is the top of the compact-events payload: "l" holds
// live leagues, "n" holds pre-match leagues. Every level below is a
// positional array.
type compactResponse struct {
	L [][]interface{} `json:"l"`
	N [][]interface{} `json:"n"`
}

// parseCompactEvents parses the compact format:
//
//	section[i] = [sportID, sportName, [league, ...]]
//	league     = [leagueID, leagueName, [event, ...]]
//	event      = [eventID, home, away, status, startUnix, spread, total, moneyline]
//	spread     = [handicap, homePrice, awayPrice]
//	total      = [points, overPrice, underPrice]
//	moneyline  = [homePrice, awayPrice]
func parseCompactEvents(data []byte, includeLive, includePrematch bool) ([]*EventOdds, error) {
	var resp compactResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal compact events: %w", err)
	}

	var events []*EventOdds

	if includeLive && len(resp.L) > 0 {
		live, err := parseSection(resp.L, true)
		if err != nil {
			return nil, fmt.Errorf("parse live section: %w", err)
		}
		events = append(events, live...)
	}

	if includePrematch && len(resp.N) > 0 {
		prematch, err := parseSection(resp.N, false)
		if err != nil {
			return nil, fmt.Errorf("parse pre-match section: %w", err)
		}
		events = append(events, prematch...)
	}

	return events, nil
}

func parseSection(section [][]interface{}, live bool) ([]*EventOdds, error) {
	var events []*EventOdds

	for _, sportData := range section {
		if len(sportData) < 3 {
			continue
		}

		leagues, ok := sportData[2].([]interface{})
		if !ok {
			continue
		}

		for _, leagueData := range leagues {
			league, ok := leagueData.([]interface{})
			if !ok || len(league) < 3 {
				continue
			}

			leagueName, _ := league[1].(string)
			rawEvents, ok := league[2].([]interface{})
			if !ok {
				continue
			}

			for _, eventData := range rawEvents {
				if event := parseEvent(leagueName, eventData, live); event != nil {
					events = append(events, event)
				}
			}
		}
	}

	return events, nil
}

func parseEvent(leagueName string, eventData interface{}, live bool) *EventOdds {
	raw, ok := eventData.([]interface{})
	if !ok || len(raw) < 8 {
		return nil
	}

	eventID, ok := raw[0].(float64)
	if !ok {
		return nil
	}
	home, ok := raw[1].(string)
	if !ok {
		return nil
	}
	away, ok := raw[2].(string)
	if !ok {
		return nil
	}

	event := &EventOdds{
		EventID:  int64(eventID),
		League:   leagueName,
		HomeTeam: home,
		AwayTeam: away,
		Live:     live,
	}

	if startUnix, ok := raw[4].(float64); ok && startUnix > 0 {
		event.StartsAt = time.Unix(int64(startUnix)/1000, 0).UTC()
	}

	// Markets tail the event array; any of them may be absent
	if spread, ok := raw[5].([]interface{}); ok && len(spread) >= 3 {
		event.HomeSpread = toFloat(spread[0])
		event.HomeSpreadPrice = toFloat(spread[1])
		event.AwaySpreadPrice = toFloat(spread[2])
	}
	if total, ok := raw[6].([]interface{}); ok && len(total) >= 3 {
		event.Total = toFloat(total[0])
		event.OverPrice = toFloat(total[1])
		event.UnderPrice = toFloat(total[2])
	}
	if moneyline, ok := raw[7].([]interface{}); ok && len(moneyline) >= 2 {
		event.HomeMoneyline = toFloat(moneyline[0])
		event.AwayMoneyline = toFloat(moneyline[1])
	}

	return event
}

func toFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
