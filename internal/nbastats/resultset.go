package nbastats

import (
	"encoding/json"
	"fmt"
)

// The stats API returns tabular data as parallel header/row arrays
// instead of keyed objects:
//
//	{"resultSets": [{"name": "...", "headers": [...], "rowSet": [[...], ...]}]}
//
// parseResultSet zips the named table back into keyed rows so callers can
// unmarshal them into input structs.

type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

func parseResultSet(body []byte, name string) ([]map[string]interface{}, error) {
	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats response: %w", err)
	}

	for _, rs := range resp.ResultSets {
		if rs.Name != name {
			continue
		}

		rows := make([]map[string]interface{}, 0, len(rs.RowSet))
		for _, raw := range rs.RowSet {
			if len(raw) != len(rs.Headers) {
				// Ragged rows show up occasionally; skip rather than misalign columns
				continue
			}
			row := make(map[string]interface{}, len(rs.Headers))
			for i, header := range rs.Headers {
				row[header] = raw[i]
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	return nil, fmt.Errorf("result set %q not found in response", name)
}

// DecodeRow re-marshals a keyed row into a typed input struct. The
// round trip through JSON keeps the numeric coercion rules in one place.
func DecodeRow(row map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	if err := json.Unmarshal(jsonData, out); err != nil {
		return fmt.Errorf("failed to unmarshal row: %w", err)
	}
	return nil
}
