package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// page is the paginated list envelope the LIMS API uses on some endpoints
type page[W any] struct {
	Count   *int `json:"count"`
	Results []W  `json:"results"`
}

// DecodeList decodes either a bare JSON array or a {"results": [...]} page envelope.
// The returned total is the envelope count when present, the item count otherwise.
func DecodeList[W any](raw json.RawMessage) ([]W, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []W{}, 0, nil
	}

	if raw[0] == '[' {
		var items []W
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, len(items), nil
	}

	var p page[W]
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, 0, fmt.Errorf("failed to decode page envelope: %w", err)
	}
	if p.Results == nil {
		p.Results = []W{}
	}
	total := len(p.Results)
	if p.Count != nil {
		total = *p.Count
	}
	return p.Results, total, nil
}

// DecodeEntity decodes a single entity, unwrapping it from a resource-named key
// ({"tenant_user": {...}}) when that key holds an object.
func DecodeEntity[W any](raw json.RawMessage, key string) (W, error) {
	var out W
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out, nil
	}

	if key != "" && raw[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err == nil {
			if inner := bytes.TrimSpace(wrapped[key]); len(inner) > 0 && inner[0] == '{' {
				raw = inner
			}
		}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode entity: %w", err)
	}
	return out, nil
}
