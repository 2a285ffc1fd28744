package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSessionExpired is returned when the access token could not be refreshed.
// The token store has already been cleared when callers see it.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// APIError is a non-2xx answer from the LIMS API, passed through unmodified
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("LIMS API returned status %d for %s %s", e.StatusCode, e.Method, e.Path)
}

// Message extracts the user-facing message from the error body.
// Precedence: "error", then "detail", then the stringified body, then Error().
func (e *APIError) Message() string {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 {
		return e.Error()
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err == nil {
		for _, key := range []string{"error", "detail"} {
			if msg := fieldMessage(data[key]); msg != "" {
				return msg
			}
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, body); err == nil {
			return compact.String()
		}
	}

	return string(body)
}

// FieldErrors returns field-keyed validation messages ({"name": ["required"]})
// found in the body, or nil when the body has another shape.
func (e *APIError) FieldErrors() map[string][]string {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &data); err != nil {
		return nil
	}

	out := make(map[string][]string)
	for field, raw := range data {
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil && len(msgs) > 0 {
			out[field] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func fieldMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}
