package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NotSpecified is shown for optional text fields the API left out
const NotSpecified = "Not specified"

// ID is the server-assigned identifier of an entity. The API sends it either as a
// JSON string or a JSON number; the console never creates one.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil && !hasLeadingZero(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id as text
func (id ID) String() string {
	return string(id)
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0'
}

// Decimal accepts both JSON numbers and the quoted decimals the API uses for money
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid decimal: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			*d = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(d), 'f', -1, 64)), nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strOr(p *string, def string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return def
	}
	return *p
}

func num(p *Decimal) float64 {
	if p == nil {
		return 0
	}
	return float64(*p)
}

func intOf(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolOf(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}

// optStr maps a view string back to an optional wire field. The display
// placeholder and the empty string both mean "absent".
func optStr(s string) *string {
	if s == "" || s == NotSpecified {
		return nil
	}
	return &s
}

func idOf(p *ID) ID {
	if p == nil {
		return ""
	}
	return *p
}

func optID(id ID) *ID {
	if id == "" {
		return nil
	}
	return &id
}

func dec(f float64) *Decimal {
	d := Decimal(f)
	return &d
}
