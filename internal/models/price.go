package models

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Price is a monetary amount decoded leniently from untrusted JSON.
// Numbers, numeric strings and BRL text ("R$ 1.299,90") are accepted;
// anything else decodes to zero.
type Price float64

// UnmarshalJSON never fails: malformed values become zero.
func (p *Price) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = 0
		return nil
	}

	*p = Price(ParsePrice(raw))

	return nil
}

// Float returns the amount as float64.
func (p Price) Float() float64 {
	return float64(p)
}

// Valid reports whether the amount can be shown as a price.
func (p Price) Valid() bool {
	return p > 0
}

// thousandsOnly matches amounts like "1.299" or "12.500.000" with dot groups and no decimals.
var thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParsePrice converts an arbitrary decoded JSON value into an amount.
// Strings with a comma, an "R$" prefix or dot-grouped thousands are read in
// Brazilian notation (dot groups, comma decimals).
func ParsePrice(value any) float64 {
	var (
		amount float64
		err    error
	)

	switch val := value.(type) {
	case nil, bool:
		return 0
	case string:
		brl := strings.Contains(val, "R$")
		text := strings.NewReplacer("R$", "", " ", "", "\u00a0", "").Replace(val)

		if brl || strings.Contains(text, ",") || thousandsOnly.MatchString(text) {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		}

		amount, err = cast.ToFloat64E(text)
	default:
		amount, err = cast.ToFloat64E(val)
	}

	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}

	return amount
}

// Timestamp is a point in time decoded leniently. Unknown formats decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts RFC 3339 strings, a few common layouts and unix milliseconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch val := raw.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				t.Time = parsed
				return nil
			}
		}
	case float64:
		if val > 0 {
			t.Time = time.UnixMilli(int64(val)).UTC()
		}
	}

	return nil
}

// MarshalJSON writes RFC 3339 in UTC, or null when unknown.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
