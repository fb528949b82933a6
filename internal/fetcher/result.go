package fetcher

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is the outcome of a successful lookup.
// The value is kept exactly as the source renders it (e.g. "36.123,45").
type Record struct {
	date  string
	value string
}

// NewRecord creates a record for date with the raw value text
func NewRecord(date, value string) Record {
	return Record{date: date, value: value}
}

// Date returns the requested date in YYYY-MM-DD form
func (r Record) Date() string {
	return r.date
}

// Value returns the value text as published
func (r Record) Value() string {
	return r.value
}

// ParseValue converts a value in Chilean notation (thousands dot, decimal comma)
// into a decimal. "36.123,45" becomes 36123.45.
func ParseValue(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse UF value %q: %w", s, err)
	}
	return d, nil
}
