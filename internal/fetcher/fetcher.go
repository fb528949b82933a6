package fetcher

import (
	"context"
	"fmt"
)

// DateKey is a validated calendar date used to address the source.
// Build it with validate.Date; the zero value is not meaningful.
type DateKey struct {
	Year  int
	Month int
	Day   int
}

// String renders the key as YYYY-MM-DD.
// validate.Date only accepts that exact layout, so for a validated key this
// equals the requested date string; records are dated with it.
func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
}

// Source is the core interface for anything that can resolve the UF value of a date.
// Each call is independent: one lookup, no shared state between calls.
type Source interface {
	// Fetch retrieves the UF value published for key.
	// Errors are *FetchError of type ErrorTypeSource or ErrorTypeNotFound.
	Fetch(ctx context.Context, key DateKey) (Record, error)
}
