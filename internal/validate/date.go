// Package validate checks user supplied dates before any network work happens.
package validate

import (
	"time"

	"uffetcher/internal/fetcher"
)

// Layout is the only accepted input format
const Layout = "2006-01-02"

// MinDate is the earliest date the source publishes values for
var MinDate = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)

// Date parses input as YYYY-MM-DD and checks it lies between MinDate and the
// calendar day of now, both inclusive. Failures are FetchErrors of type
// ErrorTypeInvalidDate.
func Date(input string, now time.Time) (fetcher.DateKey, error) {
	parsed, err := time.Parse(Layout, input)
	if err != nil {
		return fetcher.DateKey{}, fetcher.NewInvalidDateError("Invalid date format. Use YYYY-MM-DD")
	}

	if parsed.Before(MinDate) {
		return fetcher.DateKey{}, fetcher.NewInvalidDateError("Date must be >= " + MinDate.Format(Layout))
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.After(today) {
		return fetcher.DateKey{}, fetcher.NewInvalidDateError("Date cannot be in the future")
	}

	return fetcher.DateKey{
		Year:  parsed.Year(),
		Month: int(parsed.Month()),
		Day:   parsed.Day(),
	}, nil
}
