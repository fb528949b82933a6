package coordinator

import (
	"context"
	"fmt"
	"io"
	"sync"

	"uffetcher/internal/fetcher"
	"uffetcher/internal/ufservice"
)

// Lookup resolves the UF value for one date
type Lookup interface {
	GetValue(ctx context.Context, date string) (ufservice.Value, error)
}

// Result represents the outcome of one lookup.
// It is sent through a channel from worker goroutines to the coordinator.
type Result struct {
	// Date is the requested date, as given
	Date string

	// Value is the resolved value; invalid when Error is set
	Value ufservice.Value

	// Error contains any error that occurred during the lookup
	Error error

	index int
}

// Coordinator runs independent lookups concurrently and reports them
type Coordinator struct {
	lookup  Lookup
	out     io.Writer
	decimal bool
}

// New creates a new Coordinator writing one line per result to out
func New(lookup Lookup, out io.Writer) *Coordinator {
	return &Coordinator{
		lookup: lookup,
		out:    out,
	}
}

// WithDecimal makes the coordinator print values as plain decimals
// ("36123.45") instead of the source notation ("36.123,45")
func (c *Coordinator) WithDecimal(enabled bool) *Coordinator {
	c.decimal = enabled
	return c
}

// Run looks up every date in its own goroutine and prints results as they arrive:
//   - Success: "DATE: VALUE"
//   - Error: "DATE: ERROR - error message"
//
// The returned results follow the order of dates.
func (c *Coordinator) Run(ctx context.Context, dates []string) ([]Result, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("no dates given")
	}

	resultChan := make(chan Result, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()

			value, err := c.lookup.GetValue(ctx, date)
			resultChan <- Result{
				Date:  date,
				Value: value,
				Error: err,
				index: i,
			}
		}(i, date)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, len(dates))
	for result := range resultChan {
		fmt.Fprintln(c.out, c.format(result))
		results[result.index] = result
	}

	return results, nil
}

func (c *Coordinator) format(r Result) string {
	if r.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", r.Date, r.Error)
	}
	if !c.decimal {
		return fmt.Sprintf("%s: %s", r.Date, r.Value.Value)
	}

	d, err := fetcher.ParseValue(r.Value.Value)
	if err != nil {
		return fmt.Sprintf("%s: ERROR - %v", r.Date, err)
	}
	return fmt.Sprintf("%s: %s", r.Date, d.StringFixed(2))
}

// Failed counts the results that carry an error
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Error != nil {
			n++
		}
	}
	return n
}
