package testutil

import (
	"context"
	"fmt"
	"strings"

	"uffetcher/internal/fetcher"
)

// MockSource is a mock implementation of the Source interface for testing
type MockSource struct {
	FetchFunc func(ctx context.Context, key fetcher.DateKey) (fetcher.Record, error)
}

// Fetch implements the Source interface
func (m *MockSource) Fetch(ctx context.Context, key fetcher.DateKey) (fetcher.Record, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, key)
	}
	return fetcher.NewRecord(key.String(), ""), nil
}

// NewMockSource creates a mock source answering every date with value or err
func NewMockSource(value string, err error) *MockSource {
	return &MockSource{
		FetchFunc: func(ctx context.Context, key fetcher.DateKey) (fetcher.Record, error) {
			if err != nil {
				return fetcher.Record{}, err
			}
			return fetcher.NewRecord(key.String(), value), nil
		},
	}
}

// SIIPage builds a year page in the shape SII publishes: one div per month
// holding a table of <th>day</th><td>value</td> pairs.
type SIIPage struct {
	months []siiMonth
}

type siiMonth struct {
	id     string
	values map[int]string
}

// Month adds a section with the given div id (e.g. "mes_Enero")
func (p *SIIPage) Month(id string, values map[int]string) *SIIPage {
	p.months = append(p.months, siiMonth{id: id, values: values})
	return p
}

// HTML renders the page
func (p *SIIPage) HTML() string {
	var b strings.Builder
	b.WriteString("<html><head><title>UF</title></head><body>\n")
	for _, m := range p.months {
		fmt.Fprintf(&b, "<div class=\"meses\" id=\"%s\">\n<table>\n", m.id)
		for day := 1; day <= 31; day++ {
			v, ok := m.values[day]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "<tr><th>%d</th><td>%s</td></tr>\n", day, v)
		}
		b.WriteString("</table>\n</div>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
