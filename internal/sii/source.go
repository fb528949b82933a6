// Package sii scrapes UF values from the yearly pages published by the
// Chilean Servicio de Impuestos Internos.
package sii

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"
	"resty.dev/v3"

	"uffetcher/internal/fetcher"
)

// DefaultBaseURL is the production SII host
const DefaultBaseURL = "https://www.sii.cl"

// pagePathTemplate addresses the page listing every UF value of one year
const pagePathTemplate = "/valores_y_fechas/uf/uf%d.htm"

var tracer = otel.Tracer("uffetcher/internal/sii")

// Ensure Source implements the interface.
var _ fetcher.Source = (*Source)(nil)

// Options configures a Source. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	MonthCase MonthCase
}

// Source fetches UF values by scraping SII
type Source struct {
	client    *resty.Client
	monthCase MonthCase
}

// NewSource creates a new SII scraper
func NewSource(opts Options) *Source {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MonthCase == "" {
		opts.MonthCase = MonthCaseCapitalized
	}

	return &Source{
		client:    fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout),
		monthCase: opts.MonthCase,
	}
}

// PagePath returns the path of the page for year, relative to the base URL
func PagePath(year int) string {
	return fmt.Sprintf(pagePathTemplate, year)
}

// Fetch retrieves the year page for key and extracts the value for that day
func (s *Source) Fetch(ctx context.Context, key fetcher.DateKey) (fetcher.Record, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	path := PagePath(key.Year)
	span.SetAttributes(attribute.String("date", key.String()), attribute.String("path", path))

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(path)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return fetcher.Record{}, fail(span, classifyTransportError(err))
	}

	if resp.StatusCode() != http.StatusOK {
		return fetcher.Record{}, fail(span, fetcher.NewStatusError(resp.StatusCode()))
	}

	body, err := charset.NewReader(resp.Body, resp.Header().Get("Content-Type"))
	if err != nil {
		return fetcher.Record{}, fail(span, classifyTransportError(err))
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return fetcher.Record{}, fail(span, classifyTransportError(err))
	}

	value, err := Extract(ctx, doc, key, s.monthCase)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fetcher.Record{}, err
	}

	return fetcher.NewRecord(key.String(), value), nil
}

// Close releases idle connections held by the client
func (s *Source) Close() error {
	return s.client.Close()
}

func classifyTransportError(err error) *fetcher.FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fetcher.NewTimeoutError(err)
	}
	return fetcher.NewNetworkError(err)
}

func fail(span trace.Span, err *fetcher.FetchError) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
