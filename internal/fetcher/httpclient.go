package fetcher

import (
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	// DefaultTimeout bounds a single request to the source
	DefaultTimeout = 10 * time.Second

	userAgent = "uffetcher/1.0"
)

// NewHTTPClient creates a new HTTP client for scraping HTML pages.
// Retries are disabled: every lookup issues exactly one request.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "text/html").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0).
		AddResponseMiddleware(logResponse)

	return client
}

// logResponse logs every completed request for observability
func logResponse(_ *resty.Client, r *resty.Response) error {
	slog.Debug("source responded",
		"url", r.Request.URL,
		"status_code", r.StatusCode(),
		"duration", r.Duration())
	return nil
}
