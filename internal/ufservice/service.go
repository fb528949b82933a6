// Package ufservice composes date validation and the UF source into the
// single lookup exposed by the API and the CLI.
package ufservice

import (
	"context"
	"time"

	"uffetcher/internal/fetcher"
	"uffetcher/internal/validate"
)

// Value is the serializable form of a UF lookup
type Value struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// Service resolves UF values for date strings
type Service struct {
	source fetcher.Source
	now    func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces the wall clock used for the future-date check
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service backed by source
func New(source fetcher.Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetValue validates input (YYYY-MM-DD) and fetches its UF value.
// Errors from validation and from the source are returned unchanged.
func (s *Service) GetValue(ctx context.Context, input string) (Value, error) {
	key, err := validate.Date(input, s.now())
	if err != nil {
		return Value{}, err
	}

	record, err := s.source.Fetch(ctx, key)
	if err != nil {
		return Value{}, err
	}

	return Value{
		Date:  record.Date(),
		Value: record.Value(),
	}, nil
}
