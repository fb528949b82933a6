// Package api exposes UF lookups over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"uffetcher/internal/fetcher"
	"uffetcher/internal/ufservice"
)

const (
	detailNotFound = "UF value not found for the given date"
	detailSource   = "Error fetching UF value from source"
	detailInternal = "Internal server error"
)

// ValueGetter is the lookup the handler serves
type ValueGetter interface {
	GetValue(ctx context.Context, date string) (ufservice.Value, error)
}

type errorBody struct {
	Detail string `json:"detail"`
}

// NewHandler returns the router for the UF API
func NewHandler(values ValueGetter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /uf/{date}", func(w http.ResponseWriter, r *http.Request) {
		value, err := values.GetValue(r.Context(), r.PathValue("date"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, value)
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return logRequests(mux)
}

// writeError maps the error kind to a status code and detail message
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		slog.ErrorContext(r.Context(), "unexpected lookup error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: detailInternal})
		return
	}

	switch fe.Type {
	case fetcher.ErrorTypeInvalidDate:
		detail := fe.Message
		if detail == "" {
			detail = "Invalid date"
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: detail})
	case fetcher.ErrorTypeNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Detail: detailNotFound})
	case fetcher.ErrorTypeSource:
		slog.WarnContext(r.Context(), "source lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Detail: detailSource})
	default:
		slog.ErrorContext(r.Context(), "unexpected lookup error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: detailInternal})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
