// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records usage of the AI-generation routes: device
// class, optional country, latency and response status. Recording is
// asynchronous so it never adds latency to the request path.
package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/kasaserena/serena-go/internal/geoip"
	"github.com/kasaserena/serena-go/internal/store"
)

// Tracker writes AIRequest rows for AI routes.
type Tracker struct {
	st  store.Storage
	geo *geoip.Lookup
	log *slog.Logger
}

// NewTracker creates a tracker. geo may be nil when GeoIP is not
// configured.
func NewTracker(st store.Storage, geo *geoip.Lookup, log *slog.Logger) *Tracker {
	return &Tracker{st: st, geo: geo, log: log}
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Track wraps an AI route, recording one AIRequest per call under the
// given provider label.
func (t *Tracker) Track(provider string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			params := store.CreateAIRequestParams{
				Route:      r.URL.Path,
				Provider:   provider,
				DeviceType: deviceType(r.UserAgent()),
				DurationMS: time.Since(start).Milliseconds(),
				Status:     rec.status,
			}
			if t.geo != nil {
				params.Country = t.geo.Country(r.RemoteAddr)
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if _, err := t.st.CreateAIRequest(ctx, params); err != nil {
					t.log.Error("recording ai request", "route", params.Route, "error", err)
				}
			}()
		})
	}
}

func deviceType(uaString string) string {
	ua := useragent.Parse(uaString)
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	default:
		return "desktop"
	}
}
