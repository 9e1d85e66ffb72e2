// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kasaserena/serena-go/internal/store"
)

func TestTrackerRecordsRequest(t *testing.T) {
	st := store.NewMemStore()
	tracker := NewTracker(st, nil, slog.New(slog.DiscardHandler))

	h := tracker.Track("openai")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/design-generator", nil)
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	// recording is async
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := st.CountAIRequestsSince(context.Background(), time.Now().Add(-time.Minute))
		if err != nil {
			t.Fatalf("CountAIRequestsSince: %v", err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("AI request was not recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", "mobile"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", "desktop"},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", "bot"},
		{"", "desktop"},
	}
	for _, tt := range tests {
		if got := deviceType(tt.ua); got != tt.want {
			t.Errorf("deviceType(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
