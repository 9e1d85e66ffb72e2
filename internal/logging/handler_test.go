// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/store"
)

func TestEventLogHandlerMirrorsWarnings(t *testing.T) {
	st := store.NewMemStore()
	log := slog.New(NewEventLogHandler(slog.DiscardHandler, st))

	log.Info("routine startup")
	log.Warn("rate limit exceeded", "ip", "10.0.0.1")
	log.Error("gemini call failed", "error", "timeout")

	// events are written synchronously; no wait needed
	deleted, err := st.DeleteEventsBefore(context.Background(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 2 {
		t.Errorf("mirrored events = %d, want 2 (WARN and ERROR only)", deleted)
	}
}

func TestEventLogHandlerCategory(t *testing.T) {
	st := store.NewMemStore()
	h := NewEventLogHandler(slog.DiscardHandler, st)

	if got := inferCategory("login failed for user"); got != model.EventCategoryAuth {
		t.Errorf("inferCategory(login) = %q", got)
	}
	if got := inferCategory("openai chat request failed"); got != model.EventCategoryAI {
		t.Errorf("inferCategory(openai) = %q", got)
	}
	if got := inferCategory("disk almost full"); got != model.EventCategorySystem {
		t.Errorf("inferCategory(other) = %q", got)
	}

	// explicit category attribute wins over inference
	log := slog.New(h)
	log.Warn("disk almost full", "category", model.EventCategoryQuote)
	ev, err := st.CreateEvent(context.Background(), store.CreateEventParams{
		Level: model.EventLevelInfo, Category: "probe", Message: "probe",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if ev.ID != 2 {
		t.Fatalf("expected exactly one mirrored event before probe, got id %d", ev.ID)
	}
}
