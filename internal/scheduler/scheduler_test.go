// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/store"
)

func TestRunRetention(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()

	// one stale event, one fresh
	if _, err := st.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelWarning, Category: model.EventCategorySystem,
		Message: "old", CreatedAt: time.Now().UTC().Add(-200 * 24 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := st.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelWarning, Category: model.EventCategorySystem,
		Message: "new",
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	// a fresh AI request must survive
	if _, err := st.CreateAIRequest(ctx, store.CreateAIRequestParams{
		Route: "/api/design-chat", Provider: "openai", Status: 200,
	}); err != nil {
		t.Fatalf("CreateAIRequest: %v", err)
	}

	s := New(st, slog.New(slog.DiscardHandler))
	if err := s.RunRetention(ctx); err != nil {
		t.Fatalf("RunRetention: %v", err)
	}

	n, err := st.CountAIRequestsSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountAIRequestsSince: %v", err)
	}
	if n != 1 {
		t.Errorf("fresh AI request deleted, count = %d", n)
	}

	// only the stale event should be gone: deleting everything up to now
	// should now remove exactly one (the fresh one)
	deleted, err := st.DeleteEventsBefore(ctx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("remaining events = %d, want 1", deleted)
	}
}

func TestStartStop(t *testing.T) {
	s := New(store.NewMemStore(), slog.New(slog.DiscardHandler))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
