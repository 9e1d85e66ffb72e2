// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the events table so administrators can review them from the
// dashboard.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/store"
)

// EventLogHandler wraps another slog.Handler and additionally persists
// records at or above its threshold level.
type EventLogHandler struct {
	inner slog.Handler
	st    store.Storage
	level slog.Level
}

// NewEventLogHandler creates a handler mirroring WARN+ records to storage.
func NewEventLogHandler(inner slog.Handler, st store.Storage) *EventLogHandler {
	return &EventLogHandler{inner: inner, st: st, level: slog.LevelWarn}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), st: h.st, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), st: h.st, level: h.level}
}

func (h *EventLogHandler) writeEvent(r slog.Record) {
	attrs := make(map[string]string)
	category := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return true
		}
		attrs[a.Key] = a.Value.String()
		return true
	})
	if category == "" {
		category = inferCategory(r.Message)
	}

	metadata := "{}"
	if len(attrs) > 0 {
		if b, err := json.Marshal(attrs); err == nil {
			metadata = string(b)
		}
	}

	// Background context: the event should be recorded even when the
	// originating request context is already cancelled.
	_, _ = h.st.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

func inferCategory(msg string) string {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "login") || strings.Contains(m, "register") || strings.Contains(m, "session") || strings.Contains(m, "csrf"):
		return model.EventCategoryAuth
	case strings.Contains(m, "openai") || strings.Contains(m, "gemini") || strings.Contains(m, "design") || strings.Contains(m, "fallback"):
		return model.EventCategoryAI
	case strings.Contains(m, "quote"):
		return model.EventCategoryQuote
	case strings.Contains(m, "user") || strings.Contains(m, "profile"):
		return model.EventCategoryUser
	default:
		return model.EventCategorySystem
	}
}
