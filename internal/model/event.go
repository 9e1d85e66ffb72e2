// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth   = "auth"
	EventCategoryAI     = "ai"
	EventCategoryQuote  = "quote"
	EventCategoryUser   = "user"
	EventCategorySystem = "system"
)

// Event is an event log entry. WARN and ERROR application logs are mirrored
// here so administrators can review them from the dashboard.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    NullInt64 `json:"userId,omitempty"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

// AIRequest is a usage analytics record for an AI-generation route.
type AIRequest struct {
	ID         int64     `json:"id"`
	Route      string    `json:"route"`
	Provider   string    `json:"provider"`
	DeviceType string    `json:"deviceType"`
	Country    string    `json:"country"`
	DurationMS int64     `json:"durationMs"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
