// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Quote statuses.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusApproved = "approved"
	QuoteStatusRejected = "rejected"
)

// IsValidQuoteStatus reports whether s is a known quote status.
func IsValidQuoteStatus(s string) bool {
	switch s {
	case QuoteStatusPending, QuoteStatusApproved, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote is a quote request. Details holds opaque JSON describing the
// requested work (type, materials, dimensions, contact info); it is not
// validated against the material catalog.
type Quote struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ProjectID NullInt64 `json:"projectId,omitempty"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	TotalCost NullInt64 `json:"totalCost,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
