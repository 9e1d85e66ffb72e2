// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/kasaserena/serena-go/internal/model"
)

// Admin routes sit behind RequireAdmin; handlers here don't re-check the
// role.

// ListMessages handles GET /api/admin/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.st.ListMessages(r.Context())
	if err != nil {
		h.storeError(w, err, "messages")
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	WriteJSON(w, http.StatusOK, messages)
}

// MarkMessageRead handles PUT /api/admin/messages/{id}/read.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid message id", nil)
		return
	}
	if err := h.st.MarkMessageRead(r.Context(), id); err != nil {
		h.storeError(w, err, "message")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListQuotes handles GET /api/admin/quotes.
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.st.ListQuotes(r.Context())
	if err != nil {
		h.storeError(w, err, "quotes")
		return
	}
	if quotes == nil {
		quotes = []model.Quote{}
	}
	WriteJSON(w, http.StatusOK, quotes)
}

type updateQuoteStatusRequest struct {
	Status    string `json:"status"`
	TotalCost *int64 `json:"totalCost"`
}

// UpdateQuoteStatus handles PUT /api/admin/quotes/{id}/status.
func (h *Handler) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid quote id", nil)
		return
	}

	var req updateQuoteStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if !model.IsValidQuoteStatus(req.Status) {
		WriteBadRequest(w, "Validation failed",
			map[string]string{"status": "must be pending, approved or rejected"})
		return
	}

	quote, err := h.st.UpdateQuoteStatus(r.Context(), id, req.Status, req.TotalCost)
	if err != nil {
		h.storeError(w, err, "quote")
		return
	}
	h.log.Info("quote status updated", "category", model.EventCategoryQuote,
		"quote_id", quote.ID, "status", quote.Status)
	WriteJSON(w, http.StatusOK, quote)
}

// GetStats handles GET /api/admin/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.st.GetStats(r.Context())
	if err != nil {
		h.storeError(w, err, "stats")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
