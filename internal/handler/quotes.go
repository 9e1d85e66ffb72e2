// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kasaserena/serena-go/internal/middleware"
	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/store"
)

type createQuoteRequest struct {
	ProjectID *int64          `json:"projectId"`
	Details   json.RawMessage `json:"details"`
}

// CreateQuote handles POST /api/quotes. Details is opaque JSON; it is not
// validated against the material catalog.
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req createQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Details) == 0 {
		WriteBadRequest(w, "Validation failed", map[string]string{"details": "is required"})
		return
	}

	if req.ProjectID != nil {
		project, err := h.st.GetProjectByID(r.Context(), *req.ProjectID)
		if err != nil {
			h.storeError(w, err, "project")
			return
		}
		if project.UserID != user.ID {
			WriteForbidden(w, "Not the project owner")
			return
		}
	}

	quote, err := h.st.CreateQuote(r.Context(), store.CreateQuoteParams{
		UserID:    user.ID,
		ProjectID: req.ProjectID,
		Details:   string(req.Details),
	})
	if err != nil {
		h.storeError(w, err, "quote")
		return
	}

	h.log.Info("quote requested", "category", model.EventCategoryQuote,
		"quote_id", quote.ID, "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, quote)
}

// ListUserQuotes handles GET /api/quotes: the session user's quotes.
func (h *Handler) ListUserQuotes(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	quotes, err := h.st.ListQuotesByUser(r.Context(), user.ID)
	if err != nil {
		h.storeError(w, err, "quotes")
		return
	}
	if quotes == nil {
		quotes = []model.Quote{}
	}
	WriteJSON(w, http.StatusOK, quotes)
}

// GetQuote handles GET /api/quotes/{id}. Owner or admin only.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid quote id", nil)
		return
	}

	quote, err := h.st.GetQuoteByID(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "quote")
		return
	}
	if quote.UserID != user.ID && !user.IsAdmin() {
		WriteForbidden(w, "Not the quote owner")
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}
