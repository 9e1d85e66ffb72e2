// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/kasaserena/serena-go/internal/render"
	"github.com/kasaserena/serena-go/internal/store"
)

type contactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Subscribed bool   `json:"subscribed"`
}

// Contact handles POST /api/contact. Public route; all text is stripped of
// markup before storage.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	details := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "is required"
	}
	if !strings.Contains(req.Email, "@") {
		details["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(req.Message) == "" {
		details["message"] = "is required"
	}
	if len(details) > 0 {
		WriteBadRequest(w, "Validation failed", details)
		return
	}

	msg, err := h.st.CreateMessage(r.Context(), store.CreateMessageParams{
		Name:       render.StripTags(strings.TrimSpace(req.Name)),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:    render.StripTags(strings.TrimSpace(req.Subject)),
		Message:    render.StripTags(strings.TrimSpace(req.Message)),
		Subscribed: req.Subscribed,
	})
	if err != nil {
		h.storeError(w, err, "message")
		return
	}
	WriteJSON(w, http.StatusCreated, msg)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
