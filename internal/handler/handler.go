// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the /api HTTP surface.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/kasaserena/serena-go/internal/ai"
	"github.com/kasaserena/serena-go/internal/cache"
	"github.com/kasaserena/serena-go/internal/imaging"
	"github.com/kasaserena/serena-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	st       store.Storage
	sm       *scs.SessionManager
	cache    cache.Cache
	cacheTTL time.Duration
	design   ai.DesignGateway
	vision   ai.VisionGateway
	img      *imaging.Processor
	log      *slog.Logger
}

// Config bundles the handler dependencies. Design and Vision may be nil
// when the deployment runs without AI keys; the AI routes then return 503.
type Config struct {
	Store    store.Storage
	Sessions *scs.SessionManager
	Cache    cache.Cache
	CacheTTL time.Duration
	Design   ai.DesignGateway
	Vision   ai.VisionGateway
	Images   *imaging.Processor
	Log      *slog.Logger
}

// New creates the handler set.
func New(cfg Config) *Handler {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Handler{
		st:       cfg.Store,
		sm:       cfg.Sessions,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		design:   cfg.Design,
		vision:   cfg.Vision,
		img:      cfg.Images,
		log:      cfg.Log,
	}
}

// ErrorResponse is the standard API error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 response. The message must not carry
// upstream provider or database detail.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// storeError maps store errors onto the HTTP taxonomy and logs the
// unexpected ones.
func (h *Handler) storeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteNotFound(w, what+" not found")
	case errors.Is(err, store.ErrConflict):
		WriteBadRequest(w, what+" already exists", nil)
	default:
		h.log.Error("storage failure", "what", what, "error", err)
		WriteInternalError(w, "Internal server error")
	}
}
