// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kasaserena/serena-go/internal/auth"
	"github.com/kasaserena/serena-go/internal/middleware"
	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/session"
	"github.com/kasaserena/serena-go/internal/store"
)

type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"fullName"`
	IsProfessional bool   `json:"isProfessional"`
}

func (r registerRequest) validate() map[string]string {
	details := make(map[string]string)
	if len(r.Username) < 3 {
		details["username"] = "must be at least 3 characters"
	}
	if !strings.Contains(r.Email, "@") {
		details["email"] = "must be a valid email address"
	}
	if len(r.Password) < 8 {
		details["password"] = "must be at least 8 characters"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// Register handles POST /api/register. A successful registration also logs
// the user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if details := req.validate(); details != nil {
		WriteBadRequest(w, "Validation failed", details)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("hashing password", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	user, err := h.st.CreateUser(r.Context(), store.CreateUserParams{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(req.FullName),
		IsProfessional: req.IsProfessional,
	})
	if err != nil {
		h.storeError(w, err, "user")
		return
	}

	if err := h.sm.RenewToken(r.Context()); err != nil {
		h.log.Error("renewing session token", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)

	h.log.Info("user registered", "category", model.EventCategoryAuth, "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login. The username field also accepts an email
// address.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.st.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(req.Username, "@") {
		user, err = h.st.GetUserByEmail(r.Context(), strings.ToLower(req.Username))
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.storeError(w, err, "user")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.log.Warn("login failed", "category", model.EventCategoryAuth, "username", req.Username)
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	// Upgrade the stored hash when the parameters have changed.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.st.UpdateUserPassword(r.Context(), user.ID, newHash); err != nil {
				h.log.Error("rehashing password", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := h.sm.RenewToken(r.Context()); err != nil {
		h.log.Error("renewing session token", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)

	h.log.Info("user logged in", "category", model.EventCategoryAuth, "user_id", user.ID)
	WriteJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		h.log.Error("destroying session", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// CurrentUser handles GET /api/user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not logged in")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	IsProfessional bool   `json:"isProfessional"`
}

// UpdateProfile handles PUT /api/user.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if !strings.Contains(req.Email, "@") {
		WriteBadRequest(w, "Validation failed", map[string]string{"email": "must be a valid email address"})
		return
	}

	updated, err := h.st.UpdateUserProfile(r.Context(), store.UpdateUserProfileParams{
		ID:             user.ID,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:       strings.TrimSpace(req.FullName),
		IsProfessional: req.IsProfessional,
	})
	if err != nil {
		h.storeError(w, err, "user")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}
