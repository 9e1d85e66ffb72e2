// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager. Sessions are
// persisted in the SQLite sessions table so logins survive restarts.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyUserID = "userID"
)

// Lifetime is how long a login stays valid.
const Lifetime = 24 * time.Hour

// NewManager creates a session manager backed by the given database. When
// secure is false (local development over plain HTTP) the cookie's Secure
// flag is dropped so browsers accept it.
func NewManager(db *sql.DB, secure bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = Lifetime
	sm.IdleTimeout = 0
	sm.Cookie.Name = "serena_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	return sm
}
