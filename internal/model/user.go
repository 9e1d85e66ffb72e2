// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the persisted record types used throughout the
// application: users, projects, the materials/distributors catalog,
// contact messages, quotes and event log entries.
package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered customer or administrator.
type User struct {
	ID                   int64      `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"` // Never expose in JSON
	FullName             NullString `json:"fullName,omitempty"`
	Role                 string     `json:"role"`
	IsProfessional       bool       `json:"isProfessional"`
	StripeCustomerID     NullString `json:"-"`
	StripeSubscriptionID NullString `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
