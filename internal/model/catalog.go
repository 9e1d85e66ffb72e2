// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Material availability values.
const (
	MaterialAvailable = "available"
	MaterialLimited   = "limited"
)

// Material is a catalog entry. The catalog is seed data and read-only from
// the application's point of view.
type Material struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Type          string     `json:"type"`
	Color         string     `json:"color"`
	Finish        string     `json:"finish"`
	Unit          string     `json:"unit"`
	Price         float64    `json:"price"`
	Availability  string     `json:"availability"`
	DistributorID int64      `json:"distributorId"`
	ImageURL      NullString `json:"imageUrl,omitempty"`
}

// Distributor is a materials supplier. ContactInfo holds opaque JSON
// (phone, email, website).
type Distributor struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	Description NullString `json:"description,omitempty"`
	Status      string     `json:"status"`
	ImageURL    NullString `json:"imageUrl,omitempty"`
	ContactInfo NullString `json:"contactInfo,omitempty"`
}
