// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Project statuses.
const (
	ProjectStatusDraft      = "draft"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

// Project types, matching the product lines offered on the site.
const (
	ProjectTypeCocina     = "cocina"
	ProjectTypePuerta     = "puerta"
	ProjectTypeVentana    = "ventana"
	ProjectTypeGabinete   = "gabinete"
	ProjectTypeContenedor = "contenedor"
	ProjectTypePiscina    = "piscina"
	ProjectTypeOficina    = "oficina"
)

// ProjectTypes lists every valid project type.
var ProjectTypes = []string{
	ProjectTypeCocina,
	ProjectTypePuerta,
	ProjectTypeVentana,
	ProjectTypeGabinete,
	ProjectTypeContenedor,
	ProjectTypePiscina,
	ProjectTypeOficina,
}

// IsValidProjectType reports whether t is a known project type.
func IsValidProjectType(t string) bool {
	for _, pt := range ProjectTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project represents a design project owned by a user. AIAnalysis and
// MaterialsList hold opaque JSON produced by the design generation flow.
type Project struct {
	ID                    int64      `json:"id"`
	UserID                int64      `json:"userId"`
	Name                  string     `json:"name"`
	Description           NullString `json:"description,omitempty"`
	Type                  string     `json:"type"`
	Status                string     `json:"status"`
	Cost                  NullInt64  `json:"cost,omitempty"`
	EstimatedDeliveryTime NullString `json:"estimatedDeliveryTime,omitempty"`
	ImageURL              NullString `json:"imageUrl,omitempty"`
	AIAnalysis            NullString `json:"aiAnalysis,omitempty"`
	MaterialsList         NullString `json:"materialsList,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}
