// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ai contains the prompt builders and gateway clients for the
// design-generation flow. Gateways degrade to canned fallback values on
// provider or parse failure instead of failing the user's request.
package ai

// DesignParams is the structured selection for a door/window/kitchen/
// cabinet/office design request. Field names mirror the SPA's form fields.
type DesignParams struct {
	Tipo     string `json:"tipo"`
	Material string `json:"material"`
	Color    string `json:"color"`
	Estilo   string `json:"estilo"`
	Medidas  string `json:"medidas"`
	Extras   string `json:"extras,omitempty"`
}

// ContainerParams is the selection for a Smart Container design request.
type ContainerParams struct {
	Uso        string `json:"uso"`
	Tamano     string `json:"tamano"`
	Energia    string `json:"energia,omitempty"`
	Tecnologia string `json:"tecnologia,omitempty"`
	Acabados   string `json:"acabados,omitempty"`
	Extras     string `json:"extras,omitempty"`
}

// PoolParams is the selection for a Modular Pool design request.
type PoolParams struct {
	Forma           string `json:"forma"`
	Tamano          string `json:"tamano"`
	Profundidad     string `json:"profundidad,omitempty"`
	Acabados        string `json:"acabados,omitempty"`
	Caracteristicas string `json:"caracteristicas,omitempty"`
	Estilo          string `json:"estilo,omitempty"`
}
