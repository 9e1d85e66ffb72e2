// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import "context"

// DesignResult is the normalized shape returned by design generation.
type DesignResult struct {
	Description   string   `json:"description"`
	Materials     []string `json:"materials"`
	EstimatedTime string   `json:"estimatedTime"`
}

// CostLine is one row of a cost estimate breakdown.
type CostLine struct {
	Item string `json:"item"`
	Cost string `json:"cost"`
}

// CostEstimate is the normalized shape returned by cost estimation.
type CostEstimate struct {
	CostRange     string     `json:"costRange"`
	Breakdown     []CostLine `json:"breakdown"`
	EstimatedTime string     `json:"estimatedTime"`
	Notes         string     `json:"notes,omitempty"`
}

// Suggestions is the normalized shape returned by image analysis and
// design suggestion calls.
type Suggestions struct {
	Description     string   `json:"description"`
	Style           string   `json:"style"`
	Materials       []string `json:"materials"`
	Colors          []string `json:"colors"`
	Recommendations []string `json:"recommendations"`
}

// DesignGateway is the OpenAI-backed surface the route layer depends on.
// Methods returning a bool report whether a canned fallback was substituted
// for a failed provider call or unparseable response; they never propagate
// provider errors.
type DesignGateway interface {
	GenerateDesign(ctx context.Context, prompt string) (DesignResult, bool)
	GeneratePreviewImage(ctx context.Context, prompt string) (string, bool)
	EstimateCost(ctx context.Context, prompt string) (CostEstimate, bool)
	DesignChat(ctx context.Context, question string) (string, error)
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (Suggestions, bool)
}

// VisionGateway is the Gemini-backed surface.
type VisionGateway interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (Suggestions, bool)
	DesignSuggestions(ctx context.Context, space string) (Suggestions, bool)
}
