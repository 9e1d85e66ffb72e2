// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"fmt"
	"strings"
)

// Prompt builders are pure string formatting: identical input yields
// byte-identical output. Optional lines are included only when the field is
// set.

// BuildDesignPrompt renders the instruction for a door/window/kitchen
// style design request.
func BuildDesignPrompt(p DesignParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed design description for a custom %s.\n", p.Tipo)
	fmt.Fprintf(&b, "Material: %s\n", p.Material)
	fmt.Fprintf(&b, "Color: %s\n", p.Color)
	fmt.Fprintf(&b, "Style: %s\n", p.Estilo)
	fmt.Fprintf(&b, "Dimensions: %s cm\n", p.Medidas)
	if p.Extras != "" {
		fmt.Fprintf(&b, "Additional features: %s\n", p.Extras)
	}
	b.WriteString("Respond in Spanish with a JSON object containing: " +
		`"description" (a rich paragraph describing the finished piece), ` +
		`"materials" (array of material names needed), ` +
		`"estimatedTime" (production and delivery estimate as text).`)
	return b.String()
}

// BuildImagePrompt renders the image-generation prompt for a design
// request. Kept separate from BuildDesignPrompt because image models want
// scene direction, not JSON instructions.
func BuildImagePrompt(p DesignParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Professional architectural photography of a custom %s, ", p.Tipo)
	fmt.Fprintf(&b, "made of %s, %s color, %s style, dimensions %s cm. ",
		p.Material, p.Color, p.Estilo, p.Medidas)
	if p.Extras != "" {
		fmt.Fprintf(&b, "Featuring %s. ", p.Extras)
	}
	b.WriteString("Photorealistic, high-end residential setting, natural lighting, Caribbean architecture.")
	return b.String()
}

// BuildContainerPrompt renders the instruction for a Smart Container
// design request.
func BuildContainerPrompt(p ContainerParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed design description for a smart container space for %s use.\n", p.Uso)
	fmt.Fprintf(&b, "Size: %s\n", p.Tamano)
	if p.Energia != "" {
		fmt.Fprintf(&b, "Energy system: %s\n", p.Energia)
	}
	if p.Tecnologia != "" {
		fmt.Fprintf(&b, "Technology package: %s\n", p.Tecnologia)
	}
	if p.Acabados != "" {
		fmt.Fprintf(&b, "Finishes: %s\n", p.Acabados)
	}
	if p.Extras != "" {
		fmt.Fprintf(&b, "Additional features: %s\n", p.Extras)
	}
	b.WriteString("Respond in Spanish with a JSON object containing: " +
		`"description", "materials" (array), "estimatedTime".`)
	return b.String()
}

// BuildPoolPrompt renders the instruction for a Modular Pool design
// request.
func BuildPoolPrompt(p PoolParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed design description for a modular pool, %s shape.\n", p.Forma)
	fmt.Fprintf(&b, "Size: %s\n", p.Tamano)
	if p.Profundidad != "" {
		fmt.Fprintf(&b, "Depth: %s\n", p.Profundidad)
	}
	if p.Acabados != "" {
		fmt.Fprintf(&b, "Finishes: %s\n", p.Acabados)
	}
	if p.Caracteristicas != "" {
		fmt.Fprintf(&b, "Features: %s\n", p.Caracteristicas)
	}
	if p.Estilo != "" {
		fmt.Fprintf(&b, "Style: %s\n", p.Estilo)
	}
	b.WriteString("Respond in Spanish with a JSON object containing: " +
		`"description", "materials" (array), "estimatedTime".`)
	return b.String()
}

// BuildCostPrompt renders the instruction for a cost estimate over the
// same design selection.
func BuildCostPrompt(p DesignParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate the production cost in USD for a custom %s in the Dominican Republic.\n", p.Tipo)
	fmt.Fprintf(&b, "Material: %s\n", p.Material)
	fmt.Fprintf(&b, "Dimensions: %s cm\n", p.Medidas)
	fmt.Fprintf(&b, "Style: %s\n", p.Estilo)
	if p.Extras != "" {
		fmt.Fprintf(&b, "Additional features: %s\n", p.Extras)
	}
	b.WriteString("Respond in Spanish with a JSON object containing: " +
		`"costRange" (e.g. "US$1,500 - US$2,200"), ` +
		`"breakdown" (array of {"item","cost"} entries), ` +
		`"estimatedTime" (text), "notes" (caveats as text).`)
	return b.String()
}

// BuildSuggestionsPrompt renders the instruction for Gemini design
// suggestions over a free-form space description.
func BuildSuggestionsPrompt(space string) string {
	return fmt.Sprintf("A client describes their space as: %q.\n", space) +
		"Suggest a custom carpentry/remodeling design for it. " +
		"Respond in Spanish with a JSON object containing: " +
		`"description", "style", "materials" (array), "colors" (array), ` +
		`"recommendations" (array of practical tips).`
}

// analyzeImagePrompt is the shared vision instruction for uploaded space
// photos.
const analyzeImagePrompt = "Analyze this photo of a residential space. " +
	"Identify the architectural style, visible materials and color palette, " +
	"and suggest custom carpentry or remodeling improvements. " +
	"Respond in Spanish with a JSON object containing: " +
	`"description", "style", "materials" (array), "colors" (array), ` +
	`"recommendations" (array).`
