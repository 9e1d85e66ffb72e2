// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

// Canned values substituted when the provider call fails or its output
// cannot be repaired. The user flow never sees a hard error; responses
// carry a fallback flag so the client can show a notice.

const defaultEstimatedTime = "4-6 semanas"

// PlaceholderImageURL is returned when image generation fails.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1556912167-f556f1f39fdf?w=1024&q=80"

// FallbackDesign returns a generic design result for the given project
// type.
func FallbackDesign(tipo string) DesignResult {
	return DesignResult{
		Description: "Diseño personalizado de " + tipo + " elaborado con materiales de primera " +
			"calidad, acabados artesanales y un estilo adaptado a su espacio. Nuestro equipo " +
			"se pondrá en contacto para afinar los detalles de su proyecto.",
		Materials:     []string{"madera de caoba", "herrajes de acero inoxidable", "sellador UV"},
		EstimatedTime: defaultEstimatedTime,
	}
}

// FallbackEstimate returns a generic cost estimate for the given project
// type.
func FallbackEstimate(tipo string) CostEstimate {
	return CostEstimate{
		CostRange: "US$1,500 - US$3,500",
		Breakdown: []CostLine{
			{Item: "Materiales", Cost: "US$800 - US$1,800"},
			{Item: "Mano de obra", Cost: "US$500 - US$1,200"},
			{Item: "Instalación", Cost: "US$200 - US$500"},
		},
		EstimatedTime: defaultEstimatedTime,
		Notes: "Estimado preliminar para un proyecto de " + tipo +
			". El costo final depende de las medidas y los acabados seleccionados.",
	}
}

// FallbackSuggestions returns generic space suggestions.
func FallbackSuggestions() Suggestions {
	return Suggestions{
		Description: "Espacio con buen potencial para un proyecto de carpintería a medida. " +
			"Recomendamos una consulta presencial para evaluar medidas y acabados.",
		Style:           "contemporáneo",
		Materials:       []string{"madera natural", "aluminio", "cristal templado"},
		Colors:          []string{"blanco", "tonos madera", "gris claro"},
		Recommendations: []string{"Aprovechar la luz natural", "Usar materiales resistentes a la humedad", "Solicitar una cotización detallada"},
	}
}
