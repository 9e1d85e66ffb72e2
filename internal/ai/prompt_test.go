// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"strings"
	"testing"
)

func TestBuildDesignPromptDeterministic(t *testing.T) {
	p := DesignParams{
		Tipo: "puerta", Material: "roble", Color: "blanco",
		Estilo: "moderno", Medidas: "80x200",
	}
	first := BuildDesignPrompt(p)
	second := BuildDesignPrompt(p)
	if first != second {
		t.Error("identical input produced different prompts")
	}

	for _, want := range []string{"puerta", "roble", "blanco", "moderno", "80x200"} {
		if !strings.Contains(first, want) {
			t.Errorf("prompt missing %q:\n%s", want, first)
		}
	}
}

func TestBuildDesignPromptOptionalExtras(t *testing.T) {
	base := DesignParams{Tipo: "ventana", Material: "aluminio", Color: "negro",
		Estilo: "minimalista", Medidas: "120x150"}

	without := BuildDesignPrompt(base)
	if strings.Contains(without, "Additional features") {
		t.Error("extras line present without extras")
	}

	base.Extras = "cristal doble"
	with := BuildDesignPrompt(base)
	if !strings.Contains(with, "cristal doble") {
		t.Error("extras value missing from prompt")
	}
}

func TestBuildContainerPromptOptionalFields(t *testing.T) {
	p := ContainerParams{Uso: "oficina", Tamano: "20 pies"}
	prompt := BuildContainerPrompt(p)
	for _, absent := range []string{"Energy system", "Technology package", "Finishes"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt includes %q for unset field", absent)
		}
	}

	p.Energia = "solar"
	if !strings.Contains(BuildContainerPrompt(p), "solar") {
		t.Error("energy value missing from prompt")
	}
}

func TestBuildPoolPrompt(t *testing.T) {
	p := PoolParams{Forma: "rectangular", Tamano: "8x4m", Profundidad: "1.5m"}
	prompt := BuildPoolPrompt(p)
	for _, want := range []string{"rectangular", "8x4m", "1.5m"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCostPromptMentionsJSONShape(t *testing.T) {
	p := DesignParams{Tipo: "cocina", Material: "cuarzo", Color: "blanco",
		Estilo: "moderno", Medidas: "3x4m"}
	prompt := BuildCostPrompt(p)
	for _, want := range []string{"costRange", "breakdown", "estimatedTime"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("cost prompt missing field name %q", want)
		}
	}
}
