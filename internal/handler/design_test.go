// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kasaserena/serena-go/internal/ai"
	"github.com/kasaserena/serena-go/internal/model"
)

// mockDesign implements ai.DesignGateway. The zero value serves canned
// fallbacks, as a gateway would after a provider outage.
type mockDesign struct {
	design     *ai.DesignResult
	imageURL   string
	estimate   *ai.CostEstimate
	chatAnswer string
	chatErr    error
	prompts    []string
}

func (m *mockDesign) GenerateDesign(_ context.Context, prompt string) (ai.DesignResult, bool) {
	m.prompts = append(m.prompts, prompt)
	if m.design != nil {
		return *m.design, false
	}
	return ai.FallbackDesign("puerta"), true
}

func (m *mockDesign) GeneratePreviewImage(_ context.Context, prompt string) (string, bool) {
	m.prompts = append(m.prompts, prompt)
	if m.imageURL != "" {
		return m.imageURL, false
	}
	return ai.PlaceholderImageURL, true
}

func (m *mockDesign) EstimateCost(_ context.Context, prompt string) (ai.CostEstimate, bool) {
	m.prompts = append(m.prompts, prompt)
	if m.estimate != nil {
		return *m.estimate, false
	}
	return ai.FallbackEstimate("puerta"), true
}

func (m *mockDesign) DesignChat(_ context.Context, question string) (string, error) {
	m.prompts = append(m.prompts, question)
	return m.chatAnswer, m.chatErr
}

func (m *mockDesign) AnalyzeImage(context.Context, []byte, string) (ai.Suggestions, bool) {
	return ai.FallbackSuggestions(), true
}

// mockVision implements ai.VisionGateway.
type mockVision struct {
	suggestions *ai.Suggestions
}

func (m *mockVision) AnalyzeImage(context.Context, []byte, string) (ai.Suggestions, bool) {
	if m.suggestions != nil {
		return *m.suggestions, false
	}
	return ai.FallbackSuggestions(), true
}

func (m *mockVision) DesignSuggestions(context.Context, string) (ai.Suggestions, bool) {
	if m.suggestions != nil {
		return *m.suggestions, false
	}
	return ai.FallbackSuggestions(), true
}

func TestDesignGeneratorFallback(t *testing.T) {
	design := &mockDesign{}
	env := newTestEnv(t, design, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/design-generator", map[string]string{
		"tipo":     "puerta",
		"material": "roble",
		"color":    "nogal",
		"estilo":   "moderno",
		"medidas":  "90x210cm",
	})
	body := decodeBody[designGeneratorResponse](t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// Degraded responses still carry a complete, renderable design.
	if !body.Fallback {
		t.Error("fallback flag not set")
	}
	if body.Description == "" || len(body.Materials) == 0 || body.EstimatedTime == "" {
		t.Fatalf("incomplete fallback design: %+v", body)
	}
	if body.ImageURL == "" {
		t.Error("missing image url")
	}

	// The design landed in the user's dashboard as a draft project.
	if body.ProjectID == 0 {
		t.Fatal("design not persisted")
	}
	project, err := env.st.GetProjectByID(t.Context(), body.ProjectID)
	if err != nil {
		t.Fatalf("loading persisted design: %v", err)
	}
	if project.Status != model.ProjectStatusDraft || !project.ImageURL.Valid || !project.AIAnalysis.Valid {
		t.Fatalf("unexpected persisted project: %+v", project)
	}
}

func TestDesignGeneratorSuccess(t *testing.T) {
	design := &mockDesign{
		design: &ai.DesignResult{
			Description:   "Puerta de roble con vidrio templado",
			Materials:     []string{"Roble", "Vidrio templado"},
			EstimatedTime: "3-4 semanas",
		},
		imageURL: "https://cdn.example.com/preview.png",
	}
	env := newTestEnv(t, design, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/design-generator", map[string]string{
		"tipo":     "puerta",
		"material": "roble",
		"color":    "nogal",
		"estilo":   "moderno",
		"medidas":  "90x210cm",
	})
	body := decodeBody[designGeneratorResponse](t, resp)
	if body.Fallback {
		t.Error("fallback flag set on clean generation")
	}
	if body.ImageURL != design.imageURL || len(body.Materials) != 2 {
		t.Fatalf("unexpected response: %+v", body)
	}

	// The prompt carries the user's selections.
	joined := strings.Join(design.prompts, "\n")
	for _, want := range []string{"roble", "nogal", "90x210cm"} {
		if !strings.Contains(joined, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDesignGeneratorContainer(t *testing.T) {
	env := newTestEnv(t, &mockDesign{}, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/design-generator", map[string]any{
		"contenedor": map[string]string{
			"uso":    "oficina",
			"tamano": "40 pies",
		},
	})
	body := decodeBody[designGeneratorResponse](t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	project, err := env.st.GetProjectByID(t.Context(), body.ProjectID)
	if err != nil {
		t.Fatalf("loading project: %v", err)
	}
	if project.Type != model.ProjectTypeContenedor {
		t.Fatalf("project type = %q", project.Type)
	}
}

func TestDesignGeneratorValidation(t *testing.T) {
	env := newTestEnv(t, &mockDesign{}, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/design-generator", map[string]string{
		"tipo": "puerta",
	})
	body := decodeBody[ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, field := range []string{"material", "color", "estilo", "medidas"} {
		if body.Error.Details[field] == "" {
			t.Errorf("missing validation detail for %q", field)
		}
	}
}

func TestDesignGeneratorUnavailable(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/design-generator", map[string]string{
		"tipo": "puerta", "material": "roble", "color": "nogal",
		"estilo": "moderno", "medidas": "90x210cm",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestEstimateCost(t *testing.T) {
	env := newTestEnv(t, &mockDesign{}, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/estimate-cost", map[string]string{
		"tipo": "cocina", "material": "granito", "medidas": "3x4m",
	})
	body := decodeBody[map[string]any](t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["costRange"] == "" || body["fallback"] != true {
		t.Fatalf("unexpected estimate: %v", body)
	}
	if lines, ok := body["breakdown"].([]any); !ok || len(lines) == 0 {
		t.Fatalf("empty breakdown: %v", body["breakdown"])
	}
}

func TestDesignChat(t *testing.T) {
	design := &mockDesign{chatAnswer: "Trabajamos con **roble** y cedro."}
	env := newTestEnv(t, design, nil)

	// Public route, no login.
	resp := env.do(t, http.MethodPost, "/api/design-chat", map[string]string{
		"message": "¿Qué maderas usan?",
	})
	body := decodeBody[map[string]string](t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["answer"] != design.chatAnswer {
		t.Fatalf("answer = %q", body["answer"])
	}
	if !strings.Contains(body["answerHtml"], "<strong>roble</strong>") {
		t.Fatalf("markdown not rendered: %q", body["answerHtml"])
	}
}

func TestDesignChatProviderError(t *testing.T) {
	design := &mockDesign{chatErr: errors.New("openai: 401 invalid api key sk-abc123")}
	env := newTestEnv(t, design, nil)

	resp := env.do(t, http.MethodPost, "/api/design-chat", map[string]string{
		"message": "Hola",
	})
	body := decodeBody[ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// Provider detail must not leak to the client.
	if strings.Contains(body.Error.Message, "sk-abc123") || strings.Contains(body.Error.Message, "openai") {
		t.Fatalf("provider detail leaked: %q", body.Error.Message)
	}
}

func TestDesignSuggestions(t *testing.T) {
	env := newTestEnv(t, nil, &mockVision{suggestions: &ai.Suggestions{
		Description: "Cocina abierta con isla central",
		Style:       "minimalista",
		Materials:   []string{"cuarzo"},
	}})
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/design-suggestions", map[string]string{
		"space": "cocina de 3x4 metros con ventana al jardín",
	})
	body := decodeBody[map[string]any](t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["style"] != "minimalista" || body["fallback"] != false {
		t.Fatalf("unexpected suggestions: %v", body)
	}

	resp = env.do(t, http.MethodPost, "/api/design-suggestions", map[string]string{"space": "  "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty space: status = %d", resp.StatusCode)
	}
}
