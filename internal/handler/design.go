// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kasaserena/serena-go/internal/ai"
	"github.com/kasaserena/serena-go/internal/middleware"
	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/render"
	"github.com/kasaserena/serena-go/internal/store"
)

// aiAvailable guards routes when the deployment runs without AI keys.
func (h *Handler) aiAvailable(w http.ResponseWriter) bool {
	if h.design == nil {
		WriteError(w, http.StatusServiceUnavailable, "ai_unavailable",
			"AI generation is not available", nil)
		return false
	}
	return true
}

func (h *Handler) visionAvailable(w http.ResponseWriter) bool {
	if h.vision == nil {
		WriteError(w, http.StatusServiceUnavailable, "ai_unavailable",
			"AI generation is not available", nil)
		return false
	}
	return true
}

// designGeneratorRequest covers the three product lines: the flat fields
// for doors/windows/kitchens, or one of the nested objects for Smart
// Containers and Modular Pools.
type designGeneratorRequest struct {
	ai.DesignParams
	Contenedor *ai.ContainerParams `json:"contenedor"`
	Piscina    *ai.PoolParams      `json:"piscina"`
}

func (req designGeneratorRequest) prompts() (design, image, tipo string, details map[string]string) {
	switch {
	case req.Contenedor != nil:
		if req.Contenedor.Uso == "" || req.Contenedor.Tamano == "" {
			return "", "", "", map[string]string{"contenedor": "uso and tamano are required"}
		}
		return ai.BuildContainerPrompt(*req.Contenedor), "", model.ProjectTypeContenedor, nil
	case req.Piscina != nil:
		if req.Piscina.Forma == "" || req.Piscina.Tamano == "" {
			return "", "", "", map[string]string{"piscina": "forma and tamano are required"}
		}
		return ai.BuildPoolPrompt(*req.Piscina), "", model.ProjectTypePiscina, nil
	default:
		details = make(map[string]string)
		for field, value := range map[string]string{
			"tipo": req.Tipo, "material": req.Material, "color": req.Color,
			"estilo": req.Estilo, "medidas": req.Medidas,
		} {
			if strings.TrimSpace(value) == "" {
				details[field] = "is required"
			}
		}
		if len(details) > 0 {
			return "", "", "", details
		}
		return ai.BuildDesignPrompt(req.DesignParams), ai.BuildImagePrompt(req.DesignParams), req.Tipo, nil
	}
}

// designGeneratorResponse is the flat shape the SPA renders.
type designGeneratorResponse struct {
	ProjectID     int64    `json:"projectId,omitempty"`
	ImageURL      string   `json:"imageUrl"`
	Description   string   `json:"description"`
	Materials     []string `json:"materials"`
	EstimatedTime string   `json:"estimatedTime"`
	Fallback      bool     `json:"fallback"`
}

// DesignGenerator handles POST /api/design-generator: generate a design
// description and preview image, and persist the result as a draft
// project.
func (h *Handler) DesignGenerator(w http.ResponseWriter, r *http.Request) {
	if !h.aiAvailable(w) {
		return
	}
	user := middleware.GetUser(r)

	var req designGeneratorRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	designPrompt, imagePrompt, tipo, details := req.prompts()
	if details != nil {
		WriteBadRequest(w, "Validation failed", details)
		return
	}
	if imagePrompt == "" {
		imagePrompt = designPrompt
	}

	result, designFellBack := h.design.GenerateDesign(r.Context(), designPrompt)
	imageURL, imageFellBack := h.design.GeneratePreviewImage(r.Context(), imagePrompt)

	resp := designGeneratorResponse{
		ImageURL:      imageURL,
		Description:   result.Description,
		Materials:     result.Materials,
		EstimatedTime: result.EstimatedTime,
		Fallback:      designFellBack || imageFellBack,
	}

	// Persist as a draft project so the user finds the design in their
	// dashboard. A persistence failure doesn't fail the generation.
	analysis, _ := json.Marshal(result)
	materials, _ := json.Marshal(result.Materials)
	project, err := h.st.CreateProject(r.Context(), store.CreateProjectParams{
		UserID: user.ID,
		Name:   "Diseño de " + tipo,
		Type:   tipo,
	})
	if err != nil {
		h.log.Error("persisting generated design", "error", err)
	} else {
		analysisStr, materialsStr, timeStr := string(analysis), string(materials), result.EstimatedTime
		if _, err := h.st.UpdateProject(r.Context(), project.ID, store.UpdateProjectParams{
			ImageURL:              &imageURL,
			AIAnalysis:            &analysisStr,
			MaterialsList:         &materialsStr,
			EstimatedDeliveryTime: &timeStr,
		}); err != nil {
			h.log.Error("updating generated design", "project_id", project.ID, "error", err)
		}
		resp.ProjectID = project.ID
	}

	WriteJSON(w, http.StatusOK, resp)
}

// GeneratePreview handles POST /api/generate-preview: image only, no
// persistence.
func (h *Handler) GeneratePreview(w http.ResponseWriter, r *http.Request) {
	if !h.aiAvailable(w) {
		return
	}

	var req designGeneratorRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	designPrompt, imagePrompt, _, details := req.prompts()
	if details != nil {
		WriteBadRequest(w, "Validation failed", details)
		return
	}
	if imagePrompt == "" {
		imagePrompt = designPrompt
	}

	imageURL, fellBack := h.design.GeneratePreviewImage(r.Context(), imagePrompt)
	WriteJSON(w, http.StatusOK, map[string]any{
		"imageUrl": imageURL,
		"fallback": fellBack,
	})
}

// EstimateCost handles POST /api/estimate-cost.
func (h *Handler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	if !h.aiAvailable(w) {
		return
	}

	var req ai.DesignParams
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Tipo == "" || req.Material == "" || req.Medidas == "" {
		WriteBadRequest(w, "Validation failed",
			map[string]string{"tipo": "tipo, material and medidas are required"})
		return
	}

	estimate, fellBack := h.design.EstimateCost(r.Context(), ai.BuildCostPrompt(req))
	WriteJSON(w, http.StatusOK, map[string]any{
		"costRange":     estimate.CostRange,
		"breakdown":     estimate.Breakdown,
		"estimatedTime": estimate.EstimatedTime,
		"notes":         estimate.Notes,
		"fallback":      fellBack,
	})
}

type designChatRequest struct {
	Message string `json:"message"`
}

// DesignChat handles POST /api/design-chat. Public route for general
// inquiries; the answer is also rendered to sanitized HTML for the SPA.
func (h *Handler) DesignChat(w http.ResponseWriter, r *http.Request) {
	if !h.aiAvailable(w) {
		return
	}

	var req designChatRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	question := render.StripTags(strings.TrimSpace(req.Message))
	if question == "" {
		WriteBadRequest(w, "Validation failed", map[string]string{"message": "is required"})
		return
	}

	answer, err := h.design.DesignChat(r.Context(), question)
	if err != nil {
		h.log.Error("design chat failed", "error", err)
		WriteInternalError(w, "The assistant is unavailable right now")
		return
	}

	answerHTML, err := render.Markdown(answer)
	if err != nil {
		h.log.Error("rendering chat answer", "error", err)
		answerHTML = ""
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"answer":     answer,
		"answerHtml": answerHTML,
	})
}

type suggestionsRequest struct {
	Space string `json:"space"`
}

// DesignSuggestions handles POST /api/design-suggestions (Gemini).
func (h *Handler) DesignSuggestions(w http.ResponseWriter, r *http.Request) {
	if !h.visionAvailable(w) {
		return
	}

	var req suggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	space := render.StripTags(strings.TrimSpace(req.Space))
	if space == "" {
		WriteBadRequest(w, "Validation failed", map[string]string{"space": "is required"})
		return
	}

	suggestions, fellBack := h.vision.DesignSuggestions(r.Context(), space)
	h.writeSuggestions(w, suggestions, fellBack)
}

// AnalyzeImage handles POST /api/analyze-image (OpenAI vision,
// multipart).
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if !h.aiAvailable(w) {
		return
	}
	data, mimeType, ok := h.readImageUpload(w, r)
	if !ok {
		return
	}
	suggestions, fellBack := h.design.AnalyzeImage(r.Context(), data, mimeType)
	h.writeSuggestions(w, suggestions, fellBack)
}

// AnalyzeImageGemini handles POST /api/analyze-image-gemini (multipart).
func (h *Handler) AnalyzeImageGemini(w http.ResponseWriter, r *http.Request) {
	if !h.visionAvailable(w) {
		return
	}
	data, mimeType, ok := h.readImageUpload(w, r)
	if !ok {
		return
	}
	suggestions, fellBack := h.vision.AnalyzeImage(r.Context(), data, mimeType)
	h.writeSuggestions(w, suggestions, fellBack)
}

func (h *Handler) writeSuggestions(w http.ResponseWriter, s ai.Suggestions, fellBack bool) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"description":     s.Description,
		"style":           s.Style,
		"materials":       s.Materials,
		"colors":          s.Colors,
		"recommendations": s.Recommendations,
		"fallback":        fellBack,
	})
}
