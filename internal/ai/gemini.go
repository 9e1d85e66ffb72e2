// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel   = "gemini-1.5-flash"

	geminiTimeout = 120 * time.Second
)

// GeminiGateway implements VisionGateway against the Gemini REST API.
type GeminiGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewGeminiGateway creates the gateway. Fails fast when the API key is
// absent.
func NewGeminiGateway(apiKey string, log *slog.Logger) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, errors.New("ai: GOOGLE_GEMINI_API_KEY is not set")
	}
	return &GeminiGateway{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: geminiTimeout},
		log:     log,
	}, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

// generateContent posts parts to the generateContent endpoint and returns
// the first candidate's text.
func (g *GeminiGateway) generateContent(ctx context.Context, parts []geminiPart) (string, error) {
	var body geminiRequest
	body.Contents = make([]struct {
		Parts []geminiPart `json:"parts"`
	}, 1)
	body.Contents[0].Parts = parts

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, geminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("gemini decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: no candidates returned")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// AnalyzeImage runs Gemini vision over an uploaded photo.
func (g *GeminiGateway) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (Suggestions, bool) {
	g.log.Info("gemini vision request", "bytes", len(imageData), "mime", mimeType)

	raw, err := g.generateContent(ctx, []geminiPart{
		{Text: analyzeImagePrompt},
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(imageData),
		}},
	})
	if err != nil {
		g.log.Warn("gemini image analysis failed, using fallback", "error", err)
		return FallbackSuggestions(), true
	}
	suggestions, ok := parseSuggestions(raw)
	if !ok {
		g.log.Warn("gemini image analysis unparseable, using fallback", "raw", truncate(raw, 200))
		return FallbackSuggestions(), true
	}
	return suggestions, false
}

// DesignSuggestions produces suggestions for a free-form space description.
func (g *GeminiGateway) DesignSuggestions(ctx context.Context, space string) (Suggestions, bool) {
	g.log.Info("gemini suggestions request", "space", truncate(space, 120))

	raw, err := g.generateContent(ctx, []geminiPart{{Text: BuildSuggestionsPrompt(space)}})
	if err != nil {
		g.log.Warn("gemini suggestions failed, using fallback", "error", err)
		return FallbackSuggestions(), true
	}
	suggestions, ok := parseSuggestions(raw)
	if !ok {
		g.log.Warn("gemini suggestions unparseable, using fallback", "raw", truncate(raw, 200))
		return FallbackSuggestions(), true
	}
	return suggestions, false
}
