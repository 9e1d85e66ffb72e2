// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const chatSystemPrompt = "Eres el asistente de diseño de Kasa Serena Designs, " +
	"una empresa de carpintería y remodelación a medida en República Dominicana. " +
	"Respondes en español, con tono profesional y cercano, sobre puertas, ventanas, " +
	"cocinas, gabinetes, contenedores inteligentes y piscinas modulares."

// OpenAIGateway implements DesignGateway against the OpenAI API.
type OpenAIGateway struct {
	client openai.Client
	log    *slog.Logger
}

// NewOpenAIGateway creates the gateway. Fails fast when the API key is
// absent so a misconfigured deployment is caught at startup.
func NewOpenAIGateway(apiKey string, log *slog.Logger) (*OpenAIGateway, error) {
	if apiKey == "" {
		return nil, errors.New("ai: OPENAI_API_KEY is not set")
	}
	return &OpenAIGateway{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		log:    log,
	}, nil
}

// chat runs a single system+user exchange and returns the raw text.
func (g *OpenAIGateway) chat(ctx context.Context, prompt string) (string, error) {
	g.log.Info("openai chat request", "prompt", truncate(prompt, 120))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(chatSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateDesign produces the normalized design result for a built prompt.
// The bool reports whether a fallback was substituted.
func (g *OpenAIGateway) GenerateDesign(ctx context.Context, prompt string) (DesignResult, bool) {
	raw, err := g.chat(ctx, prompt)
	if err != nil {
		g.log.Warn("design generation failed, using fallback", "error", err)
		return FallbackDesign("proyecto"), true
	}
	result, ok := parseDesign(raw)
	if !ok {
		g.log.Warn("design response unparseable, using fallback", "raw", truncate(raw, 200))
		return FallbackDesign("proyecto"), true
	}
	return result, false
}

// GeneratePreviewImage produces a DALL-E rendering URL for the built image
// prompt, or a placeholder URL on failure.
func (g *OpenAIGateway) GeneratePreviewImage(ctx context.Context, prompt string) (string, bool) {
	g.log.Info("openai image request", "prompt", truncate(prompt, 120))

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:          openai.ImageModelDallE3,
		Prompt:         prompt,
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		g.log.Warn("image generation failed, using placeholder", "error", err)
		return PlaceholderImageURL, true
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		g.log.Warn("image generation returned no data, using placeholder")
		return PlaceholderImageURL, true
	}
	return resp.Data[0].URL, false
}

// EstimateCost produces the normalized cost estimate for a built prompt.
func (g *OpenAIGateway) EstimateCost(ctx context.Context, prompt string) (CostEstimate, bool) {
	raw, err := g.chat(ctx, prompt)
	if err != nil {
		g.log.Warn("cost estimation failed, using fallback", "error", err)
		return FallbackEstimate("proyecto"), true
	}
	estimate, ok := parseCostEstimate(raw)
	if !ok {
		g.log.Warn("cost response unparseable, using fallback", "raw", truncate(raw, 200))
		return FallbackEstimate("proyecto"), true
	}
	return estimate, false
}

// DesignChat answers a free-form question. Unlike the generation flows this
// returns the provider error; the route layer maps it to a sanitized 500.
func (g *OpenAIGateway) DesignChat(ctx context.Context, question string) (string, error) {
	return g.chat(ctx, question)
}

// AnalyzeImage runs GPT-4o vision over an uploaded photo.
func (g *OpenAIGateway) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (Suggestions, bool) {
	g.log.Info("openai vision request", "bytes", len(imageData), "mime", mimeType)

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(analyzeImagePrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	})
	if err != nil {
		g.log.Warn("image analysis failed, using fallback", "error", err)
		return FallbackSuggestions(), true
	}
	if len(resp.Choices) == 0 {
		g.log.Warn("image analysis returned no choices, using fallback")
		return FallbackSuggestions(), true
	}
	suggestions, ok := parseSuggestions(resp.Choices[0].Message.Content)
	if !ok {
		g.log.Warn("image analysis unparseable, using fallback")
		return FallbackSuggestions(), true
	}
	return suggestions, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
