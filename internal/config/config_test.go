// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "x7K!mQ2pL9vR4tY8wE3uI6oP1aS5dF0g"

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SERENA_SESSION_SECRET", testSecret)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gm-test")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SERENA_SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.ServerAddr() != "localhost:9090" {
		t.Errorf("ServerAddr = %q, want localhost:9090", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment should default to true")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache should be false without SERENA_REDIS_URL")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SERENA_SESSION_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gm-test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing session secret")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("SERENA_SESSION_SECRET", "too-short")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gm-test")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short session secret")
	}
	if !strings.Contains(err.Error(), "at least") {
		t.Errorf("error should mention minimum length, got: %v", err)
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	t.Setenv("SERENA_SESSION_SECRET", "change-me-to-32-byte-secret-key!")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gm-test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for known weak secret")
	}
}

func TestLoad_MissingAIKeys(t *testing.T) {
	t.Setenv("SERENA_SESSION_SECRET", testSecret)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when AI keys are missing and not optional")
	}

	t.Setenv("SERENA_AI_OPTIONAL", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with SERENA_AI_OPTIONAL=true: %v", err)
	}
	if !cfg.AIOptional {
		t.Error("AIOptional should be true")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefgh", false},
		{"abcDEF123", true},
		{"abc123!@#", true},
		{"ABCDEF123456", false},
		{testSecret, true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
