// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts model chat answers to sanitized HTML for the SPA
// and strips markup from user-submitted text.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	htmlPolicy = bluemonday.UGCPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

// Markdown renders markdown to sanitized HTML. Model output is untrusted,
// so the result always passes through the UGC policy.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}

// StripTags removes all HTML from user-submitted text (contact form,
// chat questions) before it is stored or echoed back.
func StripTags(s string) string {
	return textPolicy.Sanitize(s)
}
