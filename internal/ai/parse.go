// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models asked for JSON routinely wrap it in markdown fences or prose.
// extractJSON strips fences and trims to the outermost object so the result
// can be fed to json.Unmarshal.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

var (
	descriptionRe = regexp.MustCompile(`"description"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	timeRe        = regexp.MustCompile(`"estimatedTime"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	costRangeRe   = regexp.MustCompile(`"costRange"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	styleRe       = regexp.MustCompile(`"style"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	quotedRe      = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

func regexField(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err != nil {
		return m[1]
	}
	return s
}

// regexStringArray pulls the quoted elements out of a named JSON array
// field even when the surrounding document doesn't parse.
func regexStringArray(field, raw string) []string {
	re := regexp.MustCompile(`"` + field + `"\s*:\s*\[([^\]]*)\]`)
	m := re.FindStringSubmatch(raw)
	if len(m) < 2 {
		return nil
	}
	var out []string
	for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
		var s string
		if err := json.Unmarshal([]byte(`"`+q[1]+`"`), &s); err != nil {
			s = q[1]
		}
		out = append(out, s)
	}
	return out
}

// parseDesign converts raw model output into a DesignResult. Returns false
// when neither JSON parsing nor regex extraction recovered a usable result.
func parseDesign(raw string) (DesignResult, bool) {
	var r DesignResult
	if err := json.Unmarshal([]byte(extractJSON(raw)), &r); err == nil &&
		r.Description != "" && len(r.Materials) > 0 {
		if r.EstimatedTime == "" {
			r.EstimatedTime = defaultEstimatedTime
		}
		return r, true
	}

	r = DesignResult{
		Description:   regexField(descriptionRe, raw),
		Materials:     regexStringArray("materials", raw),
		EstimatedTime: regexField(timeRe, raw),
	}
	if r.Description == "" || len(r.Materials) == 0 {
		return DesignResult{}, false
	}
	if r.EstimatedTime == "" {
		r.EstimatedTime = defaultEstimatedTime
	}
	return r, true
}

// parseCostEstimate converts raw model output into a CostEstimate.
func parseCostEstimate(raw string) (CostEstimate, bool) {
	var e CostEstimate
	if err := json.Unmarshal([]byte(extractJSON(raw)), &e); err == nil && e.CostRange != "" {
		if e.EstimatedTime == "" {
			e.EstimatedTime = defaultEstimatedTime
		}
		return e, true
	}

	costRange := regexField(costRangeRe, raw)
	if costRange == "" {
		return CostEstimate{}, false
	}
	e = CostEstimate{
		CostRange:     costRange,
		EstimatedTime: regexField(timeRe, raw),
	}
	if e.EstimatedTime == "" {
		e.EstimatedTime = defaultEstimatedTime
	}
	return e, true
}

// parseSuggestions converts raw model output into a Suggestions value.
func parseSuggestions(raw string) (Suggestions, bool) {
	var s Suggestions
	if err := json.Unmarshal([]byte(extractJSON(raw)), &s); err == nil &&
		s.Description != "" && len(s.Materials) > 0 {
		return s, true
	}

	s = Suggestions{
		Description:     regexField(descriptionRe, raw),
		Style:           regexField(styleRe, raw),
		Materials:       regexStringArray("materials", raw),
		Colors:          regexStringArray("colors", raw),
		Recommendations: regexStringArray("recommendations", raw),
	}
	if s.Description == "" || len(s.Materials) == 0 {
		return Suggestions{}, false
	}
	return s, true
}
