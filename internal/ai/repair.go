package ai

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/model"
)

// RepairAnalysis turns raw engine output into a complete report. It never fails: output
// that is not JSON is searched for an embedded object, and every missing or unusable
// field is replaced with its default.
func RepairAnalysis(raw string) model.AnalysisReport {
	return reportFromObject(extractObject(raw))
}

// extractObject parses raw as a JSON object, falling back to the first balanced {...}
// span that parses. It returns nil when nothing usable is found.
func extractObject(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if obj, ok := parseObject(raw); ok {
		return obj
	}
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end := matchBrace(raw, start); end > start {
			if obj, ok := parseObject(raw[start : end+1]); ok {
				return obj
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// matchBrace returns the index of the brace closing the one at start, skipping braces
// inside JSON strings, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func reportFromObject(obj map[string]any) model.AnalysisReport {
	report := model.DefaultReport()
	if obj == nil {
		return report
	}

	if scores, ok := obj["scores"].(map[string]any); ok {
		report.Scores = model.Scores{
			Clarity:       coerceScore(scores["clarity"]),
			Assertiveness: coerceScore(scores["assertiveness"]),
			Empathy:       coerceScore(scores["empathy"]),
			Structure:     coerceScore(scores["structure"]),
		}
	}
	if s, ok := obj["summary"].(string); ok {
		report.Summary = s
	}
	report.Highlights = coerceList(obj["highlights"])
	report.Improvements = coerceList(obj["improvements"])
	report.NextSteps = coerceList(obj["next_steps"])
	report.Rationale = coerceString(obj["rationale"])
	report.WhatWentWellDesc = coerceString(obj["what_went_well_desc"])
	report.WhatToImproveDesc = coerceString(obj["what_to_improve_desc"])
	report.NextStepsDesc = coerceString(obj["next_steps_desc"])
	return report
}

// coerceScore reads a number or numeric string, truncates it and clamps it to 0..10.
func coerceScore(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return model.DefaultScore
		}
		f = n
	default:
		return model.DefaultScore
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return model.DefaultScore
	}
	return int(math.Max(0, math.Min(10, math.Trunc(f))))
}

func coerceList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}
